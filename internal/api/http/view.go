package httpapi

import (
	"github.com/i474232898/weathernow/internal/weather"
)

// sessionView is the JSON shape of a widget session.
type sessionView struct {
	ID          string              `json:"id"`
	Phase       weather.Phase       `json:"phase"`
	Query       string              `json:"query"`
	Error       string              `json:"error,omitempty"`
	Result      *weather.Result     `json:"result"`
	Preferences weather.Preferences `json:"preferences"`
	Theme       string              `json:"theme"`
	Display     *weather.Display    `json:"display,omitempty"`
}

func newSessionView(id string, st weather.State) sessionView {
	v := sessionView{
		ID:          id,
		Phase:       st.Phase,
		Query:       st.Query,
		Error:       st.ErrorMessage(),
		Result:      st.Result,
		Preferences: st.Preferences,
		Theme:       weather.ThemeName(st.Preferences),
	}
	if st.Result != nil {
		d := weather.Render(*st.Result, st.Preferences)
		v.Display = &d
	}
	return v
}
