package weather

import (
	"errors"
)

// The closed set of user-visible errors. Every provider or network failure
// collapses into ErrLocationNotFound.
var (
	ErrEmptyQuery       = errors.New("empty query")
	ErrLocationNotFound = errors.New("location not found")
)

// Phase is the state of the current fetch cycle.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhasePending Phase = "pending"
	PhaseSuccess Phase = "success"
	PhaseFailure Phase = "failure"
)

// Result is the normalized outcome of a successful provider lookup.
// A Result is never mutated after it is produced.
type Result struct {
	LocationName             string  `json:"locationName"`
	ConditionDescription     string  `json:"conditionDescription"`
	TemperatureCelsius       float64 `json:"temperatureCelsius"`
	HumidityPercent          int     `json:"humidityPercent"`
	WindSpeedMetersPerSecond float64 `json:"windSpeedMetersPerSecond"`
}

// Preferences holds the view toggles. They never derive from a Result.
type Preferences struct {
	UseFahrenheit bool `json:"useFahrenheit"`
	DarkTheme     bool `json:"darkTheme"`
}

// DefaultPreferences returns the initial display preferences: Celsius, dark theme.
func DefaultPreferences() Preferences {
	return Preferences{UseFahrenheit: false, DarkTheme: true}
}

// State is a point-in-time copy of a Lookup.
// At most one of Result and Err is set.
type State struct {
	Query       string
	Phase       Phase
	Result      *Result
	Err         error
	Preferences Preferences
}

// ErrorMessage returns the user-visible error string, or "" when there is none.
func (s State) ErrorMessage() string {
	if s.Err == nil {
		return ""
	}
	return s.Err.Error()
}
