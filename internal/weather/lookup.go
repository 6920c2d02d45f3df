package weather

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
)

// ErrStaleResponse is returned by FetchWeather when the provider answered
// after a newer fetch was issued and stale responses are being discarded.
// It never becomes part of a Lookup's State.
var ErrStaleResponse = errors.New("stale response discarded")

// FetchObserver is notified once per FetchWeather call with the call's
// outcome (nil on success) and its duration.
type FetchObserver interface {
	ObserveFetch(err error, elapsed time.Duration)
}

// Option configures a Lookup.
type Option func(*Lookup)

// WithStaleResponseDiscard makes a Lookup ignore any provider response that
// resolves after a newer FetchWeather call has been issued. Without it the
// last response to resolve wins, whichever request it belongs to.
func WithStaleResponseDiscard() Option {
	return func(l *Lookup) {
		l.discardStale = true
	}
}

// WithObserver registers an observer for fetch outcomes.
func WithObserver(o FetchObserver) Option {
	return func(l *Lookup) {
		l.observer = o
	}
}

// Lookup holds the state of one weather widget: the current query, the last
// result or error, and the display preferences.
type Lookup struct {
	provider     Provider
	observer     FetchObserver
	discardStale bool

	mu     sync.Mutex
	seq    uint64 // id of the most recently issued fetch
	query  string
	phase  Phase
	result *Result
	err    error
	prefs  Preferences
}

// NewLookup creates a Lookup in its initial state: empty query, no result,
// no error, Celsius and dark theme.
func NewLookup(provider Provider, opts ...Option) *Lookup {
	l := &Lookup{
		provider: provider,
		phase:    PhaseIdle,
		prefs:    DefaultPreferences(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// FetchWeather looks up the current weather for query and replaces the
// lookup's result or error with the outcome.
//
// A blank query fails with ErrEmptyQuery without contacting the provider.
// Any provider failure is reported as ErrLocationNotFound. The provider
// call is the only blocking step and runs without holding the lock, so
// concurrent calls on the same Lookup race; see WithStaleResponseDiscard.
func (l *Lookup) FetchWeather(ctx context.Context, query string) error {
	start := time.Now()

	l.mu.Lock()
	l.seq++
	seq := l.seq
	l.query = query
	l.result = nil
	l.err = nil

	if strings.TrimSpace(query) == "" {
		l.err = ErrEmptyQuery
		l.phase = PhaseFailure
		l.mu.Unlock()
		l.observe(ErrEmptyQuery, start)
		return ErrEmptyQuery
	}

	l.phase = PhasePending
	l.mu.Unlock()

	res, fetchErr := l.provider.Current(ctx, query)

	err := l.apply(seq, query, res, fetchErr)
	l.observe(err, start)
	return err
}

func (l *Lookup) apply(seq uint64, query string, res Result, fetchErr error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.discardStale && seq != l.seq {
		log.Printf("lookup: discarding response for %q (request %d, latest %d)", query, seq, l.seq)
		return ErrStaleResponse
	}

	if fetchErr != nil {
		log.Printf("lookup: provider %s failed for %q: %v", l.provider.Name(), query, fetchErr)
		l.result = nil
		l.err = ErrLocationNotFound
		l.phase = PhaseFailure
		return fmt.Errorf("%w: %v", ErrLocationNotFound, fetchErr)
	}

	l.result = &res
	l.err = nil
	l.phase = PhaseSuccess
	return nil
}

func (l *Lookup) observe(err error, start time.Time) {
	if l.observer != nil {
		l.observer.ObserveFetch(err, time.Since(start))
	}
}

// SetQuery updates the current query without fetching.
func (l *Lookup) SetQuery(query string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.query = query
}

// Query returns the current query.
func (l *Lookup) Query() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.query
}

// ToggleUnits flips between Celsius and Fahrenheit display.
func (l *Lookup) ToggleUnits() Preferences {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prefs.UseFahrenheit = !l.prefs.UseFahrenheit
	return l.prefs
}

// ToggleTheme flips between the dark and light theme.
func (l *Lookup) ToggleTheme() Preferences {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prefs.DarkTheme = !l.prefs.DarkTheme
	return l.prefs
}

// State returns a snapshot of the lookup.
func (l *Lookup) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()

	st := State{
		Query:       l.query,
		Phase:       l.phase,
		Err:         l.err,
		Preferences: l.prefs,
	}
	if l.result != nil {
		r := *l.result
		st.Result = &r
	}
	return st
}
