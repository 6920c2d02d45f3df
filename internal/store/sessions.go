package store

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/weathernow/internal/weather"
)

var (
	// ErrNotFound is returned when no session exists for an id.
	ErrNotFound = errors.New("session not found")
)

// LookupFactory builds the Lookup backing a new session.
type LookupFactory func() *weather.Lookup

type session struct {
	lookup   *weather.Lookup
	lastSeen time.Time
}

// SessionStore is a concurrency-safe in-memory set of widget sessions.
// Nothing is persisted; a new session always starts from default state.
type SessionStore struct {
	mu sync.RWMutex

	// key: session id
	data map[string]*session

	newLookup LookupFactory
	maxAge    time.Duration // idle time before a session is swept (0 = never)
	now       func() time.Time
}

// NewSessionStore creates a SessionStore. If maxAge is <= 0, sessions never expire.
func NewSessionStore(factory LookupFactory, maxAge time.Duration) *SessionStore {
	return &SessionStore{
		data:      make(map[string]*session),
		newLookup: factory,
		maxAge:    maxAge,
		now:       time.Now,
	}
}

// Create starts a new session and returns its id.
func (s *SessionStore) Create() (string, *weather.Lookup) {
	id := uuid.NewString()
	l := s.newLookup()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[id] = &session{lookup: l, lastSeen: s.now()}
	return id, l
}

// Get returns the session's Lookup and marks the session as active.
func (s *SessionStore) Get(id string) (*weather.Lookup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.data[id]
	if !ok {
		return nil, ErrNotFound
	}
	sess.lastSeen = s.now()
	return sess.lookup, nil
}

// Delete ends a session.
func (s *SessionStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[id]; !ok {
		return ErrNotFound
	}
	delete(s.data, id)
	return nil
}

// Sweep removes sessions idle for longer than maxAge and returns how many were removed.
func (s *SessionStore) Sweep() int {
	if s.maxAge <= 0 {
		return 0
	}

	cutoff := s.now().Add(-s.maxAge)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.data {
		if sess.lastSeen.Before(cutoff) {
			delete(s.data, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
