package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formdesk/pkg/desk"
	"github.com/goliatone/go-formdesk/pkg/form"
)

// DefaultTTL is the idle lifetime applied when none is configured.
const DefaultTTL = 30 * time.Minute

// Factory builds the controllers for a new session.
type Factory func() (*form.Controller, *desk.Desk)

// Option configures a Store.
type Option func(*Store)

// WithTTL sets the idle lifetime used by Sweep. Non-positive values keep the
// default.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides the session id and token source.
func WithIDGenerator(next func() string) Option {
	return func(s *Store) {
		if next != nil {
			s.newID = next
		}
	}
}

// Store holds every live session.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	factory  Factory
	ttl      time.Duration
	now      func() time.Time
	newID    func() string
}

// NewStore returns an empty store that builds sessions with factory.
func NewStore(factory Factory, options ...Option) *Store {
	s := &Store{
		sessions: make(map[string]*Session),
		factory:  factory,
		ttl:      DefaultTTL,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.factory == nil {
		s.factory = func() (*form.Controller, *desk.Desk) {
			return form.NewController(nil), desk.New()
		}
	}
	return s
}

// TTL returns the configured idle lifetime.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Get returns the session for id.
func (s *Store) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Create registers a fresh session.
func (s *Store) Create() *Session {
	ctrl, dk := s.factory()
	sess := &Session{
		ID:        s.newID(),
		CSRFToken: s.newID(),
		Form:      ctrl,
		Desk:      dk,
		now:       s.now,
	}
	sess.touch(s.now())
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// GetOrCreate returns the session for id, creating a new one when id is
// unknown. created reports whether a new session was made; the caller should
// then issue the new id to the client. An existing session is marked as seen
// while the store lock is held, so a concurrent Sweep cannot drop it before
// the caller gets to use it.
func (s *Store) GetOrCreate(id string) (sess *Session, created bool) {
	if id != "" {
		s.mu.RLock()
		existing, ok := s.sessions[id]
		if ok {
			existing.touch(s.now())
		}
		s.mu.RUnlock()
		if ok {
			return existing, false
		}
	}
	return s.Create(), true
}

// Delete drops the session for id.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Sweep removes sessions idle for longer than the TTL as of now and returns
// how many were removed.
func (s *Store) Sweep(now time.Time) int {
	cutoff := now.Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		if sess.idleSince(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
