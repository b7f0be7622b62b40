// Package session maps browser session ids to per-session controller state.
// Every session owns its own Form controller and Desk; the store serialises
// access to each session so concurrent requests from one browser observe a
// single logical thread.
package session

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/goliatone/go-formdesk/pkg/desk"
	"github.com/goliatone/go-formdesk/pkg/form"
)

// Session is the state of one browser session.
type Session struct {
	ID        string
	CSRFToken string
	Form      *form.Controller
	Desk      *desk.Desk

	mu       sync.Mutex
	lastSeen atomic.Int64
	now      func() time.Time
}

// Do runs fn while holding the session lock and marks the session as seen.
func (s *Session) Do(fn func(*Session) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch(s.now())
	return fn(s)
}

// LastSeen returns the time the session was last handed out or used.
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

func (s *Session) touch(ts time.Time) {
	s.lastSeen.Store(ts.UnixNano())
}

// idleSince reports whether the session was last seen before cutoff. It
// skips sessions currently locked by a request.
func (s *Session) idleSince(cutoff time.Time) bool {
	if !s.mu.TryLock() {
		return false
	}
	defer s.mu.Unlock()
	return s.LastSeen().Before(cutoff)
}
