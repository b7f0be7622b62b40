package session_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-formdesk/pkg/desk"
	"github.com/goliatone/go-formdesk/pkg/form"
	"github.com/goliatone/go-formdesk/pkg/model"
	"github.com/goliatone/go-formdesk/pkg/schema"
	"github.com/goliatone/go-formdesk/pkg/session"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newStore(t *testing.T, clk *clock) *session.Store {
	t.Helper()
	registry, err := schema.Default()
	if err != nil {
		t.Fatalf("default registry: %v", err)
	}
	var mu sync.Mutex
	n := 0
	return session.NewStore(
		func() (*form.Controller, *desk.Desk) {
			return form.NewController(registry), desk.New()
		},
		session.WithTTL(10*time.Minute),
		session.WithClock(clk.Now),
		session.WithIDGenerator(func() string {
			mu.Lock()
			defer mu.Unlock()
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
}

func TestStore_GetOrCreate(t *testing.T) {
	store := newStore(t, &clock{now: time.Unix(0, 0)})

	sess, created := store.GetOrCreate("")
	if !created || sess.ID != "id-1" || sess.CSRFToken != "id-2" {
		t.Fatalf("unexpected new session %q token %q created=%v", sess.ID, sess.CSRFToken, created)
	}
	again, created := store.GetOrCreate(sess.ID)
	if created || again != sess {
		t.Fatalf("expected existing session to be returned")
	}
	if _, created := store.GetOrCreate("forged"); !created {
		t.Fatalf("expected unknown id to create a new session")
	}
	if store.Len() != 2 {
		t.Fatalf("expected 2 sessions, got %d", store.Len())
	}

	store.Delete(sess.ID)
	if _, ok := store.Get(sess.ID); ok {
		t.Fatalf("expected deleted session to be gone")
	}
}

func TestStore_SessionsAreIsolated(t *testing.T) {
	store := newStore(t, &clock{now: time.Unix(0, 0)})
	a := store.Create()
	b := store.Create()

	_ = a.Do(func(s *session.Session) error {
		s.Desk.Submit(model.Record{FormType: "A", Values: model.Values{"x": "1"}})
		return nil
	})
	if b.Desk.Len() != 0 {
		t.Fatalf("expected sessions not to share desks")
	}
}

func TestStore_SweepRemovesIdleSessions(t *testing.T) {
	clk := &clock{now: time.Unix(1000, 0)}
	store := newStore(t, clk)
	stale := store.Create()
	clk.Advance(6 * time.Minute)
	fresh := store.Create()
	clk.Advance(6 * time.Minute)

	if removed := store.Sweep(clk.Now()); removed != 1 {
		t.Fatalf("expected 1 removal, got %d", removed)
	}
	if _, ok := store.Get(stale.ID); ok {
		t.Fatalf("expected stale session swept")
	}
	if _, ok := store.Get(fresh.ID); !ok {
		t.Fatalf("expected fresh session kept")
	}

	_ = fresh.Do(func(*session.Session) error { return nil })
	clk.Advance(9 * time.Minute)
	if removed := store.Sweep(clk.Now()); removed != 0 {
		t.Fatalf("expected touched session to survive, removed %d", removed)
	}
}

func TestStore_GetOrCreateMarksSessionSeen(t *testing.T) {
	clk := &clock{now: time.Unix(1000, 0)}
	store := newStore(t, clk)
	sess := store.Create()
	clk.Advance(11 * time.Minute)

	got, created := store.GetOrCreate(sess.ID)
	if created || got != sess {
		t.Fatalf("expected existing session before sweep")
	}
	if !sess.LastSeen().Equal(clk.Now()) {
		t.Fatalf("expected last seen %v, got %v", clk.Now(), sess.LastSeen())
	}
	if removed := store.Sweep(clk.Now()); removed != 0 {
		t.Fatalf("expected handed-out session to survive sweep, removed %d", removed)
	}
	if _, ok := store.Get(sess.ID); !ok {
		t.Fatalf("expected session still reachable")
	}
}

func TestSession_DoSerialisesAccess(t *testing.T) {
	store := newStore(t, &clock{now: time.Unix(0, 0)})
	sess := store.Create()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = sess.Do(func(s *session.Session) error {
				s.Desk.Submit(model.Record{FormType: "A", Values: model.Values{"n": fmt.Sprint(i)}})
				return nil
			})
		}(i)
	}
	wg.Wait()

	if sess.Desk.Len() != 50 {
		t.Fatalf("expected 50 records, got %d", sess.Desk.Len())
	}
}
