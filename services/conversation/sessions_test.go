package conversation

import (
	"testing"
	"time"

	"sonrisa/models"
)

func TestSessionStoreBasics(t *testing.T) {
	store := NewSessionStore()

	if _, ok := store.Get("111"); ok {
		t.Fatalf("expected no session for new customer")
	}

	store.Set("111", models.Session{Stage: models.StageAwaitingName, Name: "Ana"})
	session, ok := store.Get("111")
	if !ok {
		t.Fatalf("expected session after Set")
	}
	if session.Stage != models.StageAwaitingName || session.Name != "Ana" {
		t.Fatalf("unexpected session: %+v", session)
	}
	if session.UpdatedAt.IsZero() {
		t.Fatalf("Set should stamp UpdatedAt")
	}

	// Overwrite.
	store.Set("111", models.Session{Stage: models.StageAwaitingDateTime})
	session, _ = store.Get("111")
	if session.Stage != models.StageAwaitingDateTime || session.Name != "" {
		t.Fatalf("Set should overwrite, got %+v", session)
	}

	store.Clear("111")
	if _, ok := store.Get("111"); ok {
		t.Fatalf("expected session gone after Clear")
	}

	// Clearing an absent session is a no-op.
	store.Clear("111")
	store.Clear("nobody")
}

func TestSessionStoreIndependentCustomers(t *testing.T) {
	store := NewSessionStore()
	store.Set("111", models.Session{Stage: models.StageAwaitingDateTime, ServiceType: "urgencia", Name: "Ana"})
	store.Set("222", models.Session{Stage: models.StageAwaitingDateTime, ServiceType: "limpieza", Name: "Luis"})

	store.Clear("111")

	session, ok := store.Get("222")
	if !ok {
		t.Fatalf("clearing one customer must not affect another")
	}
	if session.ServiceType != "limpieza" || session.Name != "Luis" {
		t.Fatalf("unexpected session for second customer: %+v", session)
	}
}

func TestSessionStoreEvictIdle(t *testing.T) {
	store := NewSessionStore().(*memorySessionStore)

	store.Set("old", models.Session{Stage: models.StageAwaitingName})
	store.Set("fresh", models.Session{Stage: models.StageAwaitingName})

	// Backdate one session past the cutoff.
	store.mu.Lock()
	s := store.sessions["old"]
	s.UpdatedAt = time.Now().Add(-time.Hour)
	store.sessions["old"] = s
	store.mu.Unlock()

	if evicted := store.EvictIdle(30 * time.Minute); evicted != 1 {
		t.Fatalf("expected 1 eviction, got %d", evicted)
	}
	if _, ok := store.Get("old"); ok {
		t.Fatalf("idle session should be evicted")
	}
	if _, ok := store.Get("fresh"); !ok {
		t.Fatalf("fresh session should survive")
	}

	// TTL 0 disables the sweep entirely.
	if evicted := store.EvictIdle(0); evicted != 0 {
		t.Fatalf("EvictIdle(0) should be a no-op, got %d", evicted)
	}
}
