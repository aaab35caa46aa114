package sync

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	gosync "sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"sonrisa/models"
)

// testHub is a bare websocket endpoint standing in for a remote hub. It
// records every envelope it receives and keeps the server-side connections
// so tests can drop the link.
type testHub struct {
	srv      *httptest.Server
	url      string
	received chan models.Envelope

	mu    gosync.Mutex
	conns []*websocket.Conn
}

func newTestHub(t *testing.T) *testHub {
	t.Helper()
	h := &testHub{received: make(chan models.Envelope, 16)}
	h.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		h.mu.Lock()
		h.conns = append(h.conns, conn)
		h.mu.Unlock()
		go func() {
			for {
				var env models.Envelope
				if err := conn.ReadJSON(&env); err != nil {
					return
				}
				h.received <- env
			}
		}()
	}))
	h.url = "ws" + strings.TrimPrefix(h.srv.URL, "http")
	return h
}

func (h *testHub) dropConnections() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, conn := range h.conns {
		conn.Close()
	}
	h.conns = nil
}

func (h *testHub) expectEvent(t *testing.T) models.Envelope {
	t.Helper()
	select {
	case env := <-h.received:
		return env
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for relayed event")
		return models.Envelope{}
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func testPolicy() ReconnectPolicy {
	return ReconnectPolicy{InitialDelay: 10 * time.Millisecond, MaxDelay: 50 * time.Millisecond}
}

func TestRelayForwardsEvents(t *testing.T) {
	hub := newTestHub(t)
	defer hub.srv.Close()

	relay := NewRelay(hub.url, testPolicy(), zap.NewNop())
	defer relay.Close()

	waitFor(t, "relay connection", relay.Connected)

	relay.AppointmentCreated(models.Appointment{ID: 1, PatientName: "Ana Lopez"})
	env := hub.expectEvent(t)
	if env.Event != models.EventNewAppointment {
		t.Fatalf("expected newAppointment, got %q", env.Event)
	}
	var appt models.Appointment
	if err := json.Unmarshal(env.Data, &appt); err != nil || appt.ID != 1 {
		t.Fatalf("unexpected payload: %s (%v)", env.Data, err)
	}

	relay.AppointmentConfirmed(models.Appointment{ID: 1, Status: models.StatusConfirmed})
	if env := hub.expectEvent(t); env.Event != models.EventAppointmentConfirmed {
		t.Fatalf("expected appointmentConfirmed, got %q", env.Event)
	}
}

func TestRelayDropsEventsWhileDisconnected(t *testing.T) {
	// Nothing listens on this address.
	relay := NewRelay("ws://127.0.0.1:1/ws", ReconnectPolicy{
		MaxAttempts:  3,
		InitialDelay: 10 * time.Millisecond,
		MaxDelay:     20 * time.Millisecond,
	}, zap.NewNop())
	defer relay.Close()

	done := make(chan struct{})
	go func() {
		relay.AppointmentCreated(models.Appointment{ID: 1})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("emitting while disconnected must not block")
	}
	if relay.Connected() {
		t.Fatalf("relay should report disconnected")
	}
}

func TestRelayReconnectsWithoutReplayingDroppedEvents(t *testing.T) {
	hub := newTestHub(t)
	defer hub.srv.Close()

	// A wide redial pause keeps the disconnected window observable.
	relay := NewRelay(hub.url, ReconnectPolicy{
		InitialDelay: 300 * time.Millisecond,
		MaxDelay:     300 * time.Millisecond,
	}, zap.NewNop())
	defer relay.Close()
	waitFor(t, "initial connection", relay.Connected)

	relay.AppointmentCreated(models.Appointment{ID: 1})
	hub.expectEvent(t)

	// Sever the link from the hub side and wait for the relay to notice.
	hub.dropConnections()
	waitFor(t, "disconnect detection", func() bool { return !relay.Connected() })

	// Emitted while down: dropped, never queued.
	relay.AppointmentCreated(models.Appointment{ID: 2})

	waitFor(t, "reconnection", relay.Connected)

	// Only events emitted after reconnection are delivered.
	relay.AppointmentCreated(models.Appointment{ID: 3})
	env := hub.expectEvent(t)
	var appt models.Appointment
	if err := json.Unmarshal(env.Data, &appt); err != nil {
		t.Fatalf("bad payload: %v", err)
	}
	if appt.ID != 3 {
		t.Fatalf("dropped event was replayed: got appointment %d, want 3", appt.ID)
	}
}

func TestRelayGivesUpAfterMaxAttempts(t *testing.T) {
	relay := NewRelay("ws://127.0.0.1:1/ws", ReconnectPolicy{
		MaxAttempts:  2,
		InitialDelay: 10 * time.Millisecond,
		MaxDelay:     20 * time.Millisecond,
	}, zap.NewNop())
	defer relay.Close()

	waitFor(t, "bounded attempts", func() bool { return relay.ReconnectAttempts() >= 2 })
	if relay.Connected() {
		t.Fatalf("relay should never have connected")
	}
}
