package sync

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"sonrisa/models"
)

type fakeRepo struct {
	appointments []models.Appointment
}

func (f *fakeRepo) EnsureSchema(context.Context) error { return nil }

func (f *fakeRepo) Insert(context.Context, string, string, string, string, string) (models.Appointment, error) {
	return models.Appointment{}, nil
}

func (f *fakeRepo) Confirm(context.Context, int) (*models.Appointment, error) {
	return nil, nil
}

func (f *fakeRepo) ListRecent(context.Context, int) ([]models.Appointment, error) {
	return f.appointments, nil
}

var testUpgrader = websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

// newHubServer exposes a hub on a test websocket endpoint.
func newHubServer(t *testing.T, hub *Hub) (*httptest.Server, string) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		hub.Attach(conn)
	}))
	return srv, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) models.Envelope {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var env models.Envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	return env
}

func TestHubSendsSnapshotOnConnect(t *testing.T) {
	repo := &fakeRepo{appointments: []models.Appointment{
		{ID: 2, PatientName: "Luis Perez", Status: models.StatusPending},
		{ID: 1, PatientName: "Ana Lopez", Status: models.StatusConfirmed},
	}}
	hub := NewHub(repo, zap.NewNop())
	defer hub.Close()
	srv, url := newHubServer(t, hub)
	defer srv.Close()

	conn := dial(t, url)
	defer conn.Close()

	env := readEnvelope(t, conn)
	if env.Event != models.EventAllAppointments {
		t.Fatalf("first event should be the snapshot, got %q", env.Event)
	}
	var appointments []models.Appointment
	if err := json.Unmarshal(env.Data, &appointments); err != nil {
		t.Fatalf("bad snapshot payload: %v", err)
	}
	if len(appointments) != 2 || appointments[0].ID != 2 {
		t.Fatalf("unexpected snapshot: %+v", appointments)
	}

	if !hub.Connected() {
		t.Fatalf("hub should report connected with a client attached")
	}
}

func TestHubBroadcastsBookingEvents(t *testing.T) {
	hub := NewHub(&fakeRepo{}, zap.NewNop())
	defer hub.Close()
	srv, url := newHubServer(t, hub)
	defer srv.Close()

	connA := dial(t, url)
	defer connA.Close()
	connB := dial(t, url)
	defer connB.Close()

	// Snapshots first; reading them guarantees both clients are registered.
	readEnvelope(t, connA)
	readEnvelope(t, connB)

	hub.AppointmentCreated(models.Appointment{ID: 5, PatientName: "Ana Lopez"})

	for _, conn := range []*websocket.Conn{connA, connB} {
		env := readEnvelope(t, conn)
		if env.Event != models.EventNewAppointment {
			t.Fatalf("expected newAppointment broadcast, got %q", env.Event)
		}
		var appt models.Appointment
		if err := json.Unmarshal(env.Data, &appt); err != nil || appt.ID != 5 {
			t.Fatalf("unexpected broadcast payload: %s (%v)", env.Data, err)
		}
	}
}

func TestHubConfirmationRepliesToRequestingClientOnly(t *testing.T) {
	hub := NewHub(&fakeRepo{}, zap.NewNop())
	defer hub.Close()
	hub.SetConfirmFunc(func(_ context.Context, id int) models.ConfirmationResult {
		return models.ConfirmationResult{Success: true, AppointmentID: id, Message: "Cita confirmada exitosamente"}
	})
	srv, url := newHubServer(t, hub)
	defer srv.Close()

	requester := dial(t, url)
	defer requester.Close()
	other := dial(t, url)
	defer other.Close()
	readEnvelope(t, requester)
	readEnvelope(t, other)

	// The dashboard sends the bare appointment id.
	if err := requester.WriteJSON(models.Envelope{Event: models.EventConfirmAppointment, Data: json.RawMessage("7")}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	env := readEnvelope(t, requester)
	if env.Event != models.EventConfirmationResult {
		t.Fatalf("expected confirmationResult, got %q", env.Event)
	}
	var result models.ConfirmationResult
	if err := json.Unmarshal(env.Data, &result); err != nil || !result.Success || result.AppointmentID != 7 {
		t.Fatalf("unexpected result payload: %s (%v)", env.Data, err)
	}

	// The other client sees the next broadcast, not the targeted reply.
	hub.AppointmentConfirmed(models.Appointment{ID: 7, Status: models.StatusConfirmed})
	if env := readEnvelope(t, other); env.Event != models.EventAppointmentConfirmed {
		t.Fatalf("other client should only see broadcasts, got %q", env.Event)
	}
}

func TestHubEmissionWithoutClientsDoesNotBlock(t *testing.T) {
	hub := NewHub(&fakeRepo{}, zap.NewNop())
	defer hub.Close()

	done := make(chan struct{})
	go func() {
		hub.AppointmentCreated(models.Appointment{ID: 1})
		hub.AppointmentConfirmed(models.Appointment{ID: 1})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("emission with no clients must return immediately")
	}
	if hub.Connected() {
		t.Fatalf("hub with no clients should report disconnected")
	}
}

func TestHubDetachOnClientDisconnect(t *testing.T) {
	hub := NewHub(&fakeRepo{}, zap.NewNop())
	defer hub.Close()
	srv, url := newHubServer(t, hub)
	defer srv.Close()

	conn := dial(t, url)
	readEnvelope(t, conn)
	if hub.ClientCount() != 1 {
		t.Fatalf("expected 1 client, got %d", hub.ClientCount())
	}

	conn.Close()
	deadline := time.Now().Add(5 * time.Second)
	for hub.ClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("client was not detached after disconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
