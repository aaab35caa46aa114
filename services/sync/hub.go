package sync

import (
	"context"
	"encoding/json"
	gosync "sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	appointmentRepo "sonrisa/database/repository/appointment"
	"sonrisa/models"
)

const (
	clientSendBuffer = 32
	writeWait        = 10 * time.Second
	snapshotLimit    = 100
)

// ConfirmFunc executes a dashboard-initiated confirmation request. Wired in
// after construction because the confirmation service itself broadcasts
// through the hub.
type ConfirmFunc func(ctx context.Context, appointmentID int) models.ConfirmationResult

// Hub is the bridge role that hosts dashboard connections. Every connected
// client receives a full appointment snapshot on attach and every booking
// event afterwards. Confirmation requests are answered on the requesting
// connection only.
type Hub struct {
	Repo   appointmentRepo.AppointmentRepository
	Logger *zap.Logger

	confirm ConfirmFunc

	mu      gosync.RWMutex
	clients map[uuid.UUID]*hubClient
	closed  bool
}

type hubClient struct {
	id   uuid.UUID
	conn *websocket.Conn
	send chan models.Envelope
}

// NewHub returns a hub with no clients attached yet.
func NewHub(repo appointmentRepo.AppointmentRepository, logger *zap.Logger) *Hub {
	return &Hub{
		Repo:    repo,
		Logger:  logger,
		clients: make(map[uuid.UUID]*hubClient),
	}
}

// SetConfirmFunc installs the handler for confirmAppointment requests.
func (h *Hub) SetConfirmFunc(fn ConfirmFunc) {
	h.confirm = fn
}

// Attach registers an upgraded websocket connection as a dashboard client
// and starts its read/write pumps. Returns once the client is registered.
func (h *Hub) Attach(conn *websocket.Conn) {
	client := &hubClient{
		id:   uuid.New(),
		conn: conn,
		send: make(chan models.Envelope, clientSendBuffer),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[client.id] = client
	h.mu.Unlock()

	h.Logger.Info("dashboard client connected", zap.String("client", client.id.String()))

	go h.writePump(client)
	go h.readPump(client)
	go h.sendSnapshot(client)
}

// sendSnapshot pushes the recent appointment list to a newly attached client.
func (h *Hub) sendSnapshot(client *hubClient) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	appointments, err := h.Repo.ListRecent(ctx, snapshotLimit)
	if err != nil {
		h.Logger.Error("failed to load appointment snapshot", zap.Error(err))
		appointments = []models.Appointment{}
	}

	env, err := models.NewEnvelope(models.EventAllAppointments, appointments)
	if err != nil {
		h.Logger.Error("failed to encode appointment snapshot", zap.Error(err))
		return
	}
	h.deliver(client, env)
}

// AppointmentCreated broadcasts a new booking to every dashboard client.
func (h *Hub) AppointmentCreated(appt models.Appointment) {
	h.broadcast(models.EventNewAppointment, appt)
}

// AppointmentConfirmed broadcasts a confirmation to every dashboard client.
func (h *Hub) AppointmentConfirmed(appt models.Appointment) {
	h.broadcast(models.EventAppointmentConfirmed, appt)
}

// Connected reports whether any dashboard client is attached.
func (h *Hub) Connected() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients) > 0
}

// ClientCount returns the number of attached dashboard clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client and rejects future attachments.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for id, client := range h.clients {
		close(client.send)
		delete(h.clients, id)
	}
}

func (h *Hub) broadcast(event string, appt models.Appointment) {
	env, err := models.NewEnvelope(event, appt)
	if err != nil {
		h.Logger.Error("failed to encode sync event", zap.String("event", event), zap.Error(err))
		return
	}

	h.mu.RLock()
	clients := make([]*hubClient, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	if len(clients) == 0 {
		h.Logger.Debug("no dashboard clients connected, dropping event", zap.String("event", event))
		return
	}
	for _, client := range clients {
		h.deliver(client, env)
	}
}

// deliver queues an envelope without ever blocking. A client whose buffer is
// full misses the event; it is logged and life goes on. Membership is
// re-checked under the lock so a detached client's closed channel is never
// written to.
func (h *Hub) deliver(client *hubClient, env models.Envelope) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[client.id]; !ok {
		return
	}
	select {
	case client.send <- env:
	default:
		h.Logger.Warn("dashboard client send buffer full, dropping event",
			zap.String("client", client.id.String()), zap.String("event", env.Event))
	}
}

func (h *Hub) writePump(client *hubClient) {
	defer client.conn.Close()
	for env := range client.send {
		client.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := client.conn.WriteJSON(env); err != nil {
			h.Logger.Warn("write to dashboard client failed", zap.String("client", client.id.String()), zap.Error(err))
			h.detach(client.id)
			return
		}
	}
}

func (h *Hub) readPump(client *hubClient) {
	defer func() {
		h.detach(client.id)
		client.conn.Close()
	}()

	for {
		var env models.Envelope
		if err := client.conn.ReadJSON(&env); err != nil {
			h.Logger.Info("dashboard client disconnected", zap.String("client", client.id.String()))
			return
		}
		if env.Event == models.EventConfirmAppointment {
			h.handleConfirm(client, env.Data)
		}
	}
}

// handleConfirm runs a dashboard confirmation request and answers the
// requesting client only.
func (h *Hub) handleConfirm(client *hubClient, data json.RawMessage) {
	id, ok := decodeConfirmID(data)
	if !ok {
		h.Logger.Warn("malformed confirmAppointment payload", zap.String("client", client.id.String()))
		return
	}

	var result models.ConfirmationResult
	if h.confirm == nil {
		result = models.ConfirmationResult{Success: false, AppointmentID: id, Message: "Error al confirmar la cita"}
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		result = h.confirm(ctx, id)
		cancel()
	}

	env, err := models.NewEnvelope(models.EventConfirmationResult, result)
	if err != nil {
		h.Logger.Error("failed to encode confirmation result", zap.Error(err))
		return
	}
	h.deliver(client, env)
}

// decodeConfirmID accepts both a bare id and the {"appointmentId": n} form.
func decodeConfirmID(data json.RawMessage) (int, bool) {
	var id int
	if err := json.Unmarshal(data, &id); err == nil {
		return id, true
	}
	var req models.ConfirmRequest
	if err := json.Unmarshal(data, &req); err == nil && req.AppointmentID != 0 {
		return req.AppointmentID, true
	}
	return 0, false
}

func (h *Hub) detach(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[id]; ok {
		delete(h.clients, id)
		close(client.send)
	}
}
