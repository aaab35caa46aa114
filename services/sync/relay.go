package sync

import (
	gosync "sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"sonrisa/models"
)

const relaySendBuffer = 32

// ReconnectPolicy bounds the relay's reconnection loop. MaxAttempts of 0
// retries forever; the delay doubles from InitialDelay up to MaxDelay.
type ReconnectPolicy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

// Relay is the bridge role that forwards local booking events to a remote
// hub. Events emitted while the link is down are dropped, never queued: the
// dashboard resynchronizes from the hub's snapshot, not from a replay.
type Relay struct {
	URL    string
	Policy ReconnectPolicy
	Logger *zap.Logger

	events    chan models.Envelope
	done      chan struct{}
	closeOnce gosync.Once
	connected atomic.Bool
	attempts  atomic.Int64
}

// NewRelay creates a relay and starts its connection loop.
func NewRelay(url string, policy ReconnectPolicy, logger *zap.Logger) *Relay {
	if policy.InitialDelay <= 0 {
		policy.InitialDelay = time.Second
	}
	if policy.MaxDelay < policy.InitialDelay {
		policy.MaxDelay = policy.InitialDelay
	}
	r := &Relay{
		URL:    url,
		Policy: policy,
		Logger: logger,
		events: make(chan models.Envelope, relaySendBuffer),
		done:   make(chan struct{}),
	}
	go r.run()
	return r
}

// AppointmentCreated forwards a new booking to the remote hub.
func (r *Relay) AppointmentCreated(appt models.Appointment) {
	r.emit(models.EventNewAppointment, appt)
}

// AppointmentConfirmed forwards a confirmation to the remote hub.
func (r *Relay) AppointmentConfirmed(appt models.Appointment) {
	r.emit(models.EventAppointmentConfirmed, appt)
}

// Connected reports whether the upstream link is currently established.
func (r *Relay) Connected() bool {
	return r.connected.Load()
}

// ReconnectAttempts returns how many dial attempts have been made since the
// link last dropped. Exposed for health reporting.
func (r *Relay) ReconnectAttempts() int64 {
	return r.attempts.Load()
}

// Close stops the connection loop.
func (r *Relay) Close() {
	r.closeOnce.Do(func() { close(r.done) })
}

// emit hands an event to the sender without blocking. Disconnected or
// backlogged means dropped.
func (r *Relay) emit(event string, appt models.Appointment) {
	if !r.connected.Load() {
		r.Logger.Warn("sync relay disconnected, dropping event", zap.String("event", event), zap.Int("appointment", appt.ID))
		return
	}
	env, err := models.NewEnvelope(event, appt)
	if err != nil {
		r.Logger.Error("failed to encode sync event", zap.String("event", event), zap.Error(err))
		return
	}
	select {
	case r.events <- env:
	default:
		r.Logger.Warn("sync relay backlogged, dropping event", zap.String("event", event))
	}
}

// run dials the hub and forwards events until Close, reconnecting per the
// policy after every link failure.
func (r *Relay) run() {
	delay := r.Policy.InitialDelay
	for {
		select {
		case <-r.done:
			return
		default:
		}

		conn, _, err := websocket.DefaultDialer.Dial(r.URL, nil)
		if err != nil {
			attempt := r.attempts.Add(1)
			if r.Policy.MaxAttempts > 0 && attempt >= int64(r.Policy.MaxAttempts) {
				r.Logger.Error("sync relay gave up reconnecting", zap.String("hub", r.URL), zap.Int64("attempts", attempt))
				return
			}
			r.Logger.Warn("sync relay failed to connect, retrying",
				zap.String("hub", r.URL), zap.Int64("attempt", attempt), zap.Duration("delay", delay), zap.Error(err))
			select {
			case <-r.done:
				return
			case <-time.After(delay):
			}
			delay *= 2
			if delay > r.Policy.MaxDelay {
				delay = r.Policy.MaxDelay
			}
			continue
		}

		r.Logger.Info("sync relay connected", zap.String("hub", r.URL))
		r.attempts.Store(0)
		delay = r.Policy.InitialDelay
		r.connected.Store(true)

		r.forward(conn)

		r.connected.Store(false)
		conn.Close()
		r.drain()

		select {
		case <-r.done:
			return
		default:
			r.Logger.Warn("sync relay connection lost", zap.String("hub", r.URL), zap.Duration("redialIn", delay))
		}

		// Pause before redialing so a flapping hub is not hammered.
		select {
		case <-r.done:
			return
		case <-time.After(delay):
		}
	}
}

// forward pushes queued events onto the connection until it breaks or the
// relay is closed. A reader goroutine surfaces remote closes.
func (r *Relay) forward(conn *websocket.Conn) {
	readErr := make(chan error, 1)
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				readErr <- err
				return
			}
		}
	}()

	for {
		select {
		case <-r.done:
			return
		case <-readErr:
			return
		case env := <-r.events:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(env); err != nil {
				r.Logger.Warn("sync relay write failed, dropping event", zap.String("event", env.Event), zap.Error(err))
				return
			}
		}
	}
}

// drain discards whatever was queued while the link went down. Stale events
// must not be replayed after reconnection.
func (r *Relay) drain() {
	for {
		select {
		case <-r.events:
		default:
			return
		}
	}
}
