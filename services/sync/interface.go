package sync

import "sonrisa/models"

// Bridge relays booking events toward the dashboard. Implementations must
// never block the caller: when delivery is impossible the event is dropped
// and the drop is logged. Booking and persistence never wait on the bridge.
type Bridge interface {
	// AppointmentCreated announces a freshly booked appointment.
	AppointmentCreated(appt models.Appointment)
	// AppointmentConfirmed announces a confirmed appointment.
	AppointmentConfirmed(appt models.Appointment)
	// Connected reports whether the bridge currently has a live link:
	// at least one dashboard client for a hub, an established upstream
	// connection for a relay.
	Connected() bool
	// Close tears the transport down. Used during shutdown.
	Close()
}

// NopBridge discards every event. Used in tests and as a stand-in when no
// sync transport is wired.
type NopBridge struct{}

func (NopBridge) AppointmentCreated(models.Appointment)   {}
func (NopBridge) AppointmentConfirmed(models.Appointment) {}
func (NopBridge) Connected() bool                         { return false }
func (NopBridge) Close()                                  {}
