package models

import "encoding/json"

// Event names on the dashboard sync channel. They are kept identical to the
// socket event vocabulary the dashboard already speaks.
const (
	EventNewAppointment       = "newAppointment"
	EventAppointmentConfirmed = "appointmentConfirmed"
	EventAllAppointments      = "allAppointments"
	EventConfirmAppointment   = "confirmAppointment"
	EventConfirmationResult   = "confirmationResult"
)

// Envelope is the wire frame for every sync message: an event name plus its
// JSON payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// NewEnvelope marshals data into an Envelope for the given event.
func NewEnvelope(event string, data any) (Envelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Event: event, Data: raw}, nil
}

// ConfirmRequest is the dashboard-to-hub payload asking to confirm a booking.
type ConfirmRequest struct {
	AppointmentID int `json:"appointmentId"`
}

// ConfirmationResult is the reply sent back to the requesting dashboard
// client after a confirmation attempt.
type ConfirmationResult struct {
	Success       bool   `json:"success"`
	AppointmentID int    `json:"appointmentId"`
	Message       string `json:"message"`
}
