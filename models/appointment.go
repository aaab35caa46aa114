package models

import "time"

// Appointment statuses. An appointment starts pending and moves to
// confirmed exactly once; there is no reverse transition.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
)

// Appointment is a persisted booking. Field names in JSON match the
// dashboard wire payload, which mirrors the appointments table columns.
type Appointment struct {
	ID              int       `json:"id"`
	PatientName     string    `json:"patient_name"`
	PatientPhone    string    `json:"patient_phone"`
	ServiceType     string    `json:"service_type"`
	ServicePrice    string    `json:"service_price"`
	AppointmentDate string    `json:"appointment_date"`
	CreatedAt       time.Time `json:"created_at"`
	Status          string    `json:"status"`
}
