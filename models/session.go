package models

import "time"

// Stage identifies where a customer is inside the guided booking dialogue.
type Stage int

const (
	StageAwaitingServiceChoice Stage = iota
	StageAwaitingConfirmation
	StageAwaitingName
	StageAwaitingDateTime
)

func (s Stage) String() string {
	switch s {
	case StageAwaitingServiceChoice:
		return "awaiting_service_choice"
	case StageAwaitingConfirmation:
		return "awaiting_confirmation"
	case StageAwaitingName:
		return "awaiting_name"
	case StageAwaitingDateTime:
		return "awaiting_date_time"
	}
	return "unknown"
}

// Session is the in-progress conversation state for one customer. It lives
// only in memory; a restart drops every in-flight dialogue, which is an
// accepted limitation of the booking flow.
type Session struct {
	Stage              Stage  `json:"stage"`
	ServiceType        string `json:"service_type"`
	ServiceDescription string `json:"service_description"`
	Price              string `json:"price"`
	Name               string `json:"name"`
	// ExpectingDateTime guards the final capture step: the date/time input is
	// only accepted when the name step completed in this same session.
	ExpectingDateTime bool      `json:"expecting_date_time"`
	UpdatedAt         time.Time `json:"updated_at"`
}
