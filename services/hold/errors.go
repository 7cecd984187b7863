package hold

import "errors"

// Operation errors surfaced to the HTTP layer. Every failure is
// user-displayable; none are fatal to the process and the flow always offers
// a start-over path.
var (
	ErrSessionNotFound     = errors.New("booking session not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrInvalidTimeRange    = errors.New("startAt must be before endAt")
	ErrInvalidHoldWindow   = errors.New("holdMinutes must be positive")
	ErrSlotUnavailable     = errors.New("requested time slot is no longer available")
)
