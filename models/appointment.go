package models

import "time"

// AppointmentStatus is the authoritative state of the reserved slot.
// HOLD can move to CONFIRMED, CANCELLED or EXPIRED; all three are terminal.
type AppointmentStatus string

const (
	StatusHold      AppointmentStatus = "HOLD"
	StatusConfirmed AppointmentStatus = "CONFIRMED"
	StatusCancelled AppointmentStatus = "CANCELLED"
	StatusExpired   AppointmentStatus = "EXPIRED"
)

// Cancellation reasons recorded on CANCELLED appointments.
const (
	CancelReasonUser        = "USER_CANCELLED"
	CancelReasonHoldExpired = "HOLD_EXPIRED"
)

// Appointment represents the actual time-slot reservation. While status is
// HOLD the slot is provisionally unavailable to other customers until
// holdExpiresAt passes.
type Appointment struct {
	ID         string       `bson:"id" json:"id"`
	BusinessID string       `bson:"businessId" json:"businessId"`
	ServiceID  string       `bson:"serviceId,omitempty" json:"serviceId,omitempty"`
	Customer   CustomerInfo `bson:"customer" json:"customer"`

	StartAt time.Time `bson:"startAt" json:"startAt"`
	EndAt   time.Time `bson:"endAt" json:"endAt"`

	Status AppointmentStatus `bson:"status" json:"status"`

	// Core booking rule: every booking requires a deposit, and the slot is
	// held until the deposit is captured or the hold lapses.
	DepositRequired    bool  `bson:"depositRequired" json:"depositRequired"`
	DepositAmountCents int64 `bson:"depositAmountCents" json:"depositAmountCents"`

	HoldExpiresAt time.Time `bson:"holdExpiresAt" json:"holdExpiresAt"`

	BookingSessionID string `bson:"bookingSessionId" json:"bookingSessionId"`

	CancelledReason string     `bson:"cancelledReason,omitempty" json:"cancelledReason,omitempty"`
	CancelledAt     *time.Time `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
