package models

import "time"

// BookingStage is the customer-facing progress marker through the booking flow.
type BookingStage string

const (
	StageIntake         BookingStage = "INTAKE"
	StageHoldCreated    BookingStage = "HOLD_CREATED"
	StageStandardsShown BookingStage = "STANDARDS_SHOWN"
	StageReadyToPay     BookingStage = "READY_TO_PAY"
	StageConfirmed      BookingStage = "CONFIRMED"
	StageExpired        BookingStage = "EXPIRED"
)

// BookingSession represents a customer's in-progress attempt to reserve a slot.
// It moves INTAKE -> HOLD_CREATED once the linked appointment exists, and on
// to READY_TO_PAY once the booking standards are accepted. CONFIRMED and
// EXPIRED are terminal.
type BookingSession struct {
	ID         string       `bson:"id" json:"id"`
	BusinessID string       `bson:"businessId" json:"businessId"`
	ServiceID  string       `bson:"serviceId,omitempty" json:"serviceId,omitempty"`
	Customer   CustomerInfo `bson:"customer" json:"customer"`

	RequestedStart time.Time `bson:"requestedStart" json:"requestedStart"`
	RequestedEnd   time.Time `bson:"requestedEnd" json:"requestedEnd"`
	Timezone       string    `bson:"timezone" json:"timezone"`

	Stage BookingStage `bson:"stage" json:"stage"`

	// StandardsAcceptedAt is set at most once; acceptance never moves the
	// stage backward.
	StandardsAcceptedAt *time.Time `bson:"standardsAcceptedAt,omitempty" json:"standardsAcceptedAt,omitempty"`

	AppointmentID string     `bson:"appointmentId,omitempty" json:"appointmentId,omitempty"`
	HoldExpiresAt *time.Time `bson:"holdExpiresAt,omitempty" json:"holdExpiresAt,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
