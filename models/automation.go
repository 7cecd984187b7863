package models

import "time"

// AutomationChannel is the delivery channel for an automation message.
type AutomationChannel string

const (
	ChannelSMS   AutomationChannel = "SMS"
	ChannelEmail AutomationChannel = "Email"
)

// Automation triggers relative to an appointment.
const (
	TriggerBeforeAppointment24h = "BEFORE_APPOINTMENT_24H"
	TriggerBeforeAppointment2h  = "BEFORE_APPOINTMENT_2H"
	TriggerAfterBooking         = "AFTER_BOOKING"
	TriggerAfterAppointment     = "AFTER_APPOINTMENT"
)

// Automation is an owner-defined reminder/follow-up rule, e.g. "SMS 24h
// before the appointment".
type Automation struct {
	ID         string `bson:"id" json:"id"`
	BusinessID string `bson:"businessId" json:"businessId"`

	Name    string            `bson:"name" json:"name"`
	Channel AutomationChannel `bson:"channel" json:"channel"`
	Trigger string            `bson:"trigger" json:"trigger"`

	// OffsetMinutes is the relative send time for BEFORE/AFTER triggers.
	OffsetMinutes int `bson:"offsetMinutes" json:"offsetMinutes"`

	// Subject applies to Email only.
	Subject string `bson:"subject,omitempty" json:"subject,omitempty"`
	Message string `bson:"message" json:"message"`

	Enabled bool `bson:"enabled" json:"enabled"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
