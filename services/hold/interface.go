package hold

import (
	"context"
	"time"

	appointmentRepo "apexbooking/database/repository/appointment"
	sessionRepo "apexbooking/database/repository/session"
	"apexbooking/models"
	"apexbooking/utils"

	"github.com/go-redis/redis/v8"
)

// CreateHoldInput carries everything needed to place a HOLD on a slot.
type CreateHoldInput struct {
	BusinessID string
	ServiceID  string
	Customer   models.CustomerInfo

	StartAt time.Time
	EndAt   time.Time

	// Timezone is stored for later calendar integration.
	Timezone string

	// HoldMinutes is the hold timer; zero means "use the configured default".
	HoldMinutes int

	// DepositAmountCents; zero means "use the configured default".
	DepositAmountCents int64
}

// CreateHoldResult is returned to the client for countdown display.
type CreateHoldResult struct {
	SessionID     string    `json:"sessionId"`
	AppointmentID string    `json:"appointmentId"`
	HoldExpiresAt time.Time `json:"holdExpiresAt"`
}

// CheckResult is the outcome of a lazy expiry check.
type CheckResult string

const (
	CheckActive   CheckResult = "ACTIVE"
	CheckExpired  CheckResult = "EXPIRED"
	CheckNotFound CheckResult = "NOT_FOUND"
)

// ExpiryScheduler enqueues a background check for the moment a hold lapses.
// Scheduling is best-effort; the lazy check on read remains authoritative.
type ExpiryScheduler interface {
	ScheduleExpiry(ctx context.Context, appointmentID string, at time.Time) error
}

// HoldService arbitrates creation, countdown and terminal transition of a
// slot reservation.
type HoldService interface {
	CreateHold(ctx context.Context, input CreateHoldInput) (*CreateHoldResult, error)
	AcceptStandards(ctx context.Context, sessionID string) error
	CheckAndExpire(ctx context.Context, appointmentID string) (CheckResult, error)
	Abandon(ctx context.Context, sessionID, appointmentID, reason string) error
	GetSession(ctx context.Context, sessionID string) (*models.BookingSession, error)
	GetAppointment(ctx context.Context, appointmentID string) (*models.Appointment, error)
}

// DefaultHoldService implements HoldService.
type DefaultHoldService struct {
	SessionRepo     sessionRepo.SessionRepository
	AppointmentRepo appointmentRepo.AppointmentRepository

	// Clock is the trusted time source for holdExpiresAt. Client clocks are
	// never consulted.
	Clock utils.Clock

	// Cache holds session snapshots for flow resumption; optional.
	Cache *redis.Client

	// Scheduler enqueues proactive expiry tasks; optional.
	Scheduler ExpiryScheduler

	DefaultHoldMinutes  int
	DefaultDepositCents int64
	DefaultTimezone     string
}
