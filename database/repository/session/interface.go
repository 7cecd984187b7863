package sessionRepo

import (
	"context"
	"time"

	"apexbooking/models"
)

// SessionRepository defines data access for booking sessions. Reads return
// (nil, nil) when the document does not exist; the service layer decides how
// "not found" surfaces to callers.
type SessionRepository interface {
	Create(ctx context.Context, session *models.BookingSession) error
	GetByID(ctx context.Context, id string) (*models.BookingSession, error)

	// LinkAppointment back-links the HOLD appointment into the session and
	// advances the stage to HOLD_CREATED.
	LinkAppointment(ctx context.Context, sessionID, appointmentID string, holdExpiresAt, now time.Time) error

	// AcceptStandards stamps standardsAcceptedAt and advances the stage to
	// READY_TO_PAY, but only from a pre-payment stage. Returns false when the
	// session was already at READY_TO_PAY or later (no mutation).
	AcceptStandards(ctx context.Context, sessionID string, now time.Time) (bool, error)

	// MarkExpired sets the stage to EXPIRED unless the session is CONFIRMED.
	MarkExpired(ctx context.Context, sessionID string, now time.Time) error
}
