package appointmentRepo

import (
	"context"
	"time"

	"apexbooking/models"
)

// AppointmentRepository defines data access for appointments. Reads return
// (nil, nil) when the document does not exist.
type AppointmentRepository interface {
	Create(ctx context.Context, appt *models.Appointment) error
	GetByID(ctx context.Context, id string) (*models.Appointment, error)

	// CountActiveOverlapping counts appointments for the business that block
	// the given window: CONFIRMED ones, plus HOLD ones whose hold has not yet
	// expired at now.
	CountActiveOverlapping(ctx context.Context, businessID string, startAt, endAt, now time.Time) (int64, error)

	// MarkExpired transitions HOLD -> EXPIRED. Returns false when the
	// appointment was not in HOLD (already terminal), in which case nothing
	// is written.
	MarkExpired(ctx context.Context, id string, now time.Time) (bool, error)

	// Cancel transitions HOLD -> CANCELLED and records the reason. Returns
	// false when the appointment was not in HOLD.
	Cancel(ctx context.Context, id, reason string, now time.Time) (bool, error)

	ListByBusiness(ctx context.Context, businessID string, limit int64) ([]models.Appointment, error)

	// WithTransaction runs fn inside a single MongoDB transaction so the
	// availability check and the hold insert commit atomically.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
