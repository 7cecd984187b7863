// File: services/hold/hold.go
package hold

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"apexbooking/models"
	"apexbooking/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func sessionCacheKey(sessionID string) string {
	return "bookingSession:" + sessionID
}

// CreateHold persists a new booking session and a HOLD appointment for the
// requested window, back-links the two records and returns the computed
// expiry instant for countdown display.
//
// The availability check and the appointment insert run in one transaction,
// so two customers racing for an overlapping window cannot both obtain a
// hold. The session insert stays outside the transaction: if the hold itself
// fails, the INTAKE session remains as an abandoned intake record.
func (s *DefaultHoldService) CreateHold(ctx context.Context, input CreateHoldInput) (*CreateHoldResult, error) {
	if input.StartAt.IsZero() || input.EndAt.IsZero() || !input.StartAt.Before(input.EndAt) {
		return nil, ErrInvalidTimeRange
	}
	if input.HoldMinutes < 0 {
		return nil, ErrInvalidHoldWindow
	}

	holdMinutes := input.HoldMinutes
	if holdMinutes == 0 {
		holdMinutes = s.DefaultHoldMinutes
	}
	depositCents := input.DepositAmountCents
	if depositCents <= 0 {
		depositCents = s.DefaultDepositCents
	}
	timezone := input.Timezone
	if timezone == "" {
		timezone = s.DefaultTimezone
	}

	// referenceTime comes from the server clock so a skewed or hostile
	// client cannot stretch its hold window.
	now := s.Clock.Now()
	holdExpiresAt := now.Add(time.Duration(holdMinutes) * time.Minute)

	session := &models.BookingSession{
		ID:             uuid.New().String(),
		BusinessID:     input.BusinessID,
		ServiceID:      input.ServiceID,
		Customer:       input.Customer,
		RequestedStart: input.StartAt,
		RequestedEnd:   input.EndAt,
		Timezone:       timezone,
		Stage:          models.StageIntake,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.SessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create booking session: %w", err)
	}

	appt := &models.Appointment{
		ID:                 uuid.New().String(),
		BusinessID:         input.BusinessID,
		ServiceID:          input.ServiceID,
		Customer:           input.Customer,
		StartAt:            input.StartAt,
		EndAt:              input.EndAt,
		Status:             models.StatusHold,
		DepositRequired:    true,
		DepositAmountCents: depositCents,
		HoldExpiresAt:      holdExpiresAt,
		BookingSessionID:   session.ID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	err := s.AppointmentRepo.WithTransaction(ctx, func(txCtx context.Context) error {
		overlapping, err := s.AppointmentRepo.CountActiveOverlapping(txCtx, input.BusinessID, input.StartAt, input.EndAt, now)
		if err != nil {
			return err
		}
		if overlapping > 0 {
			return ErrSlotUnavailable
		}
		return s.AppointmentRepo.Create(txCtx, appt)
	})
	if err != nil {
		return nil, err
	}

	if err := s.SessionRepo.LinkAppointment(ctx, session.ID, appt.ID, holdExpiresAt, now); err != nil {
		return nil, fmt.Errorf("failed to link appointment into session: %w", err)
	}

	session.AppointmentID = appt.ID
	session.HoldExpiresAt = &holdExpiresAt
	session.Stage = models.StageHoldCreated

	s.cacheSession(ctx, session, time.Duration(holdMinutes)*time.Minute)

	if s.Scheduler != nil {
		if err := s.Scheduler.ScheduleExpiry(ctx, appt.ID, holdExpiresAt); err != nil {
			utils.GetLogger().Warn("failed to schedule hold expiry task",
				zap.String("appointmentId", appt.ID), zap.Error(err))
		}
	}

	return &CreateHoldResult{
		SessionID:     session.ID,
		AppointmentID: appt.ID,
		HoldExpiresAt: holdExpiresAt,
	}, nil
}

// AcceptStandards records the standards-acceptance gate and advances the
// stage to READY_TO_PAY. Re-acceptance is a no-op: the stamp is written at
// most once and the stage never moves backward.
func (s *DefaultHoldService) AcceptStandards(ctx context.Context, sessionID string) error {
	now := s.Clock.Now()

	moved, err := s.SessionRepo.AcceptStandards(ctx, sessionID, now)
	if err != nil {
		return fmt.Errorf("failed to accept standards: %w", err)
	}
	if !moved {
		// Either the session is gone or it already passed the gate.
		session, err := s.SessionRepo.GetByID(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("failed to verify session: %w", err)
		}
		if session == nil {
			return ErrSessionNotFound
		}
		return nil
	}

	s.invalidateSession(ctx, sessionID)
	return nil
}

// CheckAndExpire lazily evaluates the hold timer. It is invoked on page load
// and by the background worker; there is no server-enforced deadline beyond
// these checks. CONFIRMED and CANCELLED appointments are never transitioned.
func (s *DefaultHoldService) CheckAndExpire(ctx context.Context, appointmentID string) (CheckResult, error) {
	appt, err := s.AppointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		return "", fmt.Errorf("failed to load appointment: %w", err)
	}
	if appt == nil {
		return CheckNotFound, nil
	}

	switch appt.Status {
	case models.StatusExpired:
		return CheckExpired, nil
	case models.StatusHold:
		// fall through to the timer check
	default:
		return CheckActive, nil
	}

	now := s.Clock.Now()
	if !now.After(appt.HoldExpiresAt) {
		return CheckActive, nil
	}

	transitioned, err := s.AppointmentRepo.MarkExpired(ctx, appointmentID, now)
	if err != nil {
		return "", fmt.Errorf("failed to expire appointment: %w", err)
	}
	if !transitioned {
		// Lost a race: someone confirmed, cancelled or expired it between
		// our read and the conditional update. Re-read for the truth.
		appt, err = s.AppointmentRepo.GetByID(ctx, appointmentID)
		if err != nil {
			return "", fmt.Errorf("failed to re-load appointment: %w", err)
		}
		if appt == nil {
			return CheckNotFound, nil
		}
		if appt.Status == models.StatusExpired {
			return CheckExpired, nil
		}
		return CheckActive, nil
	}

	return CheckExpired, nil
}

// Abandon releases an active hold: the appointment moves to CANCELLED with a
// recorded reason and the session moves to EXPIRED. Used when a customer
// restarts the flow or when the countdown reaches zero. Both writes are
// attempted even if the first fails.
func (s *DefaultHoldService) Abandon(ctx context.Context, sessionID, appointmentID, reason string) error {
	if reason == "" {
		reason = models.CancelReasonUser
	}
	now := s.Clock.Now()

	var firstErr error
	if err := s.SessionRepo.MarkExpired(ctx, sessionID, now); err != nil {
		utils.GetLogger().Warn("failed to expire session during abandon",
			zap.String("sessionId", sessionID), zap.Error(err))
		firstErr = err
	}

	if appointmentID != "" {
		if _, err := s.AppointmentRepo.Cancel(ctx, appointmentID, reason, now); err != nil {
			utils.GetLogger().Warn("failed to cancel appointment during abandon",
				zap.String("appointmentId", appointmentID), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	s.invalidateSession(ctx, sessionID)

	if firstErr != nil {
		return fmt.Errorf("failed to abandon booking: %w", firstErr)
	}
	return nil
}

// GetSession returns a booking session, preferring the cached snapshot so
// customers polling the countdown do not hammer the database.
func (s *DefaultHoldService) GetSession(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	if s.Cache != nil {
		if data, err := s.Cache.Get(ctx, sessionCacheKey(sessionID)).Result(); err == nil {
			var session models.BookingSession
			if err := json.Unmarshal([]byte(data), &session); err == nil {
				return &session, nil
			}
		}
	}

	session, err := s.SessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// GetAppointment returns an appointment by ID.
func (s *DefaultHoldService) GetAppointment(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	appt, err := s.AppointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch appointment: %w", err)
	}
	if appt == nil {
		return nil, ErrAppointmentNotFound
	}
	return appt, nil
}

func (s *DefaultHoldService) cacheSession(ctx context.Context, session *models.BookingSession, ttl time.Duration) {
	if s.Cache == nil {
		return
	}
	data, err := json.Marshal(session)
	if err != nil {
		return
	}
	if err := s.Cache.Set(ctx, sessionCacheKey(session.ID), data, ttl).Err(); err != nil {
		utils.GetLogger().Warn("failed to cache booking session",
			zap.String("sessionId", session.ID), zap.Error(err))
	}
}

func (s *DefaultHoldService) invalidateSession(ctx context.Context, sessionID string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Del(ctx, sessionCacheKey(sessionID)).Err(); err != nil {
		utils.GetLogger().Warn("failed to drop cached booking session",
			zap.String("sessionId", sessionID), zap.Error(err))
	}
}
