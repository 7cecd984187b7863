package hold

import (
	"context"
	"testing"
	"time"

	"apexbooking/models"
	"apexbooking/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessionRepo struct {
	sessions map[string]*models.BookingSession
	writes   int
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*models.BookingSession)}
}

func (r *fakeSessionRepo) Create(_ context.Context, session *models.BookingSession) error {
	copied := *session
	r.sessions[session.ID] = &copied
	r.writes++
	return nil
}

func (r *fakeSessionRepo) GetByID(_ context.Context, id string) (*models.BookingSession, error) {
	session, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	copied := *session
	return &copied, nil
}

func (r *fakeSessionRepo) LinkAppointment(_ context.Context, sessionID, appointmentID string, holdExpiresAt, now time.Time) error {
	session, ok := r.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	session.AppointmentID = appointmentID
	session.HoldExpiresAt = &holdExpiresAt
	session.Stage = models.StageHoldCreated
	session.UpdatedAt = now
	r.writes++
	return nil
}

func (r *fakeSessionRepo) AcceptStandards(_ context.Context, sessionID string, now time.Time) (bool, error) {
	session, ok := r.sessions[sessionID]
	if !ok {
		return false, nil
	}
	switch session.Stage {
	case models.StageIntake, models.StageHoldCreated, models.StageStandardsShown:
		session.StandardsAcceptedAt = &now
		session.Stage = models.StageReadyToPay
		session.UpdatedAt = now
		r.writes++
		return true, nil
	}
	return false, nil
}

func (r *fakeSessionRepo) MarkExpired(_ context.Context, sessionID string, now time.Time) error {
	session, ok := r.sessions[sessionID]
	if !ok {
		return nil
	}
	if session.Stage != models.StageConfirmed {
		session.Stage = models.StageExpired
		session.UpdatedAt = now
		r.writes++
	}
	return nil
}

type fakeAppointmentRepo struct {
	appts  map[string]*models.Appointment
	writes int
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appts: make(map[string]*models.Appointment)}
}

func (r *fakeAppointmentRepo) Create(_ context.Context, appt *models.Appointment) error {
	copied := *appt
	r.appts[appt.ID] = &copied
	r.writes++
	return nil
}

func (r *fakeAppointmentRepo) GetByID(_ context.Context, id string) (*models.Appointment, error) {
	appt, ok := r.appts[id]
	if !ok {
		return nil, nil
	}
	copied := *appt
	return &copied, nil
}

func (r *fakeAppointmentRepo) CountActiveOverlapping(_ context.Context, businessID string, startAt, endAt, now time.Time) (int64, error) {
	var count int64
	for _, appt := range r.appts {
		if appt.BusinessID != businessID {
			continue
		}
		if !appt.StartAt.Before(endAt) || !appt.EndAt.After(startAt) {
			continue
		}
		switch appt.Status {
		case models.StatusConfirmed:
			count++
		case models.StatusHold:
			if appt.HoldExpiresAt.After(now) {
				count++
			}
		}
	}
	return count, nil
}

func (r *fakeAppointmentRepo) MarkExpired(_ context.Context, id string, now time.Time) (bool, error) {
	appt, ok := r.appts[id]
	if !ok || appt.Status != models.StatusHold {
		return false, nil
	}
	appt.Status = models.StatusExpired
	appt.UpdatedAt = now
	r.writes++
	return true, nil
}

func (r *fakeAppointmentRepo) Cancel(_ context.Context, id, reason string, now time.Time) (bool, error) {
	appt, ok := r.appts[id]
	if !ok || appt.Status != models.StatusHold {
		return false, nil
	}
	appt.Status = models.StatusCancelled
	appt.CancelledReason = reason
	appt.CancelledAt = &now
	appt.UpdatedAt = now
	r.writes++
	return true, nil
}

func (r *fakeAppointmentRepo) ListByBusiness(_ context.Context, businessID string, limit int64) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, appt := range r.appts {
		if appt.BusinessID == businessID {
			out = append(out, *appt)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeScheduler struct {
	scheduled map[string]time.Time
}

func (s *fakeScheduler) ScheduleExpiry(_ context.Context, appointmentID string, at time.Time) error {
	if s.scheduled == nil {
		s.scheduled = make(map[string]time.Time)
	}
	s.scheduled[appointmentID] = at
	return nil
}

var testNow = time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

func newTestService(now time.Time) (*DefaultHoldService, *fakeSessionRepo, *fakeAppointmentRepo, *fakeScheduler) {
	sessions := newFakeSessionRepo()
	appts := newFakeAppointmentRepo()
	scheduler := &fakeScheduler{}
	svc := &DefaultHoldService{
		SessionRepo:         sessions,
		AppointmentRepo:     appts,
		Clock:               utils.NewFixedClock(now),
		Scheduler:           scheduler,
		DefaultHoldMinutes:  15,
		DefaultDepositCents: 2000,
		DefaultTimezone:     "America/Denver",
	}
	return svc, sessions, appts, scheduler
}

func TestCreateHold(t *testing.T) {
	ctx := context.Background()
	startAt := testNow.Add(48 * time.Hour)
	endAt := startAt.Add(time.Hour)

	t.Run("creates session and appointment with server-derived expiry", func(t *testing.T) {
		svc, sessions, appts, scheduler := newTestService(testNow)

		result, err := svc.CreateHold(ctx, CreateHoldInput{
			BusinessID:  "b1",
			ServiceID:   "svc-1",
			StartAt:     startAt,
			EndAt:       endAt,
			HoldMinutes: 15,
		})
		require.NoError(t, err)
		require.NotEmpty(t, result.SessionID)
		require.NotEmpty(t, result.AppointmentID)
		assert.Equal(t, testNow.Add(15*time.Minute), result.HoldExpiresAt)

		appt, err := appts.GetByID(ctx, result.AppointmentID)
		require.NoError(t, err)
		require.NotNil(t, appt)
		assert.Equal(t, models.StatusHold, appt.Status)
		assert.Equal(t, testNow.Add(15*time.Minute), appt.HoldExpiresAt)
		assert.True(t, appt.DepositRequired)
		assert.Equal(t, int64(2000), appt.DepositAmountCents)
		assert.Equal(t, result.SessionID, appt.BookingSessionID)

		session, err := sessions.GetByID(ctx, result.SessionID)
		require.NoError(t, err)
		require.NotNil(t, session)
		assert.Equal(t, models.StageHoldCreated, session.Stage)
		assert.Equal(t, result.AppointmentID, session.AppointmentID)
		assert.Equal(t, "America/Denver", session.Timezone)

		assert.Equal(t, result.HoldExpiresAt, scheduler.scheduled[result.AppointmentID])
	})

	t.Run("applies configured defaults when caller omits values", func(t *testing.T) {
		svc, _, appts, _ := newTestService(testNow)

		result, err := svc.CreateHold(ctx, CreateHoldInput{
			BusinessID: "b1",
			StartAt:    startAt,
			EndAt:      endAt,
		})
		require.NoError(t, err)
		assert.Equal(t, testNow.Add(15*time.Minute), result.HoldExpiresAt)

		appt, _ := appts.GetByID(ctx, result.AppointmentID)
		assert.Equal(t, int64(2000), appt.DepositAmountCents)
	})

	t.Run("rejects inverted time range", func(t *testing.T) {
		svc, _, _, _ := newTestService(testNow)

		_, err := svc.CreateHold(ctx, CreateHoldInput{
			BusinessID: "b1",
			StartAt:    endAt,
			EndAt:      startAt,
		})
		assert.ErrorIs(t, err, ErrInvalidTimeRange)
	})

	t.Run("rejects negative hold window", func(t *testing.T) {
		svc, _, _, _ := newTestService(testNow)

		_, err := svc.CreateHold(ctx, CreateHoldInput{
			BusinessID:  "b1",
			StartAt:     startAt,
			EndAt:       endAt,
			HoldMinutes: -5,
		})
		assert.ErrorIs(t, err, ErrInvalidHoldWindow)
	})

	t.Run("rejects a second hold on an overlapping window", func(t *testing.T) {
		svc, _, _, _ := newTestService(testNow)

		_, err := svc.CreateHold(ctx, CreateHoldInput{
			BusinessID: "b1",
			StartAt:    startAt,
			EndAt:      endAt,
		})
		require.NoError(t, err)

		_, err = svc.CreateHold(ctx, CreateHoldInput{
			BusinessID: "b1",
			StartAt:    startAt.Add(30 * time.Minute),
			EndAt:      endAt.Add(30 * time.Minute),
		})
		assert.ErrorIs(t, err, ErrSlotUnavailable)
	})

	t.Run("allows the window once the previous hold has lapsed", func(t *testing.T) {
		svc, _, _, _ := newTestService(testNow)

		_, err := svc.CreateHold(ctx, CreateHoldInput{
			BusinessID:  "b1",
			StartAt:     startAt,
			EndAt:       endAt,
			HoldMinutes: 10,
		})
		require.NoError(t, err)

		// 11 minutes later the first hold has expired; the slot frees up
		// even before any lazy expiry check runs.
		svc.Clock = utils.NewFixedClock(testNow.Add(11 * time.Minute))

		_, err = svc.CreateHold(ctx, CreateHoldInput{
			BusinessID: "b1",
			StartAt:    startAt,
			EndAt:      endAt,
		})
		assert.NoError(t, err)
	})

	t.Run("different businesses never conflict", func(t *testing.T) {
		svc, _, _, _ := newTestService(testNow)

		_, err := svc.CreateHold(ctx, CreateHoldInput{
			BusinessID: "b1",
			StartAt:    startAt,
			EndAt:      endAt,
		})
		require.NoError(t, err)

		_, err = svc.CreateHold(ctx, CreateHoldInput{
			BusinessID: "b2",
			StartAt:    startAt,
			EndAt:      endAt,
		})
		assert.NoError(t, err)
	})
}

func TestCheckAndExpire(t *testing.T) {
	ctx := context.Background()
	startAt := testNow.Add(48 * time.Hour)
	endAt := startAt.Add(time.Hour)

	createHold := func(t *testing.T, svc *DefaultHoldService, holdMinutes int) *CreateHoldResult {
		t.Helper()
		result, err := svc.CreateHold(ctx, CreateHoldInput{
			BusinessID:  "b1",
			StartAt:     startAt,
			EndAt:       endAt,
			HoldMinutes: holdMinutes,
		})
		require.NoError(t, err)
		return result
	}

	t.Run("returns NOT_FOUND for unknown appointment", func(t *testing.T) {
		svc, _, _, _ := newTestService(testNow)

		result, err := svc.CheckAndExpire(ctx, "missing")
		require.NoError(t, err)
		assert.Equal(t, CheckNotFound, result)
	})

	t.Run("active hold before expiry stays untouched", func(t *testing.T) {
		svc, _, appts, _ := newTestService(testNow)
		created := createHold(t, svc, 10)
		writesBefore := appts.writes

		svc.Clock = utils.NewFixedClock(testNow.Add(5 * time.Minute))
		result, err := svc.CheckAndExpire(ctx, created.AppointmentID)
		require.NoError(t, err)
		assert.Equal(t, CheckActive, result)

		appt, _ := appts.GetByID(ctx, created.AppointmentID)
		assert.Equal(t, models.StatusHold, appt.Status)
		assert.Equal(t, writesBefore, appts.writes)
	})

	t.Run("lapsed hold transitions to EXPIRED", func(t *testing.T) {
		svc, _, appts, _ := newTestService(testNow)
		created := createHold(t, svc, 10)

		svc.Clock = utils.NewFixedClock(testNow.Add(11 * time.Minute))
		result, err := svc.CheckAndExpire(ctx, created.AppointmentID)
		require.NoError(t, err)
		assert.Equal(t, CheckExpired, result)

		appt, _ := appts.GetByID(ctx, created.AppointmentID)
		assert.Equal(t, models.StatusExpired, appt.Status)
	})

	t.Run("second check is idempotent", func(t *testing.T) {
		svc, _, appts, _ := newTestService(testNow)
		created := createHold(t, svc, 10)

		svc.Clock = utils.NewFixedClock(testNow.Add(11 * time.Minute))
		result, err := svc.CheckAndExpire(ctx, created.AppointmentID)
		require.NoError(t, err)
		require.Equal(t, CheckExpired, result)
		writesAfterFirst := appts.writes

		result, err = svc.CheckAndExpire(ctx, created.AppointmentID)
		require.NoError(t, err)
		assert.Equal(t, CheckExpired, result)
		assert.Equal(t, writesAfterFirst, appts.writes)
	})

	t.Run("never transitions CONFIRMED or CANCELLED", func(t *testing.T) {
		for _, status := range []models.AppointmentStatus{models.StatusConfirmed, models.StatusCancelled} {
			svc, _, appts, _ := newTestService(testNow)
			created := createHold(t, svc, 10)
			appts.appts[created.AppointmentID].Status = status
			writesBefore := appts.writes

			svc.Clock = utils.NewFixedClock(testNow.Add(time.Hour))
			result, err := svc.CheckAndExpire(ctx, created.AppointmentID)
			require.NoError(t, err)
			assert.Equal(t, CheckActive, result)

			appt, _ := appts.GetByID(ctx, created.AppointmentID)
			assert.Equal(t, status, appt.Status)
			assert.Equal(t, writesBefore, appts.writes)
		}
	})
}

func TestAcceptStandards(t *testing.T) {
	ctx := context.Background()
	startAt := testNow.Add(48 * time.Hour)
	endAt := startAt.Add(time.Hour)

	t.Run("advances stage and stamps acceptance once", func(t *testing.T) {
		svc, sessions, _, _ := newTestService(testNow)
		created, err := svc.CreateHold(ctx, CreateHoldInput{
			BusinessID: "b1",
			StartAt:    startAt,
			EndAt:      endAt,
		})
		require.NoError(t, err)

		require.NoError(t, svc.AcceptStandards(ctx, created.SessionID))

		session, _ := sessions.GetByID(ctx, created.SessionID)
		assert.Equal(t, models.StageReadyToPay, session.Stage)
		require.NotNil(t, session.StandardsAcceptedAt)
		firstStamp := *session.StandardsAcceptedAt

		// Re-acceptance later must not move the stamp or the stage.
		svc.Clock = utils.NewFixedClock(testNow.Add(3 * time.Minute))
		require.NoError(t, svc.AcceptStandards(ctx, created.SessionID))

		session, _ = sessions.GetByID(ctx, created.SessionID)
		assert.Equal(t, models.StageReadyToPay, session.Stage)
		assert.Equal(t, firstStamp, *session.StandardsAcceptedAt)
	})

	t.Run("unknown session returns not found", func(t *testing.T) {
		svc, _, _, _ := newTestService(testNow)
		err := svc.AcceptStandards(ctx, "missing")
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})
}

func TestAbandon(t *testing.T) {
	ctx := context.Background()
	startAt := testNow.Add(48 * time.Hour)
	endAt := startAt.Add(time.Hour)

	t.Run("cancels hold and expires session with default reason", func(t *testing.T) {
		svc, sessions, appts, _ := newTestService(testNow)
		created, err := svc.CreateHold(ctx, CreateHoldInput{
			BusinessID: "b1",
			StartAt:    startAt,
			EndAt:      endAt,
		})
		require.NoError(t, err)

		require.NoError(t, svc.Abandon(ctx, created.SessionID, created.AppointmentID, ""))

		appt, _ := appts.GetByID(ctx, created.AppointmentID)
		assert.Equal(t, models.StatusCancelled, appt.Status)
		assert.Equal(t, models.CancelReasonUser, appt.CancelledReason)
		require.NotNil(t, appt.CancelledAt)

		session, _ := sessions.GetByID(ctx, created.SessionID)
		assert.Equal(t, models.StageExpired, session.Stage)
	})

	t.Run("records the hold-expired reason", func(t *testing.T) {
		svc, _, appts, _ := newTestService(testNow)
		created, err := svc.CreateHold(ctx, CreateHoldInput{
			BusinessID: "b1",
			StartAt:    startAt,
			EndAt:      endAt,
		})
		require.NoError(t, err)

		require.NoError(t, svc.Abandon(ctx, created.SessionID, created.AppointmentID, models.CancelReasonHoldExpired))

		appt, _ := appts.GetByID(ctx, created.AppointmentID)
		assert.Equal(t, models.CancelReasonHoldExpired, appt.CancelledReason)
	})

	t.Run("leaves CONFIRMED appointments alone", func(t *testing.T) {
		svc, _, appts, _ := newTestService(testNow)
		created, err := svc.CreateHold(ctx, CreateHoldInput{
			BusinessID: "b1",
			StartAt:    startAt,
			EndAt:      endAt,
		})
		require.NoError(t, err)
		appts.appts[created.AppointmentID].Status = models.StatusConfirmed

		require.NoError(t, svc.Abandon(ctx, created.SessionID, created.AppointmentID, ""))

		appt, _ := appts.GetByID(ctx, created.AppointmentID)
		assert.Equal(t, models.StatusConfirmed, appt.Status)
	})
}
