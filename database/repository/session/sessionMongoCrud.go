package sessionRepo

import (
	"context"
	"fmt"
	"time"

	"apexbooking/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Create inserts a new booking session document.
func (r *MongoSessionRepo) Create(ctx context.Context, session *models.BookingSession) error {
	ctxWithTimeout, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	_, err := r.coll.InsertOne(ctxWithTimeout, session)
	if err != nil {
		return fmt.Errorf("failed to create booking session: %w", err)
	}
	return nil
}

// GetByID retrieves a booking session by its ID.
func (r *MongoSessionRepo) GetByID(ctx context.Context, id string) (*models.BookingSession, error) {
	ctxWithTimeout, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var session models.BookingSession
	if err := r.coll.FindOne(ctxWithTimeout, bson.M{"id": id}).Decode(&session); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch booking session %s: %w", id, err)
	}
	return &session, nil
}

// LinkAppointment back-links the appointment and advances the stage to HOLD_CREATED.
func (r *MongoSessionRepo) LinkAppointment(ctx context.Context, sessionID, appointmentID string, holdExpiresAt, now time.Time) error {
	ctxWithTimeout, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"appointmentId": appointmentID,
		"holdExpiresAt": holdExpiresAt,
		"stage":         models.StageHoldCreated,
		"updatedAt":     now,
	}}
	result, err := r.coll.UpdateOne(ctxWithTimeout, bson.M{"id": sessionID}, update)
	if err != nil {
		return fmt.Errorf("failed to link appointment into session %s: %w", sessionID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("booking session %s not found", sessionID)
	}
	return nil
}

// AcceptStandards stamps standardsAcceptedAt exactly once and moves the stage
// forward to READY_TO_PAY. The filter only matches pre-payment stages, so a
// repeated call (or a call against a CONFIRMED/EXPIRED session) matches
// nothing and mutates nothing.
func (r *MongoSessionRepo) AcceptStandards(ctx context.Context, sessionID string, now time.Time) (bool, error) {
	ctxWithTimeout, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id": sessionID,
		"stage": bson.M{"$in": []models.BookingStage{
			models.StageIntake,
			models.StageHoldCreated,
			models.StageStandardsShown,
		}},
	}
	update := bson.M{"$set": bson.M{
		"standardsAcceptedAt": now,
		"stage":               models.StageReadyToPay,
		"updatedAt":           now,
	}}
	result, err := r.coll.UpdateOne(ctxWithTimeout, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to accept standards for session %s: %w", sessionID, err)
	}
	return result.ModifiedCount > 0, nil
}

// MarkExpired sets the stage to EXPIRED unless the session already reached CONFIRMED.
func (r *MongoSessionRepo) MarkExpired(ctx context.Context, sessionID string, now time.Time) error {
	ctxWithTimeout, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":    sessionID,
		"stage": bson.M{"$ne": models.StageConfirmed},
	}
	update := bson.M{"$set": bson.M{
		"stage":     models.StageExpired,
		"updatedAt": now,
	}}
	if _, err := r.coll.UpdateOne(ctxWithTimeout, filter, update); err != nil {
		return fmt.Errorf("failed to expire session %s: %w", sessionID, err)
	}
	return nil
}
