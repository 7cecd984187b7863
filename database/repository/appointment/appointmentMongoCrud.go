package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"apexbooking/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create inserts a new appointment document.
func (r *MongoAppointmentRepo) Create(ctx context.Context, appt *models.Appointment) error {
	ctxWithTimeout, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	_, err := r.coll.InsertOne(ctxWithTimeout, appt)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

// GetByID retrieves an appointment by its ID.
func (r *MongoAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	ctxWithTimeout, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var appt models.Appointment
	if err := r.coll.FindOne(ctxWithTimeout, bson.M{"id": id}).Decode(&appt); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch appointment %s: %w", id, err)
	}
	return &appt, nil
}

// CountActiveOverlapping counts appointments blocking the [startAt, endAt)
// window: CONFIRMED ones and HOLD ones that have not expired yet. Expired
// holds stop blocking the slot even before a lazy expiry check flips them.
func (r *MongoAppointmentRepo) CountActiveOverlapping(ctx context.Context, businessID string, startAt, endAt, now time.Time) (int64, error) {
	ctxWithTimeout, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"businessId": businessID,
		"startAt":    bson.M{"$lt": endAt},
		"endAt":      bson.M{"$gt": startAt},
		"$or": []bson.M{
			{"status": models.StatusConfirmed},
			{"status": models.StatusHold, "holdExpiresAt": bson.M{"$gt": now}},
		},
	}
	count, err := r.coll.CountDocuments(ctxWithTimeout, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count overlapping appointments: %w", err)
	}
	return count, nil
}

// MarkExpired transitions HOLD -> EXPIRED. The status filter makes the call
// idempotent and guarantees CONFIRMED/CANCELLED appointments are never touched.
func (r *MongoAppointmentRepo) MarkExpired(ctx context.Context, id string, now time.Time) (bool, error) {
	ctxWithTimeout, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "status": models.StatusHold}
	update := bson.M{"$set": bson.M{
		"status":    models.StatusExpired,
		"updatedAt": now,
	}}
	result, err := r.coll.UpdateOne(ctxWithTimeout, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to expire appointment %s: %w", id, err)
	}
	return result.ModifiedCount > 0, nil
}

// Cancel transitions HOLD -> CANCELLED and records why.
func (r *MongoAppointmentRepo) Cancel(ctx context.Context, id, reason string, now time.Time) (bool, error) {
	ctxWithTimeout, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "status": models.StatusHold}
	update := bson.M{"$set": bson.M{
		"status":          models.StatusCancelled,
		"cancelledReason": reason,
		"cancelledAt":     now,
		"updatedAt":       now,
	}}
	result, err := r.coll.UpdateOne(ctxWithTimeout, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to cancel appointment %s: %w", id, err)
	}
	return result.ModifiedCount > 0, nil
}

// ListByBusiness returns the most recently created appointments for a business.
func (r *MongoAppointmentRepo) ListByBusiness(ctx context.Context, businessID string, limit int64) ([]models.Appointment, error) {
	ctxWithTimeout, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.coll.Find(ctxWithTimeout, bson.M{"businessId": businessID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer cursor.Close(ctxWithTimeout)

	var appts []models.Appointment
	for cursor.Next(ctxWithTimeout) {
		var a models.Appointment
		if err := cursor.Decode(&a); err != nil {
			return nil, fmt.Errorf("failed to decode appointment: %w", err)
		}
		appts = append(appts, a)
	}
	return appts, nil
}
