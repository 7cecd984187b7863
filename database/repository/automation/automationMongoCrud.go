package automationRepo

import (
	"context"
	"fmt"
	"time"

	"apexbooking/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create inserts a new automation document.
func (r *MongoAutomationRepo) Create(ctx context.Context, automation *models.Automation) error {
	ctxWithTimeout, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	_, err := r.coll.InsertOne(ctxWithTimeout, automation)
	if err != nil {
		return fmt.Errorf("failed to create automation: %w", err)
	}
	return nil
}

// GetByID retrieves an automation by its ID.
func (r *MongoAutomationRepo) GetByID(ctx context.Context, id string) (*models.Automation, error) {
	ctxWithTimeout, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var automation models.Automation
	if err := r.coll.FindOne(ctxWithTimeout, bson.M{"id": id}).Decode(&automation); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch automation %s: %w", id, err)
	}
	return &automation, nil
}

// ListByBusiness returns a business's automations, newest first.
func (r *MongoAutomationRepo) ListByBusiness(ctx context.Context, businessID string) ([]models.Automation, error) {
	ctxWithTimeout, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctxWithTimeout, bson.M{"businessId": businessID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list automations: %w", err)
	}
	defer cursor.Close(ctxWithTimeout)

	var automations []models.Automation
	for cursor.Next(ctxWithTimeout) {
		var a models.Automation
		if err := cursor.Decode(&a); err != nil {
			return nil, fmt.Errorf("failed to decode automation: %w", err)
		}
		automations = append(automations, a)
	}
	return automations, nil
}

// Update modifies an existing automation document.
func (r *MongoAutomationRepo) Update(ctx context.Context, automation *models.Automation) error {
	ctxWithTimeout, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": automation.ID}
	update := bson.M{"$set": automation}

	result, err := r.coll.UpdateOne(ctxWithTimeout, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update automation %s: %w", automation.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("automation %s not found", automation.ID)
	}
	return nil
}

// Delete removes an automation document by its ID.
func (r *MongoAutomationRepo) Delete(ctx context.Context, id string) error {
	ctxWithTimeout, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctxWithTimeout, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete automation %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("automation %s not found", id)
	}
	return nil
}
