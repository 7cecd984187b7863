package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"apexbooking/config"
	"apexbooking/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoAppointmentRepo implements AppointmentRepository using MongoDB.
type MongoAppointmentRepo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoAppointmentRepo creates a new instance of AppointmentRepository using MongoDB.
func NewMongoAppointmentRepo() AppointmentRepository {
	client := database.MongoClient
	coll := client.Database(config.AppConfig.DatabaseName).Collection("appointments")
	repo := &MongoAppointmentRepo{client: client, coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, timeout)
}

// ensureIndexes creates indexes for fields frequently used in queries.
func (r *MongoAppointmentRepo) ensureIndexes() error {
	ctx, cancel := newContext(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		// Overlap scans during hold creation.
		{Keys: bson.D{{Key: "businessId", Value: 1}, {Key: "startAt", Value: 1}}},
		// Expiry sweeps over live holds.
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "holdExpiresAt", Value: 1}}},
		{Keys: bson.D{{Key: "bookingSessionId", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
