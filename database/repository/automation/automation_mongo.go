package automationRepo

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

// MongoAutomationRepo implements AutomationRepository using MongoDB.
type MongoAutomationRepo struct {
	coll *mongo.Collection
}

// NewMongoAutomationRepo creates a new instance of AutomationRepository using MongoDB.
func NewMongoAutomationRepo() AutomationRepository {
	coll := database.MongoClient.Database(config.AppConfig.DatabaseName).Collection("automations")
	repo := &MongoAutomationRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, timeout)
}

func (r *MongoAutomationRepo) ensureIndexes() error {
	ctx, cancel := newContext(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "businessId", Value: 1}, {Key: "createdAt", Value: -1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
