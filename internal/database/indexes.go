package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// JobEventIndexes lists the indexes of the job_events collection
func JobEventIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "key", Value: 1},
				{Key: "occurred_at", Value: -1},
			},
			Options: options.Index().SetName("idx_key_occurred_at"),
		},
		{
			Keys:    bson.D{{Key: "occurred_at", Value: -1}},
			Options: options.Index().SetName("idx_occurred_at"),
		},
		{
			Keys:    bson.D{{Key: "correlation_id", Value: 1}},
			Options: options.Index().SetName("idx_correlation_id"),
		},
	}
}

// CreateIndexes creates all necessary indexes for the collections
func CreateIndexes(ctx context.Context, db *MongoDB) error {
	slog.Info("Creating MongoDB indexes")

	ctxTimeout, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	collection := db.GetCollection(CollectionJobEvents)
	if _, err := collection.Indexes().CreateMany(ctxTimeout, JobEventIndexes()); err != nil {
		return fmt.Errorf("failed to create %s indexes: %w", CollectionJobEvents, err)
	}

	slog.Info("Created job_events indexes")
	return nil
}
