package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dandantas/cracksim/internal/model"
)

// JobEventRepository appends and pages through job lifecycle events
type JobEventRepository struct {
	collection *mongo.Collection
}

// NewJobEventRepository creates a new job event repository
func NewJobEventRepository(db *MongoDB) *JobEventRepository {
	return &JobEventRepository{
		collection: db.GetCollection(CollectionJobEvents),
	}
}

// Record inserts a new job event
func (r *JobEventRepository) Record(ctx context.Context, event *model.JobEvent) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}

	if _, err := r.collection.InsertOne(ctxTimeout, event); err != nil {
		return fmt.Errorf("failed to record job event: %w", err)
	}

	return nil
}

// List returns events newest first, optionally restricted to one key
func (r *JobEventRepository) List(ctx context.Context, key string, page, limit int) ([]model.JobEvent, int64, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if key != "" {
		filter["key"] = key
	}

	total, err := r.collection.CountDocuments(ctxTimeout, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count job events: %w", err)
	}

	skip := (page - 1) * limit
	opts := options.Find().
		SetSkip(int64(skip)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "occurred_at", Value: -1}})

	cursor, err := r.collection.Find(ctxTimeout, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list job events: %w", err)
	}
	defer cursor.Close(ctxTimeout)

	events := make([]model.JobEvent, 0, limit)
	if err := cursor.All(ctxTimeout, &events); err != nil {
		return nil, 0, fmt.Errorf("failed to decode job events: %w", err)
	}

	return events, total, nil
}
