package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/dandantas/cracksim/internal/model"
)

func TestJobEventRepository_Record(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("assigns an id and inserts", func(mt *mtest.T) {
		repo := &JobEventRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		event := &model.JobEvent{
			Key:        "abc123",
			Event:      model.EventStarted,
			Run:        1,
			OccurredAt: time.Now().UTC(),
		}
		require.NoError(t, repo.Record(context.Background(), event))
		assert.False(t, event.ID.IsZero())
	})

	mt.Run("wraps write errors", func(mt *mtest.T) {
		repo := &JobEventRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		err := repo.Record(context.Background(), &model.JobEvent{Key: "abc123"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to record job event")
	})
}

func TestJobEventRepository_List(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns events and total", func(mt *mtest.T) {
		repo := &JobEventRepository{collection: mt.Coll}
		ns := mt.DB.Name() + "." + mt.Coll.Name()
		now := time.Now().UTC().Truncate(time.Millisecond)

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: int32(2)}}),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
				bson.D{
					{Key: "_id", Value: primitive.NewObjectID()},
					{Key: "key", Value: "abc123"},
					{Key: "event", Value: model.EventCracked},
					{Key: "run", Value: int32(1)},
					{Key: "occurred_at", Value: now},
				},
				bson.D{
					{Key: "_id", Value: primitive.NewObjectID()},
					{Key: "key", Value: "abc123"},
					{Key: "event", Value: model.EventStarted},
					{Key: "run", Value: int32(1)},
					{Key: "occurred_at", Value: now.Add(-30 * time.Second)},
				},
			),
		)

		events, total, err := repo.List(context.Background(), "abc123", 1, 20)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, events, 2)
		assert.Equal(t, model.EventCracked, events[0].Event)
		assert.Equal(t, "abc123", events[1].Key)
	})
}

func TestJobEventIndexes(t *testing.T) {
	indexes := JobEventIndexes()
	require.Len(t, indexes, 3)

	names := make([]string, 0, len(indexes))
	for _, idx := range indexes {
		names = append(names, *idx.Options.Name)
	}
	assert.ElementsMatch(t, []string{"idx_key_occurred_at", "idx_occurred_at", "idx_correlation_id"}, names)
}
