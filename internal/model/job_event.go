package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Job event types written to the history sink
const (
	EventStarted = "started"
	EventCracked = "cracked"
)

// JobEvent is one lifecycle transition of a job, kept as an audit trail
type JobEvent struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Key           string             `json:"hash" bson:"key"`
	Event         string             `json:"event" bson:"event"`
	Run           int                `json:"run" bson:"run"`
	CorrelationID string             `json:"correlation_id" bson:"correlation_id"`
	DurationMs    int64              `json:"duration_ms,omitempty" bson:"duration_ms,omitempty"`
	OccurredAt    time.Time          `json:"occurred_at" bson:"occurred_at"`
}
