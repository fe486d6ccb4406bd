package model

import (
	"errors"
	"time"
)

// ErrNotPending is returned when completion is reported for a job that is not pending
var ErrNotPending = errors.New("job is not pending")

// JobState is the lifecycle state of a job key
type JobState int

const (
	StateUnknown JobState = iota
	StatePending
	StateCompleted
)

// String returns the wire label of the state
func (s JobState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateCompleted:
		return "cracked"
	default:
		return "unknown"
	}
}

// SubmitOutcome reports what a submit did to the store
type SubmitOutcome int

const (
	OutcomeStarted SubmitOutcome = iota
	OutcomeAlreadyPending
	OutcomeAlreadyCompleted
)

func (o SubmitOutcome) String() string {
	switch o {
	case OutcomeStarted:
		return "started"
	case OutcomeAlreadyPending:
		return "already_pending"
	case OutcomeAlreadyCompleted:
		return "already_completed"
	default:
		return "unknown"
	}
}

// Job is a snapshot of one job record
type Job struct {
	Key         string     `json:"hash"`
	State       JobState   `json:"-"`
	Status      string     `json:"status"`
	Runs        int        `json:"runs"`
	SubmittedAt time.Time  `json:"submitted_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// StateCounts holds the number of keys per state
type StateCounts struct {
	Pending   int `json:"pending"`
	Completed int `json:"cracked"`
}
