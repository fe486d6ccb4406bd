package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dandantas/cracksim/internal/metrics"
	"github.com/dandantas/cracksim/internal/model"
	"github.com/dandantas/cracksim/internal/worker"
)

// ErrMissingKey is returned when a submit or status call has no job key
var ErrMissingKey = errors.New("hash is required")

// Scheduler hands jobs to background workers without waiting for them
type Scheduler interface {
	Submit(job worker.Job) error
	Active() int
}

// JobService implements submit and status on top of the job store
type JobService struct {
	store     *model.JobStore
	scheduler Scheduler
	recorder  HistoryRecorder
	metrics   *metrics.Collectors
}

// NewJobService creates a new job service. recorder and m may be nil.
func NewJobService(store *model.JobStore, scheduler Scheduler, recorder HistoryRecorder, m *metrics.Collectors) *JobService {
	return &JobService{
		store:     store,
		scheduler: scheduler,
		recorder:  recorder,
		metrics:   m,
	}
}

// Submit marks key pending and schedules a worker when the store reports a
// new run. It never waits for the worker.
func (s *JobService) Submit(ctx context.Context, key, correlationID string) (model.SubmitOutcome, error) {
	if strings.TrimSpace(key) == "" {
		return 0, ErrMissingKey
	}

	outcome := s.store.SubmitIfAbsentOrCompleted(key)
	if s.metrics != nil {
		s.metrics.ObserveSubmit(outcome)
	}

	if outcome != model.OutcomeStarted {
		slog.Debug("Job already known, not scheduling",
			"hash", key,
			"outcome", outcome.String(),
			"correlation_id", correlationID,
		)
		return outcome, nil
	}

	job, _ := s.store.Get(key)
	run := worker.Job{
		Key:           key,
		CorrelationID: correlationID,
		Run:           job.Runs,
		SubmittedAt:   job.SubmittedAt,
	}

	if err := s.scheduler.Submit(run); err != nil {
		return outcome, fmt.Errorf("schedule worker for %q: %w", key, err)
	}

	slog.Info("Job scheduled",
		"hash", key,
		"run", run.Run,
		"correlation_id", correlationID,
	)

	if s.recorder != nil {
		event := &model.JobEvent{
			Key:           key,
			Event:         model.EventStarted,
			Run:           run.Run,
			CorrelationID: correlationID,
			OccurredAt:    run.SubmittedAt,
		}
		if err := s.recorder.Record(ctx, event); err != nil {
			slog.Warn("Failed to record job event",
				"hash", key,
				"event", event.Event,
				"error", err,
			)
		}
	}

	return outcome, nil
}

// Status returns the state of key
func (s *JobService) Status(key string) (model.JobState, error) {
	if strings.TrimSpace(key) == "" {
		return model.StateUnknown, ErrMissingKey
	}
	return s.store.GetState(key), nil
}

// Lookup returns the full job record for key
func (s *JobService) Lookup(key string) (model.Job, bool) {
	return s.store.Get(key)
}

// Stats summarizes the store and the worker pool
type Stats struct {
	Jobs            model.StateCounts `json:"jobs"`
	WorkersInFlight int               `json:"workers_in_flight"`
}

// Stats returns current job counts and in-flight workers
func (s *JobService) Stats() Stats {
	return Stats{
		Jobs:            s.store.Counts(),
		WorkersInFlight: s.scheduler.Active(),
	}
}
