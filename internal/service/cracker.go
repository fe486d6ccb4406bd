package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dandantas/cracksim/internal/metrics"
	"github.com/dandantas/cracksim/internal/model"
	"github.com/dandantas/cracksim/internal/webhook"
	"github.com/dandantas/cracksim/internal/worker"
)

// HistoryRecorder appends job lifecycle events to an audit trail
type HistoryRecorder interface {
	Record(ctx context.Context, event *model.JobEvent) error
}

// Notifier announces completed jobs to an external endpoint
type Notifier interface {
	NotifyCompleted(ctx context.Context, payload webhook.CompletionPayload) error
}

// AfterFunc returns a channel that fires once d has elapsed
type AfterFunc func(d time.Duration) <-chan time.Time

// Cracker simulates cracking a hash: it waits a fixed duration, then marks
// the job cracked in the store.
type Cracker struct {
	store    *model.JobStore
	duration time.Duration
	after    AfterFunc

	recorder HistoryRecorder
	notifier Notifier
	metrics  *metrics.Collectors
}

// CrackerOption configures optional Cracker side effects
type CrackerOption func(*Cracker)

// WithAfter replaces the timer source used for the simulated delay
func WithAfter(fn AfterFunc) CrackerOption {
	return func(c *Cracker) { c.after = fn }
}

// WithHistory records a "cracked" event for every completion
func WithHistory(r HistoryRecorder) CrackerOption {
	return func(c *Cracker) { c.recorder = r }
}

// WithNotifier sends a webhook for every completion
func WithNotifier(n Notifier) CrackerOption {
	return func(c *Cracker) { c.notifier = n }
}

// WithCrackerMetrics counts completions
func WithCrackerMetrics(m *metrics.Collectors) CrackerOption {
	return func(c *Cracker) { c.metrics = m }
}

// NewCracker creates a new cracker
func NewCracker(store *model.JobStore, duration time.Duration, opts ...CrackerOption) *Cracker {
	c := &Cracker{
		store:    store,
		duration: duration,
		after:    time.After,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Duration returns the simulated crack time
func (c *Cracker) Duration() time.Duration {
	return c.duration
}

// Crack runs one job. It is the worker pool's executor.
func (c *Cracker) Crack(ctx context.Context, job worker.Job) error {
	slog.Info("Cracking started",
		"hash", job.Key,
		"run", job.Run,
		"correlation_id", job.CorrelationID,
		"duration_ms", c.duration.Milliseconds(),
	)

	start := time.Now()
	<-c.after(c.duration)

	if err := c.store.MarkCompleted(job.Key); err != nil {
		slog.Error("Job store inconsistency on completion",
			"hash", job.Key,
			"run", job.Run,
			"correlation_id", job.CorrelationID,
			"error", err,
		)
		return fmt.Errorf("complete job: %w", err)
	}

	elapsed := time.Since(start)
	completedAt := time.Now().UTC()

	slog.Info("Cracking completed",
		"hash", job.Key,
		"run", job.Run,
		"correlation_id", job.CorrelationID,
		"duration_ms", elapsed.Milliseconds(),
	)

	if c.metrics != nil {
		c.metrics.JobsCompleted.Inc()
	}

	if c.recorder != nil {
		event := &model.JobEvent{
			Key:           job.Key,
			Event:         model.EventCracked,
			Run:           job.Run,
			CorrelationID: job.CorrelationID,
			DurationMs:    elapsed.Milliseconds(),
			OccurredAt:    completedAt,
		}
		if err := c.recorder.Record(ctx, event); err != nil {
			slog.Warn("Failed to record job event",
				"hash", job.Key,
				"event", event.Event,
				"error", err,
			)
		}
	}

	if c.notifier != nil {
		payload := webhook.CompletionPayload{
			Hash:          job.Key,
			Status:        model.StateCompleted.String(),
			Run:           job.Run,
			CorrelationID: job.CorrelationID,
			CompletedAt:   completedAt,
		}
		if err := c.notifier.NotifyCompleted(ctx, payload); err != nil {
			slog.Warn("Failed to notify completion",
				"hash", job.Key,
				"correlation_id", job.CorrelationID,
				"error", err,
			)
		}
	}

	return nil
}
