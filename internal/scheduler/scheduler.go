package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dandantas/cracksim/internal/metrics"
	"github.com/dandantas/cracksim/internal/model"
)

// StatsSource exposes the numbers the reporter publishes
type StatsSource interface {
	Counts() model.StateCounts
}

// ActiveSource reports how many workers are running
type ActiveSource interface {
	Active() int
}

// Scheduler periodically logs job counts and refreshes the job gauges
type Scheduler struct {
	schedule string
	store    StatsSource
	pool     ActiveSource
	metrics  *metrics.Collectors
	cron     *cron.Cron
	entryID  cron.EntryID
}

// NewScheduler creates a new stats scheduler. m may be nil.
func NewScheduler(schedule string, store StatsSource, pool ActiveSource, m *metrics.Collectors) *Scheduler {
	return &Scheduler{
		schedule: schedule,
		store:    store,
		pool:     pool,
		metrics:  m,
		cron:     cron.New(),
	}
}

// Start registers the report job and starts the cron loop
func (s *Scheduler) Start() error {
	id, err := s.cron.AddFunc(s.schedule, s.report)
	if err != nil {
		return fmt.Errorf("invalid stats schedule %q: %w", s.schedule, err)
	}
	s.entryID = id

	slog.Info("Starting stats scheduler", "schedule", s.schedule)

	// Publish once so the gauges are populated before the first tick
	s.report()
	s.cron.Start()
	return nil
}

// Stop halts the cron loop and waits for a running report until ctx is done
func (s *Scheduler) Stop(ctx context.Context) {
	slog.Info("Stopping stats scheduler")

	done := s.cron.Stop().Done()
	select {
	case <-done:
		slog.Info("Stats scheduler stopped")
	case <-ctx.Done():
		slog.Warn("Timeout waiting for stats report to complete")
	}
}

// Next returns the next scheduled report time, zero before Start
func (s *Scheduler) Next() time.Time {
	if s.entryID == 0 {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Next
}

func (s *Scheduler) report() {
	counts := s.store.Counts()
	active := s.pool.Active()

	slog.Info("Job stats",
		"pending", counts.Pending,
		"cracked", counts.Completed,
		"workers_in_flight", active,
	)

	if s.metrics != nil {
		s.metrics.SetJobCounts(counts)
		s.metrics.WorkersInFlight.Set(float64(active))
	}
}
