package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
)

// ErrPoolStopped is returned by Submit once Stop has been called
var ErrPoolStopped = errors.New("worker pool stopped")

// ExecutorFunc runs a single job to completion
type ExecutorFunc func(ctx context.Context, job Job) error

// Pool runs each submitted job on its own goroutine. Submit never waits for
// the job; Stop refuses new jobs and waits for the ones in flight.
type Pool struct {
	executorFn ExecutorFunc
	wg         sync.WaitGroup
	mu         sync.RWMutex
	stopped    bool
	active     atomic.Int64
	onChange   func(active int)
}

// NewPool creates a new worker pool
func NewPool(fn ExecutorFunc) *Pool {
	return &Pool{executorFn: fn}
}

// OnActiveChange registers a callback invoked with the in-flight count
// whenever a worker starts or finishes. Must be set before the first Submit.
func (p *Pool) OnActiveChange(fn func(active int)) {
	p.onChange = fn
}

// Submit starts job in the background
func (p *Pool) Submit(job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		return ErrPoolStopped
	}

	p.wg.Add(1)
	p.track(1)

	go p.run(job)

	slog.Debug("Job submitted to worker pool",
		"hash", job.Key,
		"run", job.Run,
		"correlation_id", job.CorrelationID,
	)
	return nil
}

// Active returns the number of jobs in flight
func (p *Pool) Active() int {
	return int(p.active.Load())
}

// Stop refuses new jobs and waits for in-flight ones until ctx is done
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	p.stopped = true
	p.mu.Unlock()

	slog.Info("Stopping worker pool", "active", p.Active())

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		slog.Info("Worker pool stopped")
		return nil
	case <-ctx.Done():
		slog.Warn("Timeout waiting for workers to complete", "active", p.Active())
		return ctx.Err()
	}
}

func (p *Pool) run(job Job) {
	defer p.wg.Done()
	defer p.track(-1)

	// Workers have no cancellation path: once started a run always completes.
	if err := p.executorFn(context.Background(), job); err != nil {
		slog.Error("Worker finished with error",
			"hash", job.Key,
			"run", job.Run,
			"correlation_id", job.CorrelationID,
			"error", err,
		)
	}
}

func (p *Pool) track(delta int64) {
	active := p.active.Add(delta)
	if p.onChange != nil {
		p.onChange(int(active))
	}
}
