package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dandantas/cracksim/internal/model"
	"github.com/dandantas/cracksim/internal/webhook"
	"github.com/dandantas/cracksim/internal/worker"
)

// fakeClock hands out timers that only fire when the test says so.
type fakeClock struct {
	mu        sync.Mutex
	waiters   []chan time.Time
	requested []time.Duration
	armed     chan struct{}
}

func newFakeClock() *fakeClock {
	return &fakeClock{armed: make(chan struct{}, 128)}
}

func (f *fakeClock) After(d time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	f.mu.Lock()
	f.waiters = append(f.waiters, ch)
	f.requested = append(f.requested, d)
	f.mu.Unlock()
	f.armed <- struct{}{}
	return ch
}

// waitArmed blocks until n more timers have been requested.
func (f *fakeClock) waitArmed(t *testing.T, n int) {
	t.Helper()
	for range n {
		select {
		case <-f.armed:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for a worker to start its timer")
		}
	}
}

// fire releases every timer handed out so far.
func (f *fakeClock) fire() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.waiters {
		ch <- time.Now()
	}
	f.waiters = nil
}

type recordingHistory struct {
	mu     sync.Mutex
	events []model.JobEvent
	err    error
}

func (r *recordingHistory) Record(ctx context.Context, event *model.JobEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *event)
	return r.err
}

func (r *recordingHistory) List(ctx context.Context, key string, page, limit int) ([]model.JobEvent, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events, int64(len(r.events)), nil
}

func (r *recordingHistory) snapshot() []model.JobEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.JobEvent(nil), r.events...)
}

type recordingNotifier struct {
	mu       sync.Mutex
	payloads []webhook.CompletionPayload
	err      error
}

func (n *recordingNotifier) NotifyCompleted(ctx context.Context, payload webhook.CompletionPayload) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.payloads = append(n.payloads, payload)
	return n.err
}

type stubScheduler struct {
	err  error
	jobs []worker.Job
}

func (s *stubScheduler) Submit(job worker.Job) error {
	if s.err != nil {
		return s.err
	}
	s.jobs = append(s.jobs, job)
	return nil
}

func (s *stubScheduler) Active() int { return len(s.jobs) }
