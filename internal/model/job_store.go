package model

import (
	"fmt"
	"sync"
	"time"
)

type jobRecord struct {
	state       JobState
	runs        int
	submittedAt time.Time
	completedAt time.Time
}

// JobStore is an in-memory store for job states.
// Every check-and-set runs under a single mutex, so concurrent submits for
// the same key can start at most one run.
type JobStore struct {
	mu               sync.Mutex
	jobs             map[string]*jobRecord
	restartCompleted bool
	now              func() time.Time
}

// NewJobStore creates a new job store. When restartCompleted is true a submit
// on a cracked key starts a new run; otherwise it is a no-op.
func NewJobStore(restartCompleted bool) *JobStore {
	return &JobStore{
		jobs:             make(map[string]*jobRecord),
		restartCompleted: restartCompleted,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// SubmitIfAbsentOrCompleted moves key to pending when it is absent (or
// cracked, if restarts are allowed) and reports what happened.
func (s *JobStore) SubmitIfAbsentOrCompleted(key string) SubmitOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, exists := s.jobs[key]
	if !exists {
		s.jobs[key] = &jobRecord{
			state:       StatePending,
			runs:        1,
			submittedAt: s.now(),
		}
		return OutcomeStarted
	}

	switch rec.state {
	case StatePending:
		return OutcomeAlreadyPending
	case StateCompleted:
		if !s.restartCompleted {
			return OutcomeAlreadyCompleted
		}
	}

	rec.state = StatePending
	rec.runs++
	rec.submittedAt = s.now()
	rec.completedAt = time.Time{}
	return OutcomeStarted
}

// MarkCompleted moves a pending key to cracked
func (s *JobStore) MarkCompleted(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, exists := s.jobs[key]
	if !exists || rec.state != StatePending {
		state := StateUnknown
		if exists {
			state = rec.state
		}
		return fmt.Errorf("mark %q completed from state %s: %w", key, state, ErrNotPending)
	}

	rec.state = StateCompleted
	rec.completedAt = s.now()
	return nil
}

// GetState returns the current state of key, StateUnknown if absent
func (s *JobStore) GetState(key string) JobState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, exists := s.jobs[key]; exists {
		return rec.state
	}
	return StateUnknown
}

// Get returns a copy of the job record for key
func (s *JobStore) Get(key string) (Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, exists := s.jobs[key]
	if !exists {
		return Job{}, false
	}

	job := Job{
		Key:         key,
		State:       rec.state,
		Status:      rec.state.String(),
		Runs:        rec.runs,
		SubmittedAt: rec.submittedAt,
	}
	if !rec.completedAt.IsZero() {
		completedAt := rec.completedAt
		job.CompletedAt = &completedAt
	}
	return job, true
}

// Counts returns the number of pending and cracked keys
func (s *JobStore) Counts() StateCounts {
	s.mu.Lock()
	defer s.mu.Unlock()

	var counts StateCounts
	for _, rec := range s.jobs {
		switch rec.state {
		case StatePending:
			counts.Pending++
		case StateCompleted:
			counts.Completed++
		}
	}
	return counts
}
