package model

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobStore_UnknownKey(t *testing.T) {
	store := NewJobStore(true)

	assert.Equal(t, StateUnknown, store.GetState("abc123"))
	_, ok := store.Get("abc123")
	assert.False(t, ok)
}

func TestJobStore_SubmitThenComplete(t *testing.T) {
	store := NewJobStore(true)

	require.Equal(t, OutcomeStarted, store.SubmitIfAbsentOrCompleted("abc123"))
	assert.Equal(t, StatePending, store.GetState("abc123"))

	require.NoError(t, store.MarkCompleted("abc123"))
	assert.Equal(t, StateCompleted, store.GetState("abc123"))

	job, ok := store.Get("abc123")
	require.True(t, ok)
	assert.Equal(t, "cracked", job.Status)
	assert.Equal(t, 1, job.Runs)
	require.NotNil(t, job.CompletedAt)
}

func TestJobStore_SubmitWhilePendingIsNoop(t *testing.T) {
	store := NewJobStore(true)

	require.Equal(t, OutcomeStarted, store.SubmitIfAbsentOrCompleted("k"))
	assert.Equal(t, OutcomeAlreadyPending, store.SubmitIfAbsentOrCompleted("k"))

	job, _ := store.Get("k")
	assert.Equal(t, 1, job.Runs)
}

func TestJobStore_ResubmitCompleted(t *testing.T) {
	t.Run("restart enabled", func(t *testing.T) {
		store := NewJobStore(true)
		store.SubmitIfAbsentOrCompleted("k")
		require.NoError(t, store.MarkCompleted("k"))

		require.Equal(t, OutcomeStarted, store.SubmitIfAbsentOrCompleted("k"))
		assert.Equal(t, StatePending, store.GetState("k"))

		job, _ := store.Get("k")
		assert.Equal(t, 2, job.Runs)
		assert.Nil(t, job.CompletedAt)
	})

	t.Run("restart disabled", func(t *testing.T) {
		store := NewJobStore(false)
		store.SubmitIfAbsentOrCompleted("k")
		require.NoError(t, store.MarkCompleted("k"))

		require.Equal(t, OutcomeAlreadyCompleted, store.SubmitIfAbsentOrCompleted("k"))
		assert.Equal(t, StateCompleted, store.GetState("k"))
	})
}

func TestJobStore_MarkCompletedRejectsNonPending(t *testing.T) {
	store := NewJobStore(true)

	err := store.MarkCompleted("missing")
	require.ErrorIs(t, err, ErrNotPending)
	assert.Equal(t, StateUnknown, store.GetState("missing"))

	store.SubmitIfAbsentOrCompleted("k")
	require.NoError(t, store.MarkCompleted("k"))

	err = store.MarkCompleted("k")
	require.ErrorIs(t, err, ErrNotPending)
	assert.Equal(t, StateCompleted, store.GetState("k"))
}

func TestJobStore_ConcurrentSubmitsStartOnce(t *testing.T) {
	store := NewJobStore(true)

	const n = 64
	var started atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})

	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if store.SubmitIfAbsentOrCompleted("race") == OutcomeStarted {
				started.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), started.Load())
	job, _ := store.Get("race")
	assert.Equal(t, 1, job.Runs)
}

func TestJobStore_Counts(t *testing.T) {
	store := NewJobStore(true)
	store.SubmitIfAbsentOrCompleted("a")
	store.SubmitIfAbsentOrCompleted("b")
	store.SubmitIfAbsentOrCompleted("c")
	require.NoError(t, store.MarkCompleted("c"))

	assert.Equal(t, StateCounts{Pending: 2, Completed: 1}, store.Counts())
}

func TestJobState_String(t *testing.T) {
	assert.Equal(t, "unknown", StateUnknown.String())
	assert.Equal(t, "pending", StatePending.String())
	assert.Equal(t, "cracked", StateCompleted.String())
}
