package scheduler

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dandantas/cracksim/internal/metrics"
	"github.com/dandantas/cracksim/internal/model"
)

type fixedActive int

func (f fixedActive) Active() int { return int(f) }

func scrape(t *testing.T, m *metrics.Collectors) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestScheduler_ReportPublishesCounts(t *testing.T) {
	store := model.NewJobStore(true)
	store.SubmitIfAbsentOrCompleted("a")
	store.SubmitIfAbsentOrCompleted("b")
	require.NoError(t, store.MarkCompleted("b"))

	m := metrics.New()
	s := NewScheduler("@every 1m", store, fixedActive(3), m)
	s.report()

	body := scrape(t, m)
	assert.Contains(t, body, `cracksim_jobs{state="pending"} 1`)
	assert.Contains(t, body, `cracksim_jobs{state="cracked"} 1`)
	assert.Contains(t, body, `cracksim_workers_in_flight 3`)
}

func TestScheduler_StartAndStop(t *testing.T) {
	s := NewScheduler("@every 1h", model.NewJobStore(true), fixedActive(0), nil)
	assert.True(t, s.Next().IsZero())

	require.NoError(t, s.Start())
	assert.WithinDuration(t, time.Now().Add(time.Hour), s.Next(), time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}

func TestScheduler_InvalidSchedule(t *testing.T) {
	s := NewScheduler("not a schedule", model.NewJobStore(true), fixedActive(0), nil)
	require.Error(t, s.Start())
}
