// Package metrics holds the Prometheus collectors exported by the service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dandantas/cracksim/internal/model"
)

const namespace = "cracksim"

// Collectors groups every metric the service updates
type Collectors struct {
	registry *prometheus.Registry

	JobsSubmitted   *prometheus.CounterVec
	JobsCompleted   prometheus.Counter
	WorkersInFlight prometheus.Gauge
	Jobs            *prometheus.GaugeVec
	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
}

// New creates the collectors on a private registry
func New() *Collectors {
	reg := prometheus.NewRegistry()

	c := &Collectors{
		registry: reg,
		JobsSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_submitted_total",
			Help:      "Submit requests by store outcome.",
		}, []string{"outcome"}),
		JobsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_completed_total",
			Help:      "Runs that reached the cracked state.",
		}),
		WorkersInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "workers_in_flight",
			Help:      "Workers currently simulating a crack.",
		}),
		Jobs: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "jobs",
			Help:      "Known job keys by state.",
		}, []string{"state"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.JobsSubmitted,
		c.JobsCompleted,
		c.WorkersInFlight,
		c.Jobs,
		c.HTTPRequests,
		c.HTTPDuration,
	)

	return c
}

// ObserveSubmit counts one submit by outcome
func (c *Collectors) ObserveSubmit(outcome model.SubmitOutcome) {
	c.JobsSubmitted.WithLabelValues(outcome.String()).Inc()
}

// SetJobCounts refreshes the per-state gauge
func (c *Collectors) SetJobCounts(counts model.StateCounts) {
	c.Jobs.WithLabelValues(model.StatePending.String()).Set(float64(counts.Pending))
	c.Jobs.WithLabelValues(model.StateCompleted.String()).Set(float64(counts.Completed))
}

// ObserveRequest records one served HTTP request
func (c *Collectors) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry, mainly for tests
func (c *Collectors) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format
func (c *Collectors) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
