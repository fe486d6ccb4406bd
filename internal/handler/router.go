package handler

import (
	"net/http"

	"github.com/dandantas/cracksim/internal/metrics"
	"github.com/dandantas/cracksim/pkg/middleware"
)

// Router handles HTTP routing
type Router struct {
	jobHandler     *JobHandler
	historyHandler *HistoryHandler
	healthHandler  *HealthHandler
	metrics        *metrics.Collectors
	corsConfig     middleware.CORSConfig
}

// NewRouter creates a new router. m is nil when metrics are disabled.
func NewRouter(
	jobHandler *JobHandler,
	historyHandler *HistoryHandler,
	healthHandler *HealthHandler,
	m *metrics.Collectors,
	corsConfig middleware.CORSConfig,
) *Router {
	return &Router{
		jobHandler:     jobHandler,
		historyHandler: historyHandler,
		healthHandler:  healthHandler,
		metrics:        m,
		corsConfig:     corsConfig,
	}
}

// Handler returns the configured HTTP handler with middleware
func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", rt.healthHandler.Health)
	mux.HandleFunc("GET /ready", rt.healthHandler.Ready)
	if rt.metrics != nil {
		mux.Handle("GET /metrics", rt.metrics.Handler())
	}

	mux.HandleFunc("POST /api/start", rt.jobHandler.Start)
	mux.HandleFunc("GET /api/status", rt.jobHandler.Status)
	mux.HandleFunc("GET /api/jobs/{hash}", rt.jobHandler.Get)
	mux.HandleFunc("GET /api/stats", rt.jobHandler.Stats)
	mux.HandleFunc("GET /api/history", rt.historyHandler.List)

	// CORS innermost so preflight requests are still logged and recovered
	handler := middleware.CORS(rt.corsConfig)(mux)
	handler = middleware.Recovery(handler)
	handler = middleware.Logging(handler)
	handler = middleware.CorrelationID(handler)

	if rt.metrics != nil {
		handler = middleware.Metrics(rt.metrics, func(r *http.Request) string {
			_, pattern := mux.Handler(r)
			return pattern
		})(handler)
	}

	return handler
}
