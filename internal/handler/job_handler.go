package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/dandantas/cracksim/internal/extractor"
	"github.com/dandantas/cracksim/internal/service"
	"github.com/dandantas/cracksim/internal/worker"
	"github.com/dandantas/cracksim/pkg/middleware"
)

// OutcomeHeader reports what a submit actually did. The body is the same
// for every outcome.
const OutcomeHeader = "X-Job-Outcome"

// JobHandler serves job submission and status endpoints
type JobHandler struct {
	jobs      *service.JobService
	extractor *extractor.KeyExtractor
}

// NewJobHandler creates a new job handler
func NewJobHandler(jobs *service.JobService, keys *extractor.KeyExtractor) *JobHandler {
	return &JobHandler{
		jobs:      jobs,
		extractor: keys,
	}
}

// StatusResponse is the body of both start and status responses
type StatusResponse struct {
	Status string `json:"status"`
}

// Start handles POST /api/start
func (h *JobHandler) Start(w http.ResponseWriter, r *http.Request) {
	correlationID := middleware.GetCorrelationID(r.Context())

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	key, err := h.extractor.Extract(body)
	if err != nil {
		slog.Info("Rejected submit request",
			"correlation_id", correlationID,
			"error", err,
		)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	outcome, err := h.jobs.Submit(r.Context(), key, correlationID)
	switch {
	case errors.Is(err, service.ErrMissingKey):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, worker.ErrPoolStopped):
		writeError(w, http.StatusServiceUnavailable, "Server is shutting down")
		return
	case err != nil:
		slog.Error("Failed to submit job",
			"hash", key,
			"correlation_id", correlationID,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "Failed to submit job")
		return
	}

	w.Header().Set(OutcomeHeader, outcome.String())
	writeJSON(w, http.StatusOK, StatusResponse{Status: "started"})
}

// Status handles GET /api/status?hash=<key>
func (h *JobHandler) Status(w http.ResponseWriter, r *http.Request) {
	state, err := h.jobs.Status(r.URL.Query().Get("hash"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, StatusResponse{Status: state.String()})
}

// Get handles GET /api/jobs/{hash}
func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("hash")

	job, ok := h.jobs.Lookup(key)
	if !ok {
		writeError(w, http.StatusNotFound, "Job not found")
		return
	}

	writeJSON(w, http.StatusOK, job)
}

// Stats handles GET /api/stats
func (h *JobHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.jobs.Stats())
}
