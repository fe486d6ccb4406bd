package handler

import (
	"log/slog"
	"net/http"

	"github.com/dandantas/cracksim/internal/model"
	"github.com/dandantas/cracksim/internal/service"
	"github.com/dandantas/cracksim/pkg/middleware"
)

// HistoryHandler handles job event history queries
type HistoryHandler struct {
	service *service.HistoryService
}

// NewHistoryHandler creates a new history handler. A nil service means the
// history sink is disabled.
func NewHistoryHandler(service *service.HistoryService) *HistoryHandler {
	return &HistoryHandler{
		service: service,
	}
}

// HistoryListResponse represents a page of job events
type HistoryListResponse struct {
	Total   int64            `json:"total"`
	Page    int              `json:"page"`
	Limit   int              `json:"limit"`
	Results []model.JobEvent `json:"results"`
}

// List handles GET /api/history
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeError(w, http.StatusServiceUnavailable, "History is disabled")
		return
	}

	key := r.URL.Query().Get("hash")
	page := parseQueryInt(r, "page", 1)
	limit := parseQueryInt(r, "limit", 20)

	events, total, err := h.service.List(r.Context(), key, page, limit)
	if err != nil {
		slog.Error("Failed to list job events",
			"hash", key,
			"correlation_id", middleware.GetCorrelationID(r.Context()),
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "Failed to list job events")
		return
	}

	if events == nil {
		events = []model.JobEvent{}
	}

	writeJSON(w, http.StatusOK, HistoryListResponse{
		Total:   total,
		Page:    max(page, 1),
		Limit:   min(max(limit, 1), 100),
		Results: events,
	})
}
