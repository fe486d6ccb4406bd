package service

import (
	"context"

	"github.com/dandantas/cracksim/internal/model"
)

// HistoryReader pages through recorded job events
type HistoryReader interface {
	List(ctx context.Context, key string, page, limit int) ([]model.JobEvent, int64, error)
}

// HistoryService handles job event history queries
type HistoryService struct {
	repo HistoryReader
}

// NewHistoryService creates a new history service
func NewHistoryService(repo HistoryReader) *HistoryService {
	return &HistoryService{
		repo: repo,
	}
}

// List retrieves job events, newest first
func (s *HistoryService) List(ctx context.Context, key string, page, limit int) ([]model.JobEvent, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.repo.List(ctx, key, page, limit)
}
