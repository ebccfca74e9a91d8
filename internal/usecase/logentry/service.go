package logentry

import (
	"context"
	"time"

	"github.com/arkiv-cloud/arkiv/internal/domain"
	"github.com/arkiv-cloud/arkiv/internal/domain/search"
)

// Service exposes the admin log viewer operations.
type Service struct {
	repo Repository
}

// New creates a log entry service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Search returns one page of log entries, newest first.
func (s *Service) Search(ctx context.Context, req search.Request) (search.Response[domain.LogEntry], error) {
	return s.repo.Search(ctx, req)
}

// Record appends an entry.
func (s *Service) Record(ctx context.Context, e domain.LogEntry) error {
	return s.repo.Insert(ctx, e)
}

// Prune removes entries older than the retention window.
func (s *Service) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	return s.repo.Prune(ctx, time.Now().Add(-retention))
}
