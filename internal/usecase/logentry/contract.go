package logentry

import (
	"context"
	"time"

	"github.com/arkiv-cloud/arkiv/internal/domain"
	"github.com/arkiv-cloud/arkiv/internal/domain/search"
)

// Repository defines the storage contract for log entries.
type Repository interface {
	Search(ctx context.Context, req search.Request) (search.Response[domain.LogEntry], error)
	Insert(ctx context.Context, e domain.LogEntry) error
	Prune(ctx context.Context, olderThan time.Time) (int64, error)
}
