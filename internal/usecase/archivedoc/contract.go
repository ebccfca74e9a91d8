package archivedoc

import (
	"context"

	"github.com/arkiv-cloud/arkiv/internal/domain"
	"github.com/arkiv-cloud/arkiv/internal/domain/search"
)

// Repository defines the storage contract for archive documents.
type Repository interface {
	Search(ctx context.Context, req search.Request, includeInactive bool) (
		search.Response[domain.ArchiveDocumentSearchResult], error,
	)
	Get(ctx context.Context, id int64) (domain.ArchiveDocumentSearchResult, error)
	Create(ctx context.Context, d domain.ArchiveDocument, tagIDs []int64) (
		domain.ArchiveDocumentSearchResult, error,
	)
	Update(ctx context.Context, d domain.ArchiveDocument, tagIDs []int64) (
		domain.ArchiveDocumentSearchResult, error,
	)
	Deactivate(ctx context.Context, id int64) error
}

// Auditor records audit log entries for mutations.
type Auditor interface {
	Insert(ctx context.Context, e domain.LogEntry) error
}
