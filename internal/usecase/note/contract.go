package note

import (
	"context"

	"github.com/arkiv-cloud/arkiv/internal/domain"
	"github.com/arkiv-cloud/arkiv/internal/domain/search"
)

// Repository defines the storage contract for notes.
type Repository interface {
	Search(ctx context.Context, principalID int64, req search.Request) (search.Response[domain.NoteWithDetails], error)
	Get(ctx context.Context, id, principalID int64) (domain.NoteWithDetails, error)
	Create(ctx context.Context, n domain.Note, tagIDs []int64) (domain.NoteWithDetails, error)
	Update(ctx context.Context, n domain.Note, tagIDs []int64, principalID int64) (domain.NoteWithDetails, error)
	Delete(ctx context.Context, id, principalID int64) error
}

// Auditor records audit log entries for mutations.
type Auditor interface {
	Insert(ctx context.Context, e domain.LogEntry) error
}
