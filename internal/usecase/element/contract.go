package element

import (
	"context"

	"github.com/arkiv-cloud/arkiv/internal/domain"
	"github.com/arkiv-cloud/arkiv/internal/domain/search"
)

// Repository defines the storage contract for signature elements.
type Repository interface {
	Search(ctx context.Context, req search.Request) (search.Response[domain.SignatureElementSearchResult], error)
	Get(ctx context.Context, id int64) (domain.SignatureElementSearchResult, error)
	Create(ctx context.Context, e domain.SignatureElement, parentIDs []int64) (
		domain.SignatureElementSearchResult, error,
	)
	Update(ctx context.Context, e domain.SignatureElement, parentIDs []int64) (
		domain.SignatureElementSearchResult, error,
	)
	Delete(ctx context.Context, id int64) error
	ParentIDs(ctx context.Context, id int64) ([]int64, error)
	ByComponent(ctx context.Context, componentID int64) ([]domain.SignatureElementSearchResult, error)
	Reindex(ctx context.Context, componentID int64, indexType string) (int, error)
}

// ComponentReader checks that the target component exists.
type ComponentReader interface {
	Get(ctx context.Context, id int64) (domain.SignatureComponent, error)
}
