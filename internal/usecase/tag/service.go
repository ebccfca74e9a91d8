package tag

import (
	"context"

	"github.com/arkiv-cloud/arkiv/internal/domain"
)

// Repository defines the storage contract for tags.
type Repository interface {
	List(ctx context.Context) ([]domain.Tag, error)
	Get(ctx context.Context, id int64) (domain.Tag, error)
	Create(ctx context.Context, t domain.Tag) (domain.Tag, error)
	Update(ctx context.Context, t domain.Tag) (domain.Tag, error)
	Delete(ctx context.Context, id int64) error
}

// Service handles tag management.
type Service struct {
	repo Repository
}

// New creates a tag service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all tags.
func (s *Service) List(ctx context.Context) ([]domain.Tag, error) {
	return s.repo.List(ctx)
}

// Create stores a new tag.
func (s *Service) Create(ctx context.Context, t domain.Tag) (domain.Tag, error) {
	return s.repo.Create(ctx, t)
}

// Update renames a tag or changes its description.
func (s *Service) Update(ctx context.Context, t domain.Tag) (domain.Tag, error) {
	return s.repo.Update(ctx, t)
}

// Delete removes a tag and its associations.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
