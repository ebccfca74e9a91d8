package component

import (
	"context"

	"github.com/arkiv-cloud/arkiv/internal/domain"
)

// Repository defines the storage contract for signature components.
type Repository interface {
	List(ctx context.Context) ([]domain.SignatureComponent, error)
	Get(ctx context.Context, id int64) (domain.SignatureComponent, error)
	Create(ctx context.Context, c domain.SignatureComponent) (domain.SignatureComponent, error)
	Update(ctx context.Context, c domain.SignatureComponent) (domain.SignatureComponent, error)
	Delete(ctx context.Context, id int64) error
}

// Service handles signature component management.
type Service struct {
	repo Repository
}

// New creates a signature component service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all components.
func (s *Service) List(ctx context.Context) ([]domain.SignatureComponent, error) {
	return s.repo.List(ctx)
}

// Get returns one component.
func (s *Service) Get(ctx context.Context, id int64) (domain.SignatureComponent, error) {
	return s.repo.Get(ctx, id)
}

// Create stores a new component.
func (s *Service) Create(ctx context.Context, c domain.SignatureComponent) (domain.SignatureComponent, error) {
	return s.repo.Create(ctx, c)
}

// Update changes a component's name or index type.
func (s *Service) Update(ctx context.Context, c domain.SignatureComponent) (domain.SignatureComponent, error) {
	return s.repo.Update(ctx, c)
}

// Delete removes a component together with its elements.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
