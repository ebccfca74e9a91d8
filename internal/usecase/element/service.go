package element

import (
	"context"
	"fmt"

	"github.com/arkiv-cloud/arkiv/internal/domain"
	"github.com/arkiv-cloud/arkiv/internal/domain/search"
)

// Service handles signature element search and creation.
type Service struct {
	repo       Repository
	components ComponentReader
}

// New creates a signature element service.
func New(repo Repository, components ComponentReader) *Service {
	return &Service{repo: repo, components: components}
}

// Search returns one page of elements with component names resolved.
func (s *Service) Search(
	ctx context.Context, req search.Request,
) (search.Response[domain.SignatureElementSearchResult], error) {
	return s.repo.Search(ctx, req)
}

// Get returns one element together with its parent ids.
func (s *Service) Get(ctx context.Context, id int64) (domain.SignatureElementSearchResult, []int64, error) {
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.SignatureElementSearchResult{}, nil, err
	}
	parents, err := s.repo.ParentIDs(ctx, id)
	if err != nil {
		return domain.SignatureElementSearchResult{}, nil, err
	}
	return e, parents, nil
}

// Create stores an element after checking its component exists.
func (s *Service) Create(
	ctx context.Context, e domain.SignatureElement, parentIDs []int64,
) (domain.SignatureElementSearchResult, error) {
	if _, err := s.components.Get(ctx, e.SignatureComponentID); err != nil {
		return domain.SignatureElementSearchResult{}, fmt.Errorf("component %d: %w", e.SignatureComponentID, err)
	}
	return s.repo.Create(ctx, e, parentIDs)
}

// Update rewrites an element's fields and parent set.
func (s *Service) Update(
	ctx context.Context, e domain.SignatureElement, parentIDs []int64,
) (domain.SignatureElementSearchResult, error) {
	return s.repo.Update(ctx, e, parentIDs)
}

// Delete removes an element.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// ByComponent returns every element of one component ordered by its index.
func (s *Service) ByComponent(ctx context.Context, componentID int64) ([]domain.SignatureElementSearchResult, error) {
	if _, err := s.components.Get(ctx, componentID); err != nil {
		return nil, fmt.Errorf("component %d: %w", componentID, err)
	}
	return s.repo.ByComponent(ctx, componentID)
}

// ReindexComponent renumbers a component's elements according to the
// component's index type and returns the final element count.
func (s *Service) ReindexComponent(ctx context.Context, componentID int64) (int, error) {
	c, err := s.components.Get(ctx, componentID)
	if err != nil {
		return 0, fmt.Errorf("component %d: %w", componentID, err)
	}
	return s.repo.Reindex(ctx, componentID, c.IndexType)
}
