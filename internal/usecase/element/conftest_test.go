package element

import (
	"context"
	"testing"

	"github.com/arkiv-cloud/arkiv/internal/domain"
	"github.com/arkiv-cloud/arkiv/internal/domain/search"
)

// mockRepo implements Repository for tests.
type mockRepo struct {
	createFn      func(ctx context.Context, e domain.SignatureElement, parentIDs []int64) (domain.SignatureElementSearchResult, error)
	reindexFn     func(ctx context.Context, componentID int64, indexType string) (int, error)
	byComponentFn func(ctx context.Context, componentID int64) ([]domain.SignatureElementSearchResult, error)
}

func (m *mockRepo) Search(context.Context, search.Request) (search.Response[domain.SignatureElementSearchResult], error) {
	return search.Response[domain.SignatureElementSearchResult]{}, nil
}

func (m *mockRepo) Get(context.Context, int64) (domain.SignatureElementSearchResult, error) {
	return domain.SignatureElementSearchResult{}, nil
}

func (m *mockRepo) Create(
	ctx context.Context, e domain.SignatureElement, parentIDs []int64,
) (domain.SignatureElementSearchResult, error) {
	if m.createFn != nil {
		return m.createFn(ctx, e, parentIDs)
	}
	return domain.SignatureElementSearchResult{SignatureElement: e}, nil
}

func (m *mockRepo) Update(
	_ context.Context, e domain.SignatureElement, _ []int64,
) (domain.SignatureElementSearchResult, error) {
	return domain.SignatureElementSearchResult{SignatureElement: e}, nil
}

func (m *mockRepo) Delete(context.Context, int64) error { return nil }

func (m *mockRepo) ParentIDs(context.Context, int64) ([]int64, error) { return nil, nil }

func (m *mockRepo) ByComponent(ctx context.Context, componentID int64) ([]domain.SignatureElementSearchResult, error) {
	if m.byComponentFn != nil {
		return m.byComponentFn(ctx, componentID)
	}
	return []domain.SignatureElementSearchResult{}, nil
}

func (m *mockRepo) Reindex(ctx context.Context, componentID int64, indexType string) (int, error) {
	if m.reindexFn != nil {
		return m.reindexFn(ctx, componentID, indexType)
	}
	return 0, nil
}

// mockComponents implements ComponentReader for tests.
type mockComponents struct {
	getFn func(ctx context.Context, id int64) (domain.SignatureComponent, error)
}

func (m *mockComponents) Get(ctx context.Context, id int64) (domain.SignatureComponent, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return domain.SignatureComponent{ID: id, IndexType: "dec"}, nil
}

func newTestService(t *testing.T) (*Service, *mockRepo, *mockComponents) {
	t.Helper()
	repo := &mockRepo{}
	components := &mockComponents{}
	return New(repo, components), repo, components
}
