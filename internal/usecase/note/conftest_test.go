package note

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/arkiv-cloud/arkiv/internal/domain"
	"github.com/arkiv-cloud/arkiv/internal/domain/search"
)

// mockRepo implements Repository for tests.
type mockRepo struct {
	createFn func(ctx context.Context, n domain.Note, tagIDs []int64) (domain.NoteWithDetails, error)
	deleteFn func(ctx context.Context, id, principalID int64) error
}

func (m *mockRepo) Search(context.Context, int64, search.Request) (search.Response[domain.NoteWithDetails], error) {
	return search.Response[domain.NoteWithDetails]{}, nil
}

func (m *mockRepo) Get(context.Context, int64, int64) (domain.NoteWithDetails, error) {
	return domain.NoteWithDetails{}, nil
}

func (m *mockRepo) Create(ctx context.Context, n domain.Note, tagIDs []int64) (domain.NoteWithDetails, error) {
	if m.createFn != nil {
		return m.createFn(ctx, n, tagIDs)
	}
	return domain.NoteWithDetails{Note: n}, nil
}

func (m *mockRepo) Update(context.Context, domain.Note, []int64, int64) (domain.NoteWithDetails, error) {
	return domain.NoteWithDetails{}, nil
}

func (m *mockRepo) Delete(ctx context.Context, id, principalID int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id, principalID)
	}
	return nil
}

// mockAuditor implements Auditor for tests.
type mockAuditor struct {
	insertFn func(ctx context.Context, e domain.LogEntry) error
	entries  []domain.LogEntry
}

func (m *mockAuditor) Insert(ctx context.Context, e domain.LogEntry) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, e)
	}
	m.entries = append(m.entries, e)
	return nil
}

func newTestService(t *testing.T) (*Service, *mockRepo, *mockAuditor) {
	t.Helper()
	repo := &mockRepo{}
	audit := &mockAuditor{}
	return New(repo, audit, zap.NewNop()), repo, audit
}
