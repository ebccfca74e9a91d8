package chi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/arkiv-cloud/arkiv/internal/domain"
	"github.com/arkiv-cloud/arkiv/internal/domain/search"
	loguc "github.com/arkiv-cloud/arkiv/internal/usecase/logentry"
	noteuc "github.com/arkiv-cloud/arkiv/internal/usecase/note"
	taguc "github.com/arkiv-cloud/arkiv/internal/usecase/tag"
)

// mockNoteRepo implements the note service contract for tests.
type mockNoteRepo struct {
	searchFn func(ctx context.Context, principalID int64, req search.Request) (search.Response[domain.NoteWithDetails], error)
	getFn    func(ctx context.Context, id, principalID int64) (domain.NoteWithDetails, error)
}

func (m *mockNoteRepo) Search(
	ctx context.Context, principalID int64, req search.Request,
) (search.Response[domain.NoteWithDetails], error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, principalID, req)
	}
	return search.Response[domain.NoteWithDetails]{Data: []domain.NoteWithDetails{}}, nil
}

func (m *mockNoteRepo) Get(ctx context.Context, id, principalID int64) (domain.NoteWithDetails, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id, principalID)
	}
	return domain.NoteWithDetails{}, nil
}

func (m *mockNoteRepo) Create(context.Context, domain.Note, []int64) (domain.NoteWithDetails, error) {
	return domain.NoteWithDetails{}, nil
}

func (m *mockNoteRepo) Update(context.Context, domain.Note, []int64, int64) (domain.NoteWithDetails, error) {
	return domain.NoteWithDetails{}, nil
}

func (m *mockNoteRepo) Delete(context.Context, int64, int64) error { return nil }

// mockLogRepo implements the log entry service contract for tests.
type mockLogRepo struct {
	searchFn func(ctx context.Context, req search.Request) (search.Response[domain.LogEntry], error)
}

func (m *mockLogRepo) Search(ctx context.Context, req search.Request) (search.Response[domain.LogEntry], error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, req)
	}
	return search.Response[domain.LogEntry]{Data: []domain.LogEntry{}}, nil
}

func (m *mockLogRepo) Insert(context.Context, domain.LogEntry) error { return nil }

func (m *mockLogRepo) Prune(context.Context, time.Time) (int64, error) { return 0, nil }

// mockTagRepo implements the tag service contract for tests.
type mockTagRepo struct {
	createFn func(ctx context.Context, t domain.Tag) (domain.Tag, error)
	updateFn func(ctx context.Context, t domain.Tag) (domain.Tag, error)
}

func (m *mockTagRepo) List(context.Context) ([]domain.Tag, error) { return []domain.Tag{}, nil }

func (m *mockTagRepo) Get(context.Context, int64) (domain.Tag, error) { return domain.Tag{}, nil }

func (m *mockTagRepo) Create(ctx context.Context, t domain.Tag) (domain.Tag, error) {
	if m.createFn != nil {
		return m.createFn(ctx, t)
	}
	return t, nil
}

func (m *mockTagRepo) Update(ctx context.Context, t domain.Tag) (domain.Tag, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, t)
	}
	return t, nil
}

func (m *mockTagRepo) Delete(context.Context, int64) error { return nil }

type testFixture struct {
	notes  *mockNoteRepo
	logs   *mockLogRepo
	tags   *mockTagRepo
	router *chi.Mux
}

func newTestServer(t *testing.T) *testFixture {
	t.Helper()
	f := &testFixture{
		notes: &mockNoteRepo{},
		logs:  &mockLogRepo{},
		tags:  &mockTagRepo{},
	}
	srv := NewServer(
		noteuc.New(f.notes, nil, zap.NewNop()),
		nil,
		nil,
		nil,
		taguc.New(f.tags),
		loguc.New(f.logs),
		nil,
		zap.NewNop(),
	)
	f.router = chi.NewRouter()
	srv.Routes(f.router)
	return f
}

func (f *testFixture) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}
