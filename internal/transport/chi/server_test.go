package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/arkiv-cloud/arkiv/internal/domain"
	"github.com/arkiv-cloud/arkiv/internal/domain/search"
)

func searchRequest(t *testing.T, path, body string, headers map[string]string) *http.Request {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return req
}

func TestSearchNotes_PrincipalFromHeader(t *testing.T) {
	f := newTestServer(t)

	var gotPrincipal int64
	f.notes.searchFn = func(_ context.Context, principalID int64, req search.Request) (search.Response[domain.NoteWithDetails], error) {
		gotPrincipal = principalID
		if len(req.Query) != 1 || req.Query[0].Field != "title" {
			t.Errorf("unexpected query: %+v", req.Query)
		}
		return search.NewResponse([]domain.NoteWithDetails{}, 0, req.PageSize, 0), nil
	}

	body := `{"query":[{"field":"title","condition":"FRAGMENT","value":"plan"}],"page":1,"pageSize":5}`
	rr := f.do(searchRequest(t, "/api/notes/search", body, map[string]string{"X-User-Id": "42"}))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rr.Code, rr.Body.String())
	}
	if gotPrincipal != 42 {
		t.Errorf("principal: got %d, want 42", gotPrincipal)
	}
}

func TestSearchNotes_EmptyPageIsAList(t *testing.T) {
	f := newTestServer(t)
	f.notes.searchFn = func(_ context.Context, _ int64, req search.Request) (search.Response[domain.NoteWithDetails], error) {
		return search.NewResponse[domain.NoteWithDetails](nil, 10, 10, 3), nil
	}

	rr := f.do(searchRequest(t, "/api/notes/search", `{"page":2,"pageSize":10}`, nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"data":[]`) {
		t.Errorf("expected empty data list, got %s", rr.Body.String())
	}
}

func TestSearchNotes_UndecodableBody_400(t *testing.T) {
	f := newTestServer(t)

	rr := f.do(searchRequest(t, "/api/notes/search", `{"query":`, nil))

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestSearchNotes_StoreFailureHidesDiagnostics(t *testing.T) {
	f := newTestServer(t)
	f.notes.searchFn = func(context.Context, int64, search.Request) (search.Response[domain.NoteWithDetails], error) {
		return search.Response[domain.NoteWithDetails]{},
			errors.New("search query failed: no such column (sql: SELECT secret..., params: [x])")
	}

	rr := f.do(searchRequest(t, "/api/notes/search", `{"page":1,"pageSize":10}`, nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "SELECT") {
		t.Errorf("response leaks SQL: %s", rr.Body.String())
	}
	var resp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Message != "search failed" {
		t.Errorf("message: got %q", resp.Message)
	}
}

func TestSearchLogs_AdminOnly(t *testing.T) {
	f := newTestServer(t)

	rr := f.do(searchRequest(t, "/api/logs/search", `{"page":1,"pageSize":10}`, nil))
	if rr.Code != http.StatusForbidden {
		t.Errorf("without role: got %d, want %d", rr.Code, http.StatusForbidden)
	}

	rr = f.do(searchRequest(t, "/api/logs/search", `{"page":1,"pageSize":10}`,
		map[string]string{"X-User-Role": "admin"}))
	if rr.Code != http.StatusOK {
		t.Errorf("admin: got %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestGetNote_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", domain.ErrNotFound, http.StatusNotFound},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"validation", domain.ErrValidation, http.StatusBadRequest},
		{"unclassified", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestServer(t)
			f.notes.getFn = func(context.Context, int64, int64) (domain.NoteWithDetails, error) {
				return domain.NoteWithDetails{}, tt.err
			}

			rr := f.do(httptest.NewRequest("GET", "/api/notes/1", http.NoBody))
			if rr.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rr.Code, tt.wantStatus)
			}
		})
	}
}

func TestGetNote_InvalidID_400(t *testing.T) {
	f := newTestServer(t)

	rr := f.do(httptest.NewRequest("GET", "/api/notes/abc", http.NoBody))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestCreateTag_Conflict_409(t *testing.T) {
	f := newTestServer(t)
	f.tags.createFn = func(_ context.Context, tag domain.Tag) (domain.Tag, error) {
		return domain.Tag{}, domain.ErrAlreadyExists
	}

	req := httptest.NewRequest("POST", "/api/tags/", strings.NewReader(`{"name":"work"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := f.do(req)

	if rr.Code != http.StatusConflict {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusConflict)
	}
}

func TestUpdateTag_IDFromPath(t *testing.T) {
	f := newTestServer(t)
	f.tags.updateFn = func(_ context.Context, tag domain.Tag) (domain.Tag, error) {
		if tag.ID != 5 {
			t.Errorf("id: got %d, want 5 from the path", tag.ID)
		}
		return tag, nil
	}

	req := httptest.NewRequest("PUT", "/api/tags/5", strings.NewReader(`{"id":99,"name":"work"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := f.do(req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rr.Code, rr.Body.String())
	}
	var updated domain.Tag
	if err := json.NewDecoder(rr.Body).Decode(&updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.Name != "work" {
		t.Errorf("updated: got %+v", updated)
	}
}

func TestUpdateTag_Conflict_409(t *testing.T) {
	f := newTestServer(t)
	f.tags.updateFn = func(context.Context, domain.Tag) (domain.Tag, error) {
		return domain.Tag{}, domain.ErrAlreadyExists
	}

	req := httptest.NewRequest("PUT", "/api/tags/5", strings.NewReader(`{"name":"work"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := f.do(req)

	if rr.Code != http.StatusConflict {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusConflict)
	}
}

func TestCreateTag_Created_201(t *testing.T) {
	f := newTestServer(t)
	f.tags.createFn = func(_ context.Context, tag domain.Tag) (domain.Tag, error) {
		tag.ID = 5
		return tag, nil
	}

	req := httptest.NewRequest("POST", "/api/tags/", strings.NewReader(`{"name":"work"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := f.do(req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, body %s", rr.Code, rr.Body.String())
	}
	var created domain.Tag
	if err := json.NewDecoder(rr.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID != 5 || created.Name != "work" {
		t.Errorf("created: got %+v", created)
	}
}
