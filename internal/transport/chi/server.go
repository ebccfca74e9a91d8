package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/arkiv-cloud/arkiv/internal/domain"
	"github.com/arkiv-cloud/arkiv/internal/domain/search"
	archiveuc "github.com/arkiv-cloud/arkiv/internal/usecase/archivedoc"
	componentuc "github.com/arkiv-cloud/arkiv/internal/usecase/component"
	elementuc "github.com/arkiv-cloud/arkiv/internal/usecase/element"
	healthuc "github.com/arkiv-cloud/arkiv/internal/usecase/health"
	loguc "github.com/arkiv-cloud/arkiv/internal/usecase/logentry"
	noteuc "github.com/arkiv-cloud/arkiv/internal/usecase/note"
	taguc "github.com/arkiv-cloud/arkiv/internal/usecase/tag"
)

// Principal resolution headers. Session handling lives in front of this
// service; it forwards the authenticated user here.
const (
	headerUserID   = "X-User-Id"
	headerUserRole = "X-User-Role"
)

// Server wires the entity services into HTTP handlers.
type Server struct {
	notes      *noteuc.Service
	archive    *archiveuc.Service
	elements   *elementuc.Service
	components *componentuc.Service
	tags       *taguc.Service
	logs       *loguc.Service
	health     *healthuc.Service
	logger     *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	notes *noteuc.Service,
	archive *archiveuc.Service,
	elements *elementuc.Service,
	components *componentuc.Service,
	tags *taguc.Service,
	logs *loguc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	return &Server{
		notes:      notes,
		archive:    archive,
		elements:   elements,
		components: components,
		tags:       tags,
		logs:       logs,
		health:     health,
		logger:     logger,
	}
}

// Routes mounts all API routes on the router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.Health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/notes", func(r chi.Router) {
			r.Post("/search", s.SearchNotes)
			r.Post("/", s.CreateNote)
			r.Get("/{id}", s.GetNote)
			r.Put("/{id}", s.UpdateNote)
			r.Delete("/{id}", s.DeleteNote)
		})
		r.Route("/archive/documents", func(r chi.Router) {
			r.Post("/search", s.SearchArchiveDocuments)
			r.Post("/", s.CreateArchiveDocument)
			r.Get("/{id}", s.GetArchiveDocument)
			r.Put("/{id}", s.UpdateArchiveDocument)
			r.Delete("/{id}", s.DeactivateArchiveDocument)
		})
		r.Route("/signature", func(r chi.Router) {
			r.Post("/elements/search", s.SearchSignatureElements)
			r.Post("/elements", s.CreateSignatureElement)
			r.Get("/elements/{id}", s.GetSignatureElement)
			r.Put("/elements/{id}", s.UpdateSignatureElement)
			r.Delete("/elements/{id}", s.DeleteSignatureElement)
			r.Get("/components", s.ListSignatureComponents)
			r.Post("/components", s.CreateSignatureComponent)
			r.Put("/components/{id}", s.UpdateSignatureComponent)
			r.Delete("/components/{id}", s.DeleteSignatureComponent)
			r.Get("/components/{id}/elements", s.ListComponentElements)
			r.Post("/components/{id}/reindex", s.ReindexSignatureComponent)
		})
		r.Route("/tags", func(r chi.Router) {
			r.Get("/", s.ListTags)
			r.Post("/", s.CreateTag)
			r.Put("/{id}", s.UpdateTag)
			r.Delete("/{id}", s.DeleteTag)
		})
		r.Post("/logs/search", s.SearchLogs)
	})
}

// --- Search endpoints ---

// SearchNotes handles POST /api/notes/search.
func (s *Server) SearchNotes(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeSearchRequest(w, r)
	if !ok {
		return
	}
	resp, err := s.notes.Search(r.Context(), principalID(r), req)
	if err != nil {
		s.searchFailed(w, "notes", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// SearchArchiveDocuments handles POST /api/archive/documents/search.
func (s *Server) SearchArchiveDocuments(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeSearchRequest(w, r)
	if !ok {
		return
	}
	resp, err := s.archive.Search(r.Context(), req, isAdmin(r))
	if err != nil {
		s.searchFailed(w, "archive documents", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// SearchSignatureElements handles POST /api/signature/elements/search.
func (s *Server) SearchSignatureElements(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeSearchRequest(w, r)
	if !ok {
		return
	}
	resp, err := s.elements.Search(r.Context(), req)
	if err != nil {
		s.searchFailed(w, "signature elements", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// SearchLogs handles POST /api/logs/search. Admin only.
func (s *Server) SearchLogs(w http.ResponseWriter, r *http.Request) {
	if !isAdmin(r) {
		writeError(w, http.StatusForbidden, "admin role required")
		return
	}
	req, ok := s.decodeSearchRequest(w, r)
	if !ok {
		return
	}
	resp, err := s.logs.Search(r.Context(), req)
	if err != nil {
		s.searchFailed(w, "logs", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- Notes CRUD ---

type notePayload struct {
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Shared  bool    `json:"shared"`
	TagIDs  []int64 `json:"tagIds"`
}

// CreateNote handles POST /api/notes.
func (s *Server) CreateNote(w http.ResponseWriter, r *http.Request) {
	var p notePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	created, err := s.notes.Create(r.Context(), principalID(r),
		domain.Note{Title: p.Title, Content: p.Content, Shared: p.Shared}, p.TagIDs)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// GetNote handles GET /api/notes/{id}.
func (s *Server) GetNote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	n, err := s.notes.Get(r.Context(), id, principalID(r))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// UpdateNote handles PUT /api/notes/{id}.
func (s *Server) UpdateNote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var p notePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	updated, err := s.notes.Update(r.Context(), principalID(r),
		domain.Note{ID: id, Title: p.Title, Content: p.Content, Shared: p.Shared}, p.TagIDs)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteNote handles DELETE /api/notes/{id}.
func (s *Server) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.notes.Delete(r.Context(), principalID(r), id); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Archive documents ---

type archiveDocumentPayload struct {
	Type                        string  `json:"type"`
	ParentUnitArchiveDocumentID *int64  `json:"parentUnitArchiveDocumentId"`
	Title                       string  `json:"title"`
	Creator                     string  `json:"creator"`
	CreationDate                string  `json:"creationDate"`
	NumberOfPages               *int64  `json:"numberOfPages"`
	ContentDescription          string  `json:"contentDescription"`
	IsDigitized                 bool    `json:"isDigitized"`
	TagIDs                      []int64 `json:"tagIds"`
}

// CreateArchiveDocument handles POST /api/archive/documents.
func (s *Server) CreateArchiveDocument(w http.ResponseWriter, r *http.Request) {
	var p archiveDocumentPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	created, err := s.archive.Create(r.Context(), principalID(r), domain.ArchiveDocument{
		Type:                        p.Type,
		ParentUnitArchiveDocumentID: p.ParentUnitArchiveDocumentID,
		Title:                       p.Title,
		Creator:                     p.Creator,
		CreationDate:                p.CreationDate,
		NumberOfPages:               p.NumberOfPages,
		ContentDescription:          p.ContentDescription,
		IsDigitized:                 p.IsDigitized,
	}, p.TagIDs)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// GetArchiveDocument handles GET /api/archive/documents/{id}.
func (s *Server) GetArchiveDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	doc, err := s.archive.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// UpdateArchiveDocument handles PUT /api/archive/documents/{id}.
func (s *Server) UpdateArchiveDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var p archiveDocumentPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	updated, err := s.archive.Update(r.Context(), principalID(r), domain.ArchiveDocument{
		ID:                          id,
		Type:                        p.Type,
		ParentUnitArchiveDocumentID: p.ParentUnitArchiveDocumentID,
		Title:                       p.Title,
		Creator:                     p.Creator,
		CreationDate:                p.CreationDate,
		NumberOfPages:               p.NumberOfPages,
		ContentDescription:          p.ContentDescription,
		IsDigitized:                 p.IsDigitized,
	}, p.TagIDs)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeactivateArchiveDocument handles DELETE /api/archive/documents/{id}.
func (s *Server) DeactivateArchiveDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.archive.Deactivate(r.Context(), principalID(r), id); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Signature elements and components ---

type elementPayload struct {
	SignatureComponentID int64   `json:"signatureComponentId"`
	Name                 string  `json:"name"`
	Description          string  `json:"description"`
	Index                string  `json:"index"`
	ParentIDs            []int64 `json:"parentIds"`
}

// CreateSignatureElement handles POST /api/signature/elements.
func (s *Server) CreateSignatureElement(w http.ResponseWriter, r *http.Request) {
	var p elementPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	created, err := s.elements.Create(r.Context(), domain.SignatureElement{
		SignatureComponentID: p.SignatureComponentID,
		Name:                 p.Name,
		Description:          p.Description,
		ElementIndex:         p.Index,
	}, p.ParentIDs)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

type elementDetails struct {
	domain.SignatureElementSearchResult
	ParentIDs []int64 `json:"parentIds"`
}

// GetSignatureElement handles GET /api/signature/elements/{id}.
func (s *Server) GetSignatureElement(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	e, parents, err := s.elements.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if parents == nil {
		parents = []int64{}
	}
	writeJSON(w, http.StatusOK, elementDetails{SignatureElementSearchResult: e, ParentIDs: parents})
}

// UpdateSignatureElement handles PUT /api/signature/elements/{id}.
func (s *Server) UpdateSignatureElement(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var p elementPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	updated, err := s.elements.Update(r.Context(), domain.SignatureElement{
		ID:           id,
		Name:         p.Name,
		Description:  p.Description,
		ElementIndex: p.Index,
	}, p.ParentIDs)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteSignatureElement handles DELETE /api/signature/elements/{id}.
func (s *Server) DeleteSignatureElement(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.elements.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListSignatureComponents handles GET /api/signature/components.
func (s *Server) ListSignatureComponents(w http.ResponseWriter, r *http.Request) {
	components, err := s.components.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, components)
}

// CreateSignatureComponent handles POST /api/signature/components.
func (s *Server) CreateSignatureComponent(w http.ResponseWriter, r *http.Request) {
	var p domain.SignatureComponent
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	created, err := s.components.Create(r.Context(), p)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateSignatureComponent handles PUT /api/signature/components/{id}.
func (s *Server) UpdateSignatureComponent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var p domain.SignatureComponent
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	p.ID = id
	updated, err := s.components.Update(r.Context(), p)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteSignatureComponent handles DELETE /api/signature/components/{id}.
// The component's elements go with it.
func (s *Server) DeleteSignatureComponent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.components.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListComponentElements handles GET /api/signature/components/{id}/elements,
// returning the component's full unpaged element set.
func (s *Server) ListComponentElements(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	elements, err := s.elements.ByComponent(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, elements)
}

type reindexResponse struct {
	Message    string `json:"message"`
	FinalCount int    `json:"finalCount"`
}

// ReindexSignatureComponent handles POST /api/signature/components/{id}/reindex.
func (s *Server) ReindexSignatureComponent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	count, err := s.elements.ReindexComponent(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reindexResponse{
		Message:    fmt.Sprintf("reindexed %d elements", count),
		FinalCount: count,
	})
}

// --- Tags ---

// ListTags handles GET /api/tags.
func (s *Server) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.tags.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

// CreateTag handles POST /api/tags.
func (s *Server) CreateTag(w http.ResponseWriter, r *http.Request) {
	var p domain.Tag
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	created, err := s.tags.Create(r.Context(), p)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateTag handles PUT /api/tags/{id}.
func (s *Server) UpdateTag(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var p domain.Tag
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	p.ID = id
	updated, err := s.tags.Update(r.Context(), p)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteTag handles DELETE /api/tags/{id}.
func (s *Server) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.tags.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Health ---

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())
	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// --- Helpers ---

// decodeSearchRequest parses a search payload. Malformed criteria inside a
// valid payload are the engine's concern; only undecodable JSON is rejected
// here.
func (s *Server) decodeSearchRequest(w http.ResponseWriter, r *http.Request) (search.Request, bool) {
	var req search.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid search request: "+err.Error())
		return search.Request{}, false
	}
	if req.Page < 1 {
		req.Page = 1
	}
	return req, true
}

// searchFailed hides store diagnostics from clients; the wrapped SQL and
// parameters go to the server log only.
func (s *Server) searchFailed(w http.ResponseWriter, what string, err error) {
	s.logger.Error("search failed", zap.String("entity", what), zap.Error(err))
	writeError(w, http.StatusInternalServerError, "search failed")
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "already exists")
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func principalID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(r.Header.Get(headerUserID), 10, 64)
	return id
}

func isAdmin(r *http.Request) bool {
	return r.Header.Get(headerUserRole) == "admin"
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Message: message})
}
