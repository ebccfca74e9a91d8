package note

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/arkiv-cloud/arkiv/internal/domain"
	"github.com/arkiv-cloud/arkiv/internal/domain/search"
)

// Service handles note search and lifecycle.
type Service struct {
	repo   Repository
	audit  Auditor
	logger *zap.Logger
}

// New creates a note service. audit can be nil.
func New(repo Repository, audit Auditor, logger *zap.Logger) *Service {
	return &Service{repo: repo, audit: audit, logger: logger}
}

// Search returns one page of notes visible to the principal.
func (s *Service) Search(
	ctx context.Context, principalID int64, req search.Request,
) (search.Response[domain.NoteWithDetails], error) {
	return s.repo.Search(ctx, principalID, req)
}

// Get returns one visible note.
func (s *Service) Get(ctx context.Context, id, principalID int64) (domain.NoteWithDetails, error) {
	return s.repo.Get(ctx, id, principalID)
}

// Create stores a note owned by the principal.
func (s *Service) Create(
	ctx context.Context, principalID int64, n domain.Note, tagIDs []int64,
) (domain.NoteWithDetails, error) {
	n.OwnerUserID = principalID
	created, err := s.repo.Create(ctx, n, tagIDs)
	if err != nil {
		return domain.NoteWithDetails{}, err
	}
	s.recordAudit(ctx, principalID, fmt.Sprintf("note %d created", created.ID))
	return created, nil
}

// Update rewrites an owned note.
func (s *Service) Update(
	ctx context.Context, principalID int64, n domain.Note, tagIDs []int64,
) (domain.NoteWithDetails, error) {
	updated, err := s.repo.Update(ctx, n, tagIDs, principalID)
	if err != nil {
		return domain.NoteWithDetails{}, err
	}
	s.recordAudit(ctx, principalID, fmt.Sprintf("note %d updated", updated.ID))
	return updated, nil
}

// Delete removes an owned note.
func (s *Service) Delete(ctx context.Context, principalID, id int64) error {
	if err := s.repo.Delete(ctx, id, principalID); err != nil {
		return err
	}
	s.recordAudit(ctx, principalID, fmt.Sprintf("note %d deleted", id))
	return nil
}

// recordAudit appends an audit entry; failures are logged, never surfaced.
func (s *Service) recordAudit(ctx context.Context, principalID int64, message string) {
	if s.audit == nil {
		return
	}
	err := s.audit.Insert(ctx, domain.LogEntry{
		Level:    "info",
		Category: "notes",
		UserID:   &principalID,
		Message:  message,
	})
	if err != nil {
		s.logger.Warn("audit entry not recorded", zap.Error(err))
	}
}
