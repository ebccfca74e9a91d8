package archivedoc

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/arkiv-cloud/arkiv/internal/domain"
	"github.com/arkiv-cloud/arkiv/internal/domain/search"
)

// Service handles archive document search and lifecycle.
type Service struct {
	repo   Repository
	audit  Auditor
	logger *zap.Logger
}

// New creates an archive document service. audit can be nil.
func New(repo Repository, audit Auditor, logger *zap.Logger) *Service {
	return &Service{repo: repo, audit: audit, logger: logger}
}

// Search returns one page of documents. Admins see soft-deleted rows too.
func (s *Service) Search(
	ctx context.Context, req search.Request, isAdmin bool,
) (search.Response[domain.ArchiveDocumentSearchResult], error) {
	return s.repo.Search(ctx, req, isAdmin)
}

// Get returns one document.
func (s *Service) Get(ctx context.Context, id int64) (domain.ArchiveDocumentSearchResult, error) {
	return s.repo.Get(ctx, id)
}

// Create stores a document or unit owned by the principal.
func (s *Service) Create(
	ctx context.Context, principalID int64, d domain.ArchiveDocument, tagIDs []int64,
) (domain.ArchiveDocumentSearchResult, error) {
	d.OwnerUserID = principalID
	created, err := s.repo.Create(ctx, d, tagIDs)
	if err != nil {
		return domain.ArchiveDocumentSearchResult{}, err
	}
	s.recordAudit(ctx, principalID, fmt.Sprintf("archive document %d created", created.ID))
	return created, nil
}

// Update rewrites a document's fields and tag set.
func (s *Service) Update(
	ctx context.Context, principalID int64, d domain.ArchiveDocument, tagIDs []int64,
) (domain.ArchiveDocumentSearchResult, error) {
	updated, err := s.repo.Update(ctx, d, tagIDs)
	if err != nil {
		return domain.ArchiveDocumentSearchResult{}, err
	}
	s.recordAudit(ctx, principalID, fmt.Sprintf("archive document %d updated", updated.ID))
	return updated, nil
}

// Deactivate soft-deletes a document.
func (s *Service) Deactivate(ctx context.Context, principalID, id int64) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}
	s.recordAudit(ctx, principalID, fmt.Sprintf("archive document %d deactivated", id))
	return nil
}

func (s *Service) recordAudit(ctx context.Context, principalID int64, message string) {
	if s.audit == nil {
		return
	}
	err := s.audit.Insert(ctx, domain.LogEntry{
		Level:    "info",
		Category: "archive",
		UserID:   &principalID,
		Message:  message,
	})
	if err != nil {
		s.logger.Warn("audit entry not recorded", zap.Error(err))
	}
}
