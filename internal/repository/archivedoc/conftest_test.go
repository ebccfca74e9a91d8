package archivedoc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arkiv-cloud/arkiv/internal/db"
	"github.com/arkiv-cloud/arkiv/internal/domain"
)

func newTestRepo(t *testing.T) (*Repo, *db.Store) {
	t.Helper()
	store, err := db.Open(db.Config{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(store.Close)
	require.NoError(t, store.Bootstrap(context.Background()))
	return New(store, zap.NewNop()), store
}

func mustCreateTag(t *testing.T, store *db.Store, name string) int64 {
	t.Helper()
	res, err := store.ExecContext(context.Background(),
		`INSERT INTO tags (name, description) VALUES (?, '')`, name)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func mustCreateUnit(t *testing.T, repo *Repo, title string) domain.ArchiveDocumentSearchResult {
	t.Helper()
	d, err := repo.Create(context.Background(), domain.ArchiveDocument{
		Type:        domain.ArchiveTypeUnit,
		Title:       title,
		OwnerUserID: 1,
	}, nil)
	require.NoError(t, err)
	return d
}

func mustCreateDocument(
	t *testing.T, repo *Repo, title string, parentID *int64, tagIDs ...int64,
) domain.ArchiveDocumentSearchResult {
	t.Helper()
	d, err := repo.Create(context.Background(), domain.ArchiveDocument{
		Type:                        domain.ArchiveTypeDocument,
		ParentUnitArchiveDocumentID: parentID,
		Title:                       title,
		Creator:                     "archivist",
		CreationDate:                "1923",
		OwnerUserID:                 1,
	}, tagIDs)
	require.NoError(t, err)
	return d
}
