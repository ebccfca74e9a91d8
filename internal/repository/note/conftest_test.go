package note

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

func mustCreateNote(t *testing.T, repo *Repo, owner int64, title string, shared bool, tagIDs ...int64) domain.NoteWithDetails {
	t.Helper()
	n, err := repo.Create(context.Background(), domain.Note{
		Title:       title,
		Content:     "content of " + title,
		Shared:      shared,
		OwnerUserID: owner,
	}, tagIDs)
	require.NoError(t, err)
	return n
}
