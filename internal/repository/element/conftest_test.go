package element

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

func mustCreateComponent(t *testing.T, store *db.Store, name string) int64 {
	t.Helper()
	res, err := store.ExecContext(context.Background(),
		`INSERT INTO signature_components (name, indexType) VALUES (?, 'roman')`, name)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func mustCreateElement(
	t *testing.T, repo *Repo, componentID int64, name, index string, parentIDs ...int64,
) domain.SignatureElementSearchResult {
	t.Helper()
	e, err := repo.Create(context.Background(), domain.SignatureElement{
		SignatureComponentID: componentID,
		Name:                 name,
		ElementIndex:         index,
	}, parentIDs)
	require.NoError(t, err)
	return e
}
