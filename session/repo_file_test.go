package session_test

import (
	"path/filepath"
	"testing"

	"github.com/indiriim/go-notify-admin/session"
	"github.com/stretchr/testify/require"
)

func TestFileRepoRoundTrip(t *testing.T) {
	repo, err := session.NewFileRepo(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)

	_, ok, err := repo.Get("missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, repo.Set("k", "v1"))
	require.NoError(t, repo.Set("k", "v2"))

	v, ok, err := repo.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v2", v)

	require.NoError(t, repo.Delete("k"))
	require.NoError(t, repo.Delete("k"), "deleting an absent key is a no-op")

	_, ok, err = repo.Get("k")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestFileRepoSurvivesReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	repo, err := session.NewFileRepo(dir)
	require.NoError(t, err)
	require.NoError(t, repo.Set(session.TokenKey, "persisted"))

	reopened, err := session.NewFileRepo(dir)
	require.NoError(t, err)
	v, ok, err := reopened.Get(session.TokenKey)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "persisted", v)
}

func TestSQLiteRepoRoundTrip(t *testing.T) {
	repo, err := session.NewSQLiteRepo(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	_, ok, err := repo.Get("missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, repo.Set("k", "v1"))
	require.NoError(t, repo.Set("k", "v2"))

	v, ok, err := repo.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v2", v)

	require.NoError(t, repo.Delete("k"))
	_, ok, err = repo.Get("k")
	require.NoError(t, err)
	require.False(t, ok)
}
