package session_test

import (
	"testing"
	"time"

	"github.com/indiriim/go-notify-admin/roles"
	"github.com/indiriim/go-notify-admin/session"
	"github.com/indiriim/go-notify-admin/session/repofake"
	"github.com/stretchr/testify/require"
)

var testUser = session.User{
	ID:    42,
	Name:  "Jane Doe",
	Email: "jane@example.com",
	Role:  roles.MarketingManager,
}

func newTestStore(t *testing.T) (*session.Store, *repofake.FakeRepo) {
	t.Helper()
	repo := repofake.NewFakeRepo()
	store, err := session.NewStore(repo, session.WithNowTime(func() time.Time {
		return time.UnixMilli(1700000000000)
	}))
	require.NoError(t, err)
	return store, repo
}

func TestSaveAndGetSession(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.SaveSession(testUser, session.WithTokens("access-1", "refresh-1")))

	got := store.GetSession()
	require.NotNil(t, got)
	require.Equal(t, testUser, got.User)
	require.Equal(t, int64(1700000000000), got.LastActivityAt)
	require.Equal(t, "access-1", store.GetToken())
	require.Equal(t, "refresh-1", store.GetRefreshToken())
}

func TestSaveSessionWithoutTokensPreservesStoredTokens(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.SaveSession(testUser, session.WithTokens("access-1", "refresh-1")))
	require.NoError(t, store.SaveSession(testUser))

	require.Equal(t, "access-1", store.GetToken())
	require.Equal(t, "refresh-1", store.GetRefreshToken())
}

func TestClearSessionRemovesAllEntries(t *testing.T) {
	store, repo := newTestStore(t)

	require.NoError(t, store.SaveSession(testUser, session.WithTokens("access-1", "refresh-1")))
	require.NoError(t, store.ClearSession())

	require.Empty(t, store.GetToken())
	require.Empty(t, store.GetRefreshToken())
	require.Nil(t, store.GetSession())
	require.Zero(t, repo.Len())
}

func TestGetSessionSelfHealsOnMalformedRecord(t *testing.T) {
	store, repo := newTestStore(t)

	require.NoError(t, repo.Set(session.SessionKey, "{not-json"))

	require.Nil(t, store.GetSession())

	_, present, err := repo.Get(session.SessionKey)
	require.NoError(t, err)
	require.False(t, present, "corrupt entry should have been deleted")
}

func TestRefreshTokenReadableWithoutSessionRecord(t *testing.T) {
	store, repo := newTestStore(t)

	require.NoError(t, repo.Set(session.RefreshTokenKey, "refresh-only"))

	require.Nil(t, store.GetSession())
	require.Equal(t, "refresh-only", store.GetRefreshToken())
}

func TestAbsentReadsReturnEmpty(t *testing.T) {
	store, _ := newTestStore(t)

	require.Empty(t, store.GetToken())
	require.Empty(t, store.GetRefreshToken())
	require.Nil(t, store.GetSession())
}
