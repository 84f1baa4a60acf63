package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/indiriim/go-notify-admin/apiclient"
	"github.com/indiriim/go-notify-admin/auth"
	errs "github.com/indiriim/go-notify-admin/internal/errors"
	"github.com/indiriim/go-notify-admin/roles"
	"github.com/indiriim/go-notify-admin/session"
	"github.com/indiriim/go-notify-admin/session/repofake"
)

type identityStub struct {
	refreshCalls atomic.Int32
	failRefresh  bool
	failLogout   bool
}

func (s *identityStub) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Email != "jane@example.com" || body.Password != "s3cret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"invalid email or password","errorCode":"INVALID_CREDENTIALS"}`))
			return
		}
		_, _ = w.Write([]byte(`{"token":"access-1","refreshToken":"refresh-1","user":{"id":7,"name":"Jane","email":"jane@example.com","role":"MARKETING_MANAGER"}}`))
	})
	mux.HandleFunc("POST /api/v1/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		s.refreshCalls.Add(1)
		if s.failRefresh {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"refresh token expired","errorCode":"TOKEN_EXPIRED"}`))
			return
		}
		_, _ = w.Write([]byte(`{"token":"access-2","refreshToken":"refresh-2","user":{"id":7,"name":"Jane","email":"jane@example.com","role":"MARKETING_MANAGER"}}`))
	})
	mux.HandleFunc("POST /api/v1/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		if s.failLogout {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

type testEnv struct {
	stub    *identityStub
	store   *session.Store
	service *auth.Service
}

func setup(t *testing.T) *testEnv {
	t.Helper()

	stub := &identityStub{}
	srv := httptest.NewServer(stub.handler())
	t.Cleanup(srv.Close)

	store, err := session.NewStore(repofake.NewFakeRepo())
	require.NoError(t, err)

	client, err := apiclient.New(srv.URL, store)
	require.NoError(t, err)

	service, err := auth.NewService(client, store, srv.URL)
	require.NoError(t, err)
	client.SetRefresher(service)

	return &testEnv{stub: stub, store: store, service: service}
}

func TestLoginMapsUserAndPersistsSession(t *testing.T) {
	env := setup(t)

	creds, err := env.service.Login(context.Background(), "jane@example.com", "s3cret")
	require.NoError(t, err)
	require.Equal(t, "access-1", creds.AccessToken)
	require.Equal(t, "refresh-1", creds.RefreshToken)
	require.Equal(t, session.User{ID: 7, Name: "Jane", Email: "jane@example.com", Role: roles.MarketingManager}, creds.User)

	sess := env.store.GetSession()
	require.NotNil(t, sess)
	require.Equal(t, creds.User, sess.User)
	require.Equal(t, "access-1", env.store.GetToken())
	require.Equal(t, "refresh-1", env.store.GetRefreshToken())
}

func TestLoginRejectionCarriesInvalidCredentialsCode(t *testing.T) {
	env := setup(t)

	_, err := env.service.Login(context.Background(), "jane@example.com", "wrong")
	require.Error(t, err)

	apiErr, ok := apiclient.AsAPIError(err)
	require.True(t, ok)
	require.True(t, apiErr.InvalidCredentials())
	require.Zero(t, env.stub.refreshCalls.Load(), "a login failure must not trigger refresh")
	require.Nil(t, env.store.GetSession())
}

func TestRefreshExchange(t *testing.T) {
	env := setup(t)

	creds, err := env.service.Refresh(context.Background(), "refresh-1")
	require.NoError(t, err)
	require.Equal(t, "access-2", creds.AccessToken)
	require.Equal(t, "refresh-2", creds.RefreshToken)
	require.Equal(t, roles.MarketingManager, creds.User.Role)

	// Refresh itself persists nothing.
	require.Empty(t, env.store.GetToken())
}

func TestRefreshRejectionIsAPIError(t *testing.T) {
	env := setup(t)
	env.stub.failRefresh = true

	_, err := env.service.Refresh(context.Background(), "stale")
	require.Error(t, err)
	apiErr, ok := apiclient.AsAPIError(err)
	require.True(t, ok)
	require.Equal(t, 401, apiErr.Status)
	require.Equal(t, apiclient.CodeTokenExpired, apiErr.ErrorCode)
}

func TestLogoutClearsLocallyEvenWhenServerFails(t *testing.T) {
	env := setup(t)
	env.stub.failLogout = true

	_, err := env.service.Login(context.Background(), "jane@example.com", "s3cret")
	require.NoError(t, err)

	require.NoError(t, env.service.Logout(context.Background()))
	require.Nil(t, env.store.GetSession())
	require.Empty(t, env.store.GetToken())
	require.Empty(t, env.store.GetRefreshToken())
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "7",
		"exp": exp.Unix(),
	})
	signed, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestBootstrapWithValidTokenSkipsNetwork(t *testing.T) {
	env := setup(t)

	user := session.User{ID: 7, Name: "Jane", Email: "jane@example.com", Role: roles.Admin}
	token := signedToken(t, time.Now().Add(time.Hour))
	require.NoError(t, env.store.SaveSession(user, session.WithTokens(token, "refresh-1")))

	sess, err := env.service.Bootstrap(context.Background())
	require.NoError(t, err)
	require.Equal(t, user, sess.User)
	require.Zero(t, env.stub.refreshCalls.Load())
}

func TestBootstrapRefreshesExpiredToken(t *testing.T) {
	env := setup(t)

	user := session.User{ID: 7, Name: "Jane", Email: "jane@example.com", Role: roles.Admin}
	token := signedToken(t, time.Now().Add(-time.Minute))
	require.NoError(t, env.store.SaveSession(user, session.WithTokens(token, "refresh-1")))

	sess, err := env.service.Bootstrap(context.Background())
	require.NoError(t, err)
	require.Equal(t, int32(1), env.stub.refreshCalls.Load())
	require.Equal(t, roles.MarketingManager, sess.User.Role)
	require.Equal(t, "access-2", env.store.GetToken())
	require.Equal(t, "refresh-2", env.store.GetRefreshToken())
}

func TestBootstrapWithNothingStored(t *testing.T) {
	env := setup(t)

	_, err := env.service.Bootstrap(context.Background())
	require.ErrorIs(t, err, errs.ErrNoSession)
}

func TestBootstrapClearsSessionWhenRefreshRejected(t *testing.T) {
	env := setup(t)
	env.stub.failRefresh = true

	user := session.User{ID: 7, Name: "Jane", Email: "jane@example.com", Role: roles.Admin}
	token := signedToken(t, time.Now().Add(-time.Minute))
	require.NoError(t, env.store.SaveSession(user, session.WithTokens(token, "refresh-1")))

	_, err := env.service.Bootstrap(context.Background())
	require.ErrorIs(t, err, errs.ErrSessionExpired)
	require.Nil(t, env.store.GetSession())
	require.Empty(t, env.store.GetRefreshToken())
}
