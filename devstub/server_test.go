package devstub_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/indiriim/go-notify-admin/apiclient"
	"github.com/indiriim/go-notify-admin/auth"
	"github.com/indiriim/go-notify-admin/broadcast"
	"github.com/indiriim/go-notify-admin/devstub"
	"github.com/indiriim/go-notify-admin/platform"
	"github.com/indiriim/go-notify-admin/roles"
	"github.com/indiriim/go-notify-admin/session"
	"github.com/indiriim/go-notify-admin/session/repofake"
)

type env struct {
	srv      *httptest.Server
	store    *session.Store
	bus      *broadcast.Broadcaster
	authSvc  *auth.Service
	platform *platform.Service
}

func setup(t *testing.T) *env {
	t.Helper()

	stub := devstub.New(devstub.Options{})
	srv := httptest.NewServer(stub.Handler())
	t.Cleanup(srv.Close)

	store, err := session.NewStore(repofake.NewFakeRepo())
	require.NoError(t, err)

	bus := broadcast.New()
	client, err := apiclient.New(srv.URL, store, apiclient.WithBroadcaster(bus))
	require.NoError(t, err)

	authSvc, err := auth.NewService(client, store, srv.URL)
	require.NoError(t, err)
	client.SetRefresher(authSvc)

	platformSvc, err := platform.NewService(client)
	require.NoError(t, err)

	return &env{srv: srv, store: store, bus: bus, authSvc: authSvc, platform: platformSvc}
}

func TestLoginAndBrowseResources(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	creds, err := e.authSvc.Login(ctx, "manager@indiriim.com", "manager123")
	require.NoError(t, err)
	require.Equal(t, roles.MarketingManager, creds.User.Role)

	summary, err := e.platform.FetchDashboardSummary(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), summary.DraftCount)
	require.Equal(t, int64(1), summary.ScheduledCount)
	require.Equal(t, int64(1), summary.SentCount)

	segments, err := e.platform.ListSegments(ctx)
	require.NoError(t, err)
	require.Len(t, segments, 3)

	drafts, err := e.platform.ListNotifications(ctx, platform.NotificationListParams{Status: platform.StatusDraft})
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	require.Equal(t, "Weekend flash sale", drafts[0].Name)

	// Asking for a page flips the response to the paged envelope; the
	// client must decode both.
	paged, err := e.platform.ListNotifications(ctx, platform.NotificationListParams{Page: 1, Size: 10})
	require.NoError(t, err)
	require.Len(t, paged, 3)
}

func TestWrongPasswordIsInvalidCredentials(t *testing.T) {
	e := setup(t)

	_, err := e.authSvc.Login(context.Background(), "manager@indiriim.com", "nope")
	require.Error(t, err)
	apiErr, ok := apiclient.AsAPIError(err)
	require.True(t, ok)
	require.True(t, apiErr.InvalidCredentials())
}

func TestExpiredAccessTokenIsRefreshedTransparently(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	_, err := e.authSvc.Login(ctx, "staff@indiriim.com", "staff123")
	require.NoError(t, err)

	// Simulate an access token the backend no longer accepts.
	require.NoError(t, e.store.SetTokens("garbage", e.store.GetRefreshToken()))

	templates, err := e.platform.ListTemplates(ctx)
	require.NoError(t, err, "the 401 must be recovered through a silent refresh")
	require.Len(t, templates, 3)
	require.NotEqual(t, "garbage", e.store.GetToken())
}

func TestRefreshTokenRotationRejectsReplay(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	_, err := e.authSvc.Login(ctx, "admin@indiriim.com", "admin123")
	require.NoError(t, err)
	firstRefresh := e.store.GetRefreshToken()

	_, err = e.authSvc.Refresh(ctx, firstRefresh)
	require.NoError(t, err)

	_, err = e.authSvc.Refresh(ctx, firstRefresh)
	require.Error(t, err, "a rotated refresh token is single use")
	apiErr, ok := apiclient.AsAPIError(err)
	require.True(t, ok)
	require.Equal(t, apiclient.CodeTokenExpired, apiErr.ErrorCode)
}

func TestReadOnlyRoleGetsForbiddenOnWrite(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	_, err := e.authSvc.Login(ctx, "viewer@indiriim.com", "viewer123")
	require.NoError(t, err)

	var events []broadcast.Event
	e.bus.Subscribe(func(ev broadcast.Event) { events = append(events, ev) })

	_, err = e.platform.CreateSegment(ctx, platform.SegmentRequest{Name: "Blocked"})
	require.Error(t, err)
	apiErr, ok := apiclient.AsAPIError(err)
	require.True(t, ok)
	require.Equal(t, 403, apiErr.Status)

	require.Len(t, events, 1, "forbidden failures surface as notifications")
	require.NotNil(t, e.store.GetSession(), "user stays logged in")
}

func TestStaffCanWriteButNotManage(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	_, err := e.authSvc.Login(ctx, "staff@indiriim.com", "staff123")
	require.NoError(t, err)

	created, err := e.platform.CreateTemplate(ctx, platform.TemplateRequest{
		Name: "Autumn teaser", Type: platform.TemplateEmail, Subject: "Coming soon", IsActive: true,
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	err = e.platform.DeleteTemplate(ctx, created.ID)
	require.Error(t, err, "delete requires a manage role")
	apiErr, ok := apiclient.AsAPIError(err)
	require.True(t, ok)
	require.Equal(t, 403, apiErr.Status)
}

func TestManagerUpdatesSettings(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	_, err := e.authSvc.Login(ctx, "manager@indiriim.com", "manager123")
	require.NoError(t, err)

	settings, err := e.platform.FetchSettings(ctx)
	require.NoError(t, err)
	settings.Distribution.RetryCount = 5

	updated, err := e.platform.UpdateSettings(ctx, settings)
	require.NoError(t, err)
	require.Equal(t, 5, updated.Distribution.RetryCount)
}

func TestLogoutInvalidatesRefreshGrant(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	_, err := e.authSvc.Login(ctx, "admin@indiriim.com", "admin123")
	require.NoError(t, err)
	refreshToken := e.store.GetRefreshToken()

	require.NoError(t, e.authSvc.Logout(ctx))
	require.Nil(t, e.store.GetSession())

	// The grant is gone server-side too.
	body, _ := json.Marshal(map[string]string{"refreshToken": refreshToken})
	resp, err := http.Post(e.srv.URL+"/api/v1/auth/refresh", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
