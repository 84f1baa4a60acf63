// Package auth issues login, refresh, and logout calls against the
// identity endpoints and normalizes backend user payloads into the
// session's user shape.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/indiriim/go-notify-admin/apiclient"
	errs "github.com/indiriim/go-notify-admin/internal/errors"
	"github.com/indiriim/go-notify-admin/roles"
	"github.com/indiriim/go-notify-admin/session"
)

const (
	loginPath   = "/api/v1/auth/login"
	refreshPath = "/api/v1/auth/refresh"
	logoutPath  = "/api/v1/auth/logout"
)

// API is the authenticated request surface the service uses for login and
// logout. Satisfied by *apiclient.Client.
type API interface {
	Post(ctx context.Context, path string, body, out any) error
}

// Service talks to the identity backend. The refresh exchange deliberately
// uses its own bare HTTP client: a 401 on refresh must never recurse into
// the interceptor that called it.
type Service struct {
	api     API
	store   *session.Store
	baseURL string
	hc      *http.Client
	nowTime func() time.Time
	log     zerolog.Logger
}

var _ apiclient.Refresher = (*Service)(nil)

// ServiceOption modifies a Service instance.
type ServiceOption func(*Service)

// WithHTTPClient overrides the bare client used for the refresh exchange.
func WithHTTPClient(hc *http.Client) ServiceOption {
	return func(s *Service) { s.hc = hc }
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) { s.nowTime = nowFunc }
}

// WithLogger sets the service logger.
func WithLogger(log zerolog.Logger) ServiceOption {
	return func(s *Service) { s.log = log }
}

// NewService creates an auth service against the identity endpoints under
// baseURL.
func NewService(api API, store *session.Store, baseURL string, options ...ServiceOption) (*Service, error) {
	if api == nil {
		return nil, errs.Wrapf(errs.ErrUnavailable, "[auth.NewService] api is required")
	}
	if store == nil {
		return nil, errs.Wrapf(errs.ErrUnavailable, "[auth.NewService] store is required")
	}
	s := &Service{
		api:     api,
		store:   store,
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: 30 * time.Second},
		nowTime: time.Now,
		log:     zerolog.Nop(),
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// userPayload is the backend's user representation.
type userPayload struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type tokenResponse struct {
	Token        string      `json:"token"`
	RefreshToken string      `json:"refreshToken"`
	User         userPayload `json:"user"`
}

// mapUser normalizes the backend payload. The role value passes through
// verbatim; the backend is the source of truth for valid role tags.
func mapUser(p userPayload) session.User {
	return session.User{
		ID:    p.ID,
		Name:  p.Name,
		Email: p.Email,
		Role:  roles.Tag(p.Role),
	}
}

// Login authenticates and persists the resulting session. A rejected
// credential pair comes back as an *apiclient.APIError carrying
// INVALID_CREDENTIALS, which the caller surfaces inline.
func (s *Service) Login(ctx context.Context, email, password string) (apiclient.Credentials, error) {
	var resp tokenResponse
	if err := s.api.Post(ctx, loginPath, loginRequest{Email: email, Password: password}, &resp); err != nil {
		return apiclient.Credentials{}, errs.Wrapf(err, "[Service.Login]")
	}
	creds := apiclient.Credentials{
		AccessToken:  resp.Token,
		RefreshToken: resp.RefreshToken,
		User:         mapUser(resp.User),
	}
	if err := s.store.SaveSession(creds.User, session.WithTokens(creds.AccessToken, creds.RefreshToken)); err != nil {
		return apiclient.Credentials{}, errs.Wrapf(err, "[Service.Login] save session")
	}
	return creds, nil
}

// Refresh exchanges a refresh token for a new pair plus refreshed user
// data. It does not persist anything; the caller owns that decision.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (apiclient.Credentials, error) {
	payload, err := json.Marshal(refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return apiclient.Credentials{}, errs.Wrapf(err, "[Service.Refresh] marshal")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+refreshPath, bytes.NewReader(payload))
	if err != nil {
		return apiclient.Credentials{}, errs.Wrapf(err, "[Service.Refresh]")
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := s.hc.Do(req)
	if err != nil {
		return apiclient.Credentials{}, errs.Wrapf(err, "[Service.Refresh]")
	}
	defer func() { _ = httpResp.Body.Close() }()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return apiclient.Credentials{}, errs.Wrapf(err, "[Service.Refresh] read")
	}
	if httpResp.StatusCode >= 400 {
		return apiclient.Credentials{}, apiclient.ParseResponse(httpResp.StatusCode, raw)
	}

	var resp tokenResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return apiclient.Credentials{}, errs.Wrapf(err, "[Service.Refresh] decode")
	}
	return apiclient.Credentials{
		AccessToken:  resp.Token,
		RefreshToken: resp.RefreshToken,
		User:         mapUser(resp.User),
	}, nil
}

// Logout invalidates the refresh token server-side on a best-effort basis
// and always clears the local session; the local session is authoritative
// for whether this client is still signed in.
func (s *Service) Logout(ctx context.Context) error {
	if refreshToken := s.store.GetRefreshToken(); refreshToken != "" {
		if err := s.api.Post(ctx, logoutPath, logoutRequest{RefreshToken: refreshToken}, nil); err != nil {
			s.log.Warn().Err(err).Msg("server-side logout failed, clearing local session anyway")
		}
	}
	if err := s.store.ClearSession(); err != nil {
		return errs.Wrapf(err, "[Service.Logout]")
	}
	return nil
}
