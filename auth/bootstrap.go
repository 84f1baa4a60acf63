package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	errs "github.com/indiriim/go-notify-admin/internal/errors"
	"github.com/indiriim/go-notify-admin/session"
)

// How close to expiry a stored access token may be before start-up prefers
// a silent refresh over using it.
const expiryMargin = 30 * time.Second

// Bootstrap restores the persisted session at start-up. A session whose
// access token is still comfortably valid is returned without any network
// traffic; otherwise a silent refresh runs, and on failure the stale
// session is cleared.
func (s *Service) Bootstrap(ctx context.Context) (*session.Data, error) {
	sess := s.store.GetSession()
	token := s.store.GetToken()
	refreshToken := s.store.GetRefreshToken()

	if sess == nil && token == "" && refreshToken == "" {
		return nil, errs.ErrNoSession
	}

	if sess != nil && token != "" && !s.tokenNeedsRefresh(token) {
		return sess, nil
	}

	if refreshToken == "" {
		_ = s.store.ClearSession()
		return nil, errs.ErrSessionExpired
	}

	creds, err := s.Refresh(ctx, refreshToken)
	if err != nil {
		_ = s.store.ClearSession()
		return nil, errs.Wrapf(errs.ErrSessionExpired, "[Service.Bootstrap] refresh rejected (%v)", err)
	}
	if err := s.store.SaveSession(creds.User, session.WithTokens(creds.AccessToken, creds.RefreshToken)); err != nil {
		return nil, errs.Wrapf(err, "[Service.Bootstrap] save session")
	}
	return s.store.GetSession(), nil
}

// tokenNeedsRefresh reads the token's exp claim without verifying the
// signature; only the backend can verify, the client just schedules.
// Unreadable tokens count as expired, tokens without exp as valid.
func (s *Service) tokenNeedsRefresh(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !s.nowTime().Before(exp.Add(-expiryMargin))
}
