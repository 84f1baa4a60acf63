package session

import (
	"encoding/json"
	"time"

	"github.com/indiriim/go-notify-admin/internal/errors"
)

// Store persists authentication state across restarts. Reads are
// non-failing: absence and unreadable storage both surface as "no value",
// never as an error or panic.
type Store struct {
	repo    Repo
	nowTime func() time.Time
}

// StoreOption modifies a Store instance.
type StoreOption func(*Store)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) StoreOption {
	return func(s *Store) {
		s.nowTime = nowFunc
	}
}

// NewStore creates a session store over the given storage repo.
func NewStore(repo Repo, options ...StoreOption) (*Store, error) {
	if repo == nil {
		return nil, errors.Wrapf(errors.ErrNoSession, "[NewStore] repo is required")
	}
	s := &Store{repo: repo, nowTime: time.Now}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// GetToken returns the stored access token, or "" when absent.
func (s *Store) GetToken() string {
	v, ok, err := s.repo.Get(TokenKey)
	if err != nil || !ok {
		return ""
	}
	return v
}

// GetRefreshToken returns the stored refresh token, or "" when absent.
func (s *Store) GetRefreshToken() string {
	v, ok, err := s.repo.Get(RefreshTokenKey)
	if err != nil || !ok {
		return ""
	}
	return v
}

// SetTokens stores a new access/refresh token pair.
func (s *Store) SetTokens(token, refreshToken string) error {
	if err := s.repo.Set(TokenKey, token); err != nil {
		return errors.Wrapf(err, "[SetTokens] access token")
	}
	if err := s.repo.Set(RefreshTokenKey, refreshToken); err != nil {
		return errors.Wrapf(err, "[SetTokens] refresh token")
	}
	return nil
}

// SaveOption adjusts what SaveSession writes alongside the session record.
type SaveOption func(*saveParams)

type saveParams struct {
	token        *string
	refreshToken *string
}

// WithTokens makes SaveSession replace the stored token pair as well.
// Without it existing tokens are left untouched, which is what the
// login-vs-refresh split relies on.
func WithTokens(token, refreshToken string) SaveOption {
	return func(p *saveParams) {
		p.token = &token
		p.refreshToken = &refreshToken
	}
}

// SaveSession writes the user with a fresh last-activity stamp,
// unconditionally replacing any prior session record.
func (s *Store) SaveSession(user User, options ...SaveOption) error {
	var params saveParams
	for _, opt := range options {
		opt(&params)
	}

	record := Data{User: user, LastActivityAt: s.nowTime().UnixMilli()}
	raw, err := json.Marshal(record)
	if err != nil {
		return errors.Wrapf(err, "[SaveSession] marshal")
	}
	if err := s.repo.Set(SessionKey, string(raw)); err != nil {
		return errors.Wrapf(err, "[SaveSession] session record")
	}
	if params.token != nil && params.refreshToken != nil {
		if err := s.SetTokens(*params.token, *params.refreshToken); err != nil {
			return errors.Wrapf(err, "[SaveSession] tokens")
		}
	}
	return nil
}

// GetSession reads the persisted session record. Malformed stored data is
// treated as absent and the corrupt entry is deleted, so a bad write can
// never wedge the client.
func (s *Store) GetSession() *Data {
	raw, ok, err := s.repo.Get(SessionKey)
	if err != nil || !ok {
		return nil
	}
	var record Data
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		_ = s.repo.Delete(SessionKey)
		return nil
	}
	return &record
}

// ClearSession removes the session record and both tokens. All three
// deletes are attempted even if one fails, so a partial failure cannot
// leave tokens behind a missing session.
func (s *Store) ClearSession() error {
	var firstErr error
	for _, key := range []string{SessionKey, TokenKey, RefreshTokenKey} {
		if err := s.repo.Delete(key); err != nil && firstErr == nil {
			firstErr = errors.Wrapf(err, "[ClearSession] delete %s", key)
		}
	}
	return firstErr
}
