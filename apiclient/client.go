// Package apiclient wraps outbound platform requests: it attaches the
// current bearer token, detects authorization failures and recovers through
// a single coordinated refresh exchange, replaying queued requests once the
// exchange resolves.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/indiriim/go-notify-admin/broadcast"
	"github.com/indiriim/go-notify-admin/internal/errors"
	"github.com/indiriim/go-notify-admin/session"
)

// Credentials is the outcome of a successful login or refresh exchange.
type Credentials struct {
	AccessToken  string
	RefreshToken string
	User         session.User
}

// Refresher exchanges a refresh token for fresh credentials. Implemented by
// the auth service; injected here so the client never issues identity calls
// through its own interceptor.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (Credentials, error)
}

type refreshOutcome struct {
	token string
	err   error
}

// Client is the authenticated HTTP client for the platform API. Safe for
// concurrent use; the refresh coordination below is its only shared state.
type Client struct {
	baseURL          string
	httpClient       *http.Client
	store            *session.Store
	bus              *broadcast.Broadcaster
	refresher        Refresher
	onSessionExpired func()
	log              zerolog.Logger

	// At most one refresh exchange may be in flight process-wide. Requests
	// failing authorization while one is outstanding park here in arrival
	// order and are released with the exchange's outcome.
	lock       sync.Mutex
	refreshing bool
	waiters    []chan refreshOutcome
}

// Option modifies a Client instance.
type Option func(*Client)

// WithHTTPClient overrides the underlying transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBroadcaster sets the channel failures are surfaced on.
func WithBroadcaster(b *broadcast.Broadcaster) Option {
	return func(c *Client) { c.bus = b }
}

// WithRefresher sets the refresh-exchange implementation.
func WithRefresher(r Refresher) Option {
	return func(c *Client) { c.refresher = r }
}

// WithSessionExpiredFunc sets the hook run when the session becomes
// unrecoverable, the CLI analogue of redirecting to the login page.
func WithSessionExpiredFunc(fn func()) Option {
	return func(c *Client) { c.onSessionExpired = fn }
}

// WithLogger sets the client logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New creates a Client rooted at baseURL, reading and writing auth state
// through store.
func New(baseURL string, store *session.Store, options ...Option) (*Client, error) {
	if store == nil {
		return nil, errors.Wrapf(errors.ErrNoSession, "[apiclient.New] store is required")
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		store:      store,
		bus:        broadcast.New(),
		log:        zerolog.Nop(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// SetRefresher wires the refresh implementation after construction. The
// auth service needs the client for login/logout, so the two are built
// first and connected here.
func (c *Client) SetRefresher(r Refresher) {
	c.refresher = r
}

// Broadcaster exposes the failure event channel for display code.
func (c *Client) Broadcaster() *broadcast.Broadcaster {
	return c.bus
}

// Get issues an authenticated GET and decodes the response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post issues an authenticated POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Put issues an authenticated PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

// Delete issues an authenticated DELETE.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// Do issues one request. A missing access token is not an error: the login
// endpoint itself goes through this path unauthenticated.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return errors.Wrapf(err, "[Client.Do] marshal body for %s %s", method, path)
		}
		payload = raw
	}
	return c.send(ctx, method, path, payload, out, c.store.GetToken(), false)
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte, out any, token string, retried bool) error {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return errors.Wrapf(err, "[Client.send] %s %s", method, path)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.New().String())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == nil {
			c.bus.Publish(broadcast.Event{Message: MsgNetwork})
		}
		return errors.Wrapf(err, "[Client.send] %s %s", method, path)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "[Client.send] read %s %s", method, path)
	}

	if resp.StatusCode < 400 {
		if out != nil && len(raw) > 0 {
			if err := json.Unmarshal(raw, out); err != nil {
				return errors.Wrapf(err, "[Client.send] decode %s %s", method, path)
			}
		}
		return nil
	}

	apiErr := ParseResponse(resp.StatusCode, raw)
	switch {
	case apiErr.Status == 401:
		return c.recoverUnauthorized(ctx, method, path, payload, out, retried, apiErr)
	case apiErr.Status == 403:
		c.bus.Publish(broadcast.Event{Message: UserMessage(apiErr), ErrorCode: apiErr.ErrorCode})
	case apiErr.Status >= 500:
		c.bus.Publish(broadcast.Event{Message: UserMessage(apiErr), ErrorCode: apiErr.ErrorCode})
	}
	return apiErr
}

// recoverUnauthorized implements the 401 recovery path: refresh once
// through the single process-wide exchange, then resubmit. A request is
// retried at most once, and a rejected login is propagated untouched.
func (c *Client) recoverUnauthorized(ctx context.Context, method, path string, payload []byte, out any, retried bool, apiErr *APIError) error {
	if retried || apiErr.InvalidCredentials() {
		return apiErr
	}

	refreshToken := c.store.GetRefreshToken()
	if refreshToken == "" {
		c.log.Debug().Str("path", path).Msg("401 with no refresh token, session unrecoverable")
		c.expireSession()
		return apiErr
	}

	token, leader, refreshErr := c.refreshOrWait(ctx, refreshToken)
	if refreshErr != nil {
		if leader {
			// The initiating request reports the exchange failure itself.
			return errors.Wrapf(refreshErr, "[Client] refresh exchange")
		}
		if ctx.Err() != nil {
			return refreshErr
		}
		// Queued waiters propagate their own original failure.
		return apiErr
	}
	return c.send(ctx, method, path, payload, out, token, true)
}

// refreshOrWait either joins an in-flight refresh exchange or becomes its
// leader. Waiters are released in arrival order with the single outcome.
func (c *Client) refreshOrWait(ctx context.Context, refreshToken string) (string, bool, error) {
	c.lock.Lock()
	if c.refreshing {
		ch := make(chan refreshOutcome, 1)
		c.waiters = append(c.waiters, ch)
		c.lock.Unlock()
		select {
		case res := <-ch:
			return res.token, false, res.err
		case <-ctx.Done():
			return "", false, ctx.Err()
		}
	}
	c.refreshing = true
	c.lock.Unlock()

	creds, err := c.doRefresh(ctx, refreshToken)
	if err != nil {
		c.release(refreshOutcome{err: err})
		c.expireSession()
		return "", true, err
	}
	if err := c.store.SaveSession(creds.User, session.WithTokens(creds.AccessToken, creds.RefreshToken)); err != nil {
		// The fresh tokens are still valid for this process; keep going.
		c.log.Warn().Err(err).Msg("failed to persist refreshed session")
	}
	c.release(refreshOutcome{token: creds.AccessToken})
	return creds.AccessToken, true, nil
}

func (c *Client) doRefresh(ctx context.Context, refreshToken string) (Credentials, error) {
	if c.refresher == nil {
		return Credentials{}, errors.ErrRefreshFailed
	}
	creds, err := c.refresher.Refresh(ctx, refreshToken)
	if err != nil {
		return Credentials{}, err
	}
	return creds, nil
}

func (c *Client) release(res refreshOutcome) {
	c.lock.Lock()
	waiters := c.waiters
	c.waiters = nil
	c.refreshing = false
	c.lock.Unlock()

	for _, ch := range waiters {
		ch <- res
	}
}

func (c *Client) expireSession() {
	if err := c.store.ClearSession(); err != nil {
		c.log.Warn().Err(err).Msg("failed to clear expired session")
	}
	if c.onSessionExpired != nil {
		c.onSessionExpired()
	}
}
