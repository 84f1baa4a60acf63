// Package session is the single source of truth for "who is logged in" and
// "which tokens authorize requests". State survives process restarts through
// a pluggable key-value Repo; the store itself holds no state in memory.
package session

import (
	"time"

	"github.com/indiriim/go-notify-admin/roles"
)

// Storage keys for the three independently addressable session entries.
// The refresh token must stay retrievable even if the session entry is
// unreadable, which is why the entries are separate.
const (
	SessionKey      = "indiriim_notification_session"
	TokenKey        = "indiriim_notification_token"
	RefreshTokenKey = "indiriim_notification_refresh_token"
)

// User is the signed-in principal as normalized from the backend's
// login/refresh responses. Immutable once loaded; replaced wholesale by a
// fresh login or refresh.
type User struct {
	ID    int64     `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  roles.Tag `json:"role"`
}

// Data is the persisted session record. LastActivityAt is Unix milliseconds,
// matching the wire format the web client used for the same entry.
type Data struct {
	User           User  `json:"user"`
	LastActivityAt int64 `json:"lastActivityAt"`
}

// LastActivity returns LastActivityAt as a time.Time.
func (d Data) LastActivity() time.Time {
	return time.UnixMilli(d.LastActivityAt)
}
