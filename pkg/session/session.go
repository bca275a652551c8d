// Package session manages TTL-bound user sessions on Redis. Each session is
// one hash with a key-level expiry, plus an entry in a sorted-set index of
// active session IDs scored by creation time. The hash and the index are
// written independently: Redis offers per-key atomicity only, so an index
// entry can outlive its hash. Enumeration self-heals such orphans.
package session

import (
	"encoding/json"
	"errors"
	"time"
)

// Session statuses derived from the remaining key TTL.
const (
	StatusActive  = "active"
	StatusExpired = "expired"
)

// DefaultTTL is the sliding session lifetime when none is configured.
const DefaultTTL = 7 * 24 * time.Hour

// MaxUserDataBytes bounds the opaque user-data blob stored with a session.
const MaxUserDataBytes = 4096

// ErrUserDataTooLarge reports a user-data blob over MaxUserDataBytes.
var ErrUserDataTooLarge = errors.New("session: user data exceeds size limit")

// Session is one session record.
type Session struct {
	ID           string          `json:"session_id"`
	UserID       string          `json:"user_id"`
	CreatedAt    time.Time       `json:"created_at"`
	LastActivity time.Time       `json:"last_activity"`
	UserData     json.RawMessage `json:"user_data,omitempty"`
	Status       string          `json:"status"`
	TTLSeconds   int64           `json:"ttl"`
}

// Metrics aggregates the currently active sessions. Derived fresh from
// enumeration on every call, never cached.
type Metrics struct {
	TotalActiveSessions int            `json:"total_active_sessions"`
	UniqueUsers         int            `json:"unique_users"`
	AvgSessionDuration  float64        `json:"avg_session_duration"`
	SessionsByUser      map[string]int `json:"sessions_by_user"`
}
