// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"
)

// Session represents the authenticated user's identity for the lifetime of a
// login. Exactly one Session exists process-wide; it is created on
// login/register/refresh, persisted so it survives restarts, and destroyed on
// logout or a failed refresh.
type Session struct {
	UserID   int64  `json:"userId"`   // The backend's numeric identifier for the user.
	Username string `json:"username"` // The user's display name.
	Email    string `json:"email"`    // The user's login email.
	Token    string `json:"token"`    // The bearer token returned by the auth endpoints; also set as a cookie by the server.

	// ExpiresAt is derived from the token's exp claim when the session is
	// stored. Zero when the token carries no parseable expiry.
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
}

// IsExpired reports whether the session's token expiry has passed.
// Sessions without a known expiry are never considered expired locally;
// the server remains the authority via 401 responses.
func (s *Session) IsExpired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// TimeRemaining returns the time left until expiry, or zero when unknown
// or already expired.
func (s *Session) TimeRemaining() time.Duration {
	if s.ExpiresAt.IsZero() {
		return 0
	}
	remaining := time.Until(s.ExpiresAt)
	if remaining < 0 {
		return 0
	}

	return remaining
}
