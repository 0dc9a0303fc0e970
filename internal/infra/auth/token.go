// Package auth provides client-side helpers for the session tokens issued
// by the backend.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionExpiry extracts the expiry time from a session token's claims.
// The client never verifies signatures (the server owns the secret); the
// claims are read only to surface session lifetime in the UI and storage.
// Returns a zero time when the token is absent or carries no usable expiry.
func SessionExpiry(tokenString string) time.Time {
	if tokenString == "" {
		return time.Time{}
	}

	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return time.Time{}
	}

	expiry, err := token.Claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return time.Time{}
	}

	return expiry.Time
}
