package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	return signed
}

func TestSessionExpiry_ReadsExpClaim(t *testing.T) {
	exp := time.Now().Add(15 * time.Minute)
	tokenString := signedToken(t, jwt.MapClaims{
		"sub": "42",
		"exp": exp.Unix(),
	})

	got := SessionExpiry(tokenString)
	assert.WithinDuration(t, exp, got, time.Second)
}

func TestSessionExpiry_NoExpClaim(t *testing.T) {
	tokenString := signedToken(t, jwt.MapClaims{"sub": "42"})

	assert.True(t, SessionExpiry(tokenString).IsZero())
}

func TestSessionExpiry_MalformedToken(t *testing.T) {
	assert.True(t, SessionExpiry("not-a-jwt").IsZero())
	assert.True(t, SessionExpiry("").IsZero())
}
