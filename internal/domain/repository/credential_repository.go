// Package repository defines the interfaces for durable local state.
// Implementations live in the infra layer.
package repository

import (
	"context"

	"gameplays/internal/domain/entity"
	"gameplays/internal/errors"
)

// ErrSessionNotFound is returned by Load when no session is stored.
var ErrSessionNotFound = errors.New("session not found")

// CredentialRepository owns the single persisted Session. Load runs once at
// startup; Save runs on every credential change (login, register, refresh,
// profile update); Clear runs on logout or forced expiry.
//
// Writer discipline: only the reauth pipeline and the auth usecase may call
// Save or Clear. Every other component reads through Current.
type CredentialRepository interface {
	// Load reads the persisted session from durable storage and primes the
	// in-memory snapshot. Returns ErrSessionNotFound when none is stored.
	Load(ctx context.Context) (*entity.Session, error)

	// Save persists the session and updates the in-memory snapshot.
	Save(ctx context.Context, session *entity.Session) error

	// Clear removes the persisted session and the in-memory snapshot.
	// Clearing an absent session is a no-op.
	Clear(ctx context.Context) error

	// Current returns the in-memory snapshot without touching storage,
	// or nil when no session is held.
	Current() *entity.Session
}
