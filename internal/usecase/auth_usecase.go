// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"gameplays/internal/domain/entity"
)

// --- Input DTOs ---

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// UpdateProfileInput defines a partial profile update. Empty fields are
// left unchanged by the backend.
type UpdateProfileInput struct {
	UserID   int64  `json:"userId" validate:"required"`
	Username string `json:"username" validate:"omitempty,min=3"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"omitempty,min=8"`
}

// AuthUsecase defines the interface for account and session operations.
// This is the contract the delivery layer depends on.
type AuthUsecase interface {
	// Login authenticates and stores the resulting session.
	Login(ctx context.Context, input *LoginInput) (*entity.Session, error)

	// Register creates an account and stores the resulting session.
	Register(ctx context.Context, input *RegisterInput) (*entity.Session, error)

	// Logout invalidates the server session (best-effort) and always
	// clears the stored credentials.
	Logout(ctx context.Context) error

	// UpdateProfile applies a partial update to the signed-in user and
	// refreshes the stored session identity.
	UpdateProfile(ctx context.Context, input *UpdateProfileInput) (*entity.Session, error)

	// DeleteAccount removes the signed-in user's account and clears the
	// stored credentials.
	DeleteAccount(ctx context.Context) error

	// CurrentSession returns the session snapshot, or nil when signed out.
	CurrentSession() *entity.Session
}
