package usecase

import (
	"context"

	"gameplays/internal/domain/entity"
)

// PlayUsecase manages the user's shelves: the plays linking them to games.
type PlayUsecase interface {
	// Plays returns the signed-in user's play records. Without a session
	// the query is skipped and an empty list is returned.
	Plays(ctx context.Context) ([]entity.Play, error)

	// PlayForGame returns the user's play for a game, if any. At most one
	// play exists per (user, game) pair.
	PlayForGame(ctx context.Context, gameID int64) (*entity.Play, bool, error)

	// TogglePlay adds the game to the given shelf, moves it there from
	// another shelf, or removes it when the shelf is already active.
	TogglePlay(ctx context.Context, game *entity.GameSummary, status entity.Status) error

	// Busy reports whether a toggle for the given shelf is in flight.
	Busy(status entity.Status) bool
}
