package usecase

import (
	"context"

	"gameplays/internal/domain/entity"
)

// GameUsecase defines read-only access to the game catalog.
type GameUsecase interface {
	// GetGame fetches a single catalog game by id. Results are cached
	// under the Game tag.
	GetGame(ctx context.Context, id int64) (*entity.GameSummary, error)

	// Search runs a paginated catalog search. Search results are not
	// cached; every call hits the backend.
	Search(ctx context.Context, query string, page int) (*entity.SearchResults, error)
}
