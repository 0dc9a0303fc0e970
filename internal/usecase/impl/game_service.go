package impl

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"gameplays/config"
	"gameplays/internal/cache"
	"gameplays/internal/domain/entity"
	"gameplays/internal/errors"
	"gameplays/internal/infra/api"
	"gameplays/internal/usecase"

	"go.uber.org/fx"
)

// gameService implements the GameUsecase interface.
type gameService struct {
	client      api.Client
	qcache      *cache.Cache
	resultLimit int
	logger      *slog.Logger
}

// GameServiceParams holds dependencies for gameService, injected by Fx.
type GameServiceParams struct {
	fx.In

	Client api.Client
	Cache  *cache.Cache
	Config *config.Config
	Logger *slog.Logger
}

// NewGameService is the constructor for gameService.
func NewGameService(params GameServiceParams) usecase.GameUsecase {
	return &gameService{
		client:      params.Client,
		qcache:      params.Cache,
		resultLimit: params.Config.API.ResultLimit,
		logger:      params.Logger,
	}
}

// gameEnvelope is the backend's wrapper around a single catalog lookup.
type gameEnvelope struct {
	Results entity.GameSummary `json:"results"`
}

func (srv *gameService) GetGame(ctx context.Context, id int64) (*entity.GameSummary, error) {
	key := cache.Key("game", id)

	result := cache.Query(srv.qcache, ctx, key, cache.QueryOptions{Tags: []cache.Tag{cache.TagGame}},
		func(ctx context.Context) (*entity.GameSummary, error) {
			path := api.PathGames + "/" + strconv.FormatInt(id, 10)
			resp, err := srv.client.Do(ctx, api.NewRequest(http.MethodGet, path))
			if err != nil {
				return nil, errors.Wrapf(err, "get game %d", id)
			}

			var envelope gameEnvelope
			if err := resp.Decode(&envelope); err != nil {
				return nil, err
			}

			return &envelope.Results, nil
		})

	return result.Data, result.Err
}

func (srv *gameService) Search(ctx context.Context, query string, page int) (*entity.SearchResults, error) {
	req := api.NewRequest(http.MethodGet, api.PathGamesSearch).
		WithQuery("q", query).
		WithHeader(api.HeaderResultLimit, strconv.Itoa(srv.resultLimit))
	if page > 1 {
		req.WithQuery("page", strconv.Itoa(page))
	}

	resp, err := srv.client.Do(ctx, req)
	if err != nil {
		return nil, errors.Wrapf(err, "search games %q", query)
	}

	var results entity.SearchResults
	if err := resp.Decode(&results); err != nil {
		return nil, err
	}

	srv.logger.Debug("Search completed",
		slog.String("query", query),
		slog.Int("results", len(results.Results)))

	return &results, nil
}
