package impl

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"gameplays/internal/appcontext"
	"gameplays/internal/cache"
	"gameplays/internal/domain/entity"
	apperrors "gameplays/internal/domain/errors"
	"gameplays/internal/domain/repository"
	"gameplays/internal/domain/service"
	"gameplays/internal/errors"
	"gameplays/internal/infra/api"
	"gameplays/internal/usecase"

	"go.uber.org/fx"
)

// playService implements the PlayUsecase interface.
type playService struct {
	client   api.Client
	creds    repository.CredentialRepository
	qcache   *cache.Cache
	notifier service.Notifier
	logger   *slog.Logger

	mu   sync.Mutex
	busy map[entity.Status]bool
}

// PlayServiceParams holds dependencies for playService, injected by Fx.
type PlayServiceParams struct {
	fx.In

	Client   api.Client
	Creds    repository.CredentialRepository
	Cache    *cache.Cache
	Notifier service.Notifier
	Logger   *slog.Logger
}

// NewPlayService is the constructor for playService.
func NewPlayService(params PlayServiceParams) usecase.PlayUsecase {
	return &playService{
		client:   params.Client,
		creds:    params.Creds,
		qcache:   params.Cache,
		notifier: params.Notifier,
		logger:   params.Logger,
		busy:     make(map[entity.Status]bool),
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *playService) log(ctx context.Context) *slog.Logger {
	return appcontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *playService) Plays(ctx context.Context) ([]entity.Play, error) {
	session := srv.creds.Current()

	var userID int64
	if session != nil {
		userID = session.UserID
	}

	result := cache.Query(srv.qcache, ctx, cache.Key("plays", userID),
		cache.QueryOptions{
			Tags: []cache.Tag{cache.TagPlay},
			// Without a session the query never executes.
			Skip: session == nil,
		},
		func(ctx context.Context) ([]entity.Play, error) {
			req := api.NewRequest(http.MethodGet, api.PathPlays).
				WithQuery("userId", strconv.FormatInt(userID, 10))

			resp, err := srv.client.Do(ctx, req)
			if err != nil {
				return nil, errors.Wrap(err, "list plays")
			}

			var plays []entity.Play
			if err := resp.Decode(&plays); err != nil {
				return nil, err
			}

			return plays, nil
		})

	return result.Data, result.Err
}

func (srv *playService) PlayForGame(ctx context.Context, gameID int64) (*entity.Play, bool, error) {
	plays, err := srv.Plays(ctx)
	if err != nil {
		return nil, false, err
	}

	for i := range plays {
		if plays[i].APIGameID == gameID {
			return &plays[i], true, nil
		}
	}

	return nil, false, nil
}

func (srv *playService) TogglePlay(ctx context.Context, game *entity.GameSummary, status entity.Status) error {
	if !status.Valid() {
		srv.notifier.Error(apperrors.ErrInvalidPlayStatus.Message())

		return apperrors.ErrInvalidPlayStatus
	}

	session := srv.creds.Current()
	if session == nil {
		srv.notifier.Error(apperrors.ErrNoSession.Message())

		return apperrors.ErrNoSession
	}

	srv.setBusy(status, true)
	// The initiating control must always leave the busy state, success or not.
	defer srv.setBusy(status, false)

	current, exists, err := srv.PlayForGame(ctx, game.ID)
	if err != nil {
		srv.notifier.Error(apperrors.UserMessage(err, "Failed to update shelf"))

		return err
	}

	switch {
	case exists && current.Status == status:
		err = srv.removePlay(ctx, session.UserID, current, game, status)
	case exists:
		err = srv.movePlay(ctx, session.UserID, current, game, status)
	default:
		err = srv.addPlay(ctx, session.UserID, game, status)
	}

	return err
}

func (srv *playService) Busy(status entity.Status) bool {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	return srv.busy[status]
}

func (srv *playService) setBusy(status entity.Status, value bool) {
	srv.mu.Lock()
	srv.busy[status] = value
	srv.mu.Unlock()
}

// addPlay creates the first play for a (user, game) pair.
func (srv *playService) addPlay(ctx context.Context, userID int64, game *entity.GameSummary, status entity.Status) error {
	payload := &entity.PlayPayload{
		UserID:    userID,
		GameID:    game.ID,
		Status:    status,
		CreatedAt: entity.NewPlayCreatedAt(time.Now()),
	}

	_, err := cache.Mutate(srv.qcache, ctx, cache.MutationOptions{Invalidates: []cache.Tag{cache.TagPlay}},
		func(ctx context.Context) (*api.Response, error) {
			req, err := api.NewRequest(http.MethodPost, api.PathPlays).WithJSONBody(payload)
			if err != nil {
				return nil, err
			}

			return srv.client.Do(ctx, req)
		})
	if err != nil {
		srv.notifier.Error(apperrors.UserMessage(err, "Failed to add play"))

		return errors.Wrap(err, "create play")
	}

	srv.log(ctx).Info("Play created", slog.Int64("gameID", game.ID), slog.String("status", status.String()))
	srv.notifier.Success(fmt.Sprintf("Added %s to %s", game.Name, status))

	return nil
}

// movePlay switches an existing play to a different shelf.
func (srv *playService) movePlay(ctx context.Context, userID int64, current *entity.Play, game *entity.GameSummary, status entity.Status) error {
	if current.ID == 0 {
		srv.notifier.Error(apperrors.ErrPlayIDNotFound.Message())

		return apperrors.ErrPlayIDNotFound
	}

	payload := &entity.PlayPayload{
		UserID: userID,
		GameID: game.ID,
		PlayID: current.ID,
		Status: status,
	}

	_, err := cache.Mutate(srv.qcache, ctx, cache.MutationOptions{Invalidates: []cache.Tag{cache.TagPlay}},
		func(ctx context.Context) (*api.Response, error) {
			req, err := api.NewRequest(http.MethodPut, api.PathPlays).WithJSONBody(payload)
			if err != nil {
				return nil, err
			}

			return srv.client.Do(ctx, req)
		})
	if err != nil {
		srv.notifier.Error(apperrors.UserMessage(err, "Failed to update play"))

		return errors.Wrap(err, "update play")
	}

	srv.log(ctx).Info("Play moved",
		slog.Int64("gameID", game.ID),
		slog.String("from", current.Status.String()),
		slog.String("to", status.String()))
	srv.notifier.Success(fmt.Sprintf("Moved %s to %s", game.Name, status))

	return nil
}

// removePlay toggles an active shelf off, deleting the play record.
func (srv *playService) removePlay(ctx context.Context, userID int64, current *entity.Play, game *entity.GameSummary, status entity.Status) error {
	if current.ID == 0 {
		srv.notifier.Error(apperrors.ErrPlayIDNotFound.Message())

		return apperrors.ErrPlayIDNotFound
	}

	_, err := cache.Mutate(srv.qcache, ctx, cache.MutationOptions{Invalidates: []cache.Tag{cache.TagPlay}},
		func(ctx context.Context) (*api.Response, error) {
			req := api.NewRequest(http.MethodDelete, api.PathPlays).
				WithQuery("userId", strconv.FormatInt(userID, 10)).
				WithQuery("playId", strconv.FormatInt(current.ID, 10))

			return srv.client.Do(ctx, req)
		})
	if err != nil {
		srv.notifier.Error(apperrors.UserMessage(err, "Failed to remove play"))

		return errors.Wrap(err, "delete play")
	}

	srv.log(ctx).Info("Play removed", slog.Int64("gameID", game.ID), slog.String("status", status.String()))
	srv.notifier.Success(fmt.Sprintf("Removed %s from %s", game.Name, status))

	return nil
}
