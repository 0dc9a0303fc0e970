package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"gameplays/config"
	"gameplays/internal/cache"
	"gameplays/internal/delivery"
	"gameplays/internal/delivery/cli"
	"gameplays/internal/domain/repository"
	"gameplays/internal/domain/service"
	"gameplays/internal/errors"
	"gameplays/internal/infra/api"
	logs "gameplays/internal/infra/log"
	"gameplays/internal/infra/persistence/credstore"
	"gameplays/internal/usecase/impl"

	"go.uber.org/fx"
)

type startParams struct {
	fx.In

	Shutdowner fx.Shutdowner
	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectStore(),
		injectClient(),
		injectUsecase(),
		injectDelivery(),
		fx.Invoke(
			startApp,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		newOutput,
		context.Background,
	)
}

func newOutput() io.Writer {
	return os.Stdout
}

func injectStore() fx.Option {
	return fx.Options(
		fx.Provide(
			credstore.New,
			newCredentialRepository,
		),
	)
}

// newCredentialRepository exposes the badger store under its domain
// interface and ties its lifetime to the app's. Startup primes the session
// snapshot so a previous login survives the restart.
func newCredentialRepository(lc fx.Lifecycle, store *credstore.Store) repository.CredentialRepository {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			_, err := store.Load(ctx)
			if errors.Is(err, repository.ErrSessionNotFound) {
				return nil
			}

			return err
		},
		OnStop: func(context.Context) error {
			return store.Close()
		},
	})

	return store
}

func injectClient() fx.Option {
	return fx.Options(
		fx.Provide(
			api.NewExecutor,
			newPipeline,
			cache.New,
		),
	)
}

// newPipeline wraps the bare executor with refresh-and-retry handling.
// Usecases depend on api.Client and only ever see the pipeline.
func newPipeline(exec *api.Executor, creds repository.CredentialRepository, nav service.Navigator, logger *slog.Logger) api.Client {
	return api.NewPipeline(exec, creds, nav, logger)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAuthService,
			impl.NewGameService,
			impl.NewPlayService,
			impl.NewSearchService,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			cli.NewRouter,
			cli.AsNavigator,
			cli.NewNotifier,
			cli.AsNotifier,
			cli.NewViews,
			fx.Annotate(
				cli.NewREPL,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startApp(ctx context.Context, params startParams) {
	for _, d := range params.Deliveries {
		go func() {
			if err := d.Serve(ctx); err != nil {
				slog.Error("Delivery stopped", slog.Any("error", err))
			}

			if err := params.Shutdowner.Shutdown(); err != nil {
				slog.Error("Shutdown failed", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
