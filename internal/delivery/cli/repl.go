// Package cli serves the app as an interactive terminal session. The routes
// of the original single-page layout become rendered views, and the search
// box becomes a keystroke-driven prompt with the same debounce behavior.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gameplays/config"
	"gameplays/internal/delivery"
	apperrors "gameplays/internal/domain/errors"
	"gameplays/internal/errors"
	"gameplays/internal/usecase"

	"github.com/chzyer/readline"
	"go.uber.org/fx"
)

// REPL is the interactive terminal delivery.
type REPL struct {
	cfg    *config.Config
	logger *slog.Logger
	out    io.Writer

	rl     *readline.Instance
	router *Router
	views  *Views

	auth   usecase.AuthUsecase
	plays  usecase.PlayUsecase
	search usecase.SearchUsecase
}

// REPLParams holds dependencies for the REPL, injected by Fx.
type REPLParams struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
	Out    io.Writer
	Router *Router
	Views  *Views
	Auth   usecase.AuthUsecase
	Plays  usecase.PlayUsecase
	Search usecase.SearchUsecase
}

// NewREPL is the constructor for the terminal delivery.
func NewREPL(params REPLParams) (delivery.Delivery, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, errors.Wrap(err, "init readline")
	}

	repl := &REPL{
		cfg:    params.Config,
		logger: params.Logger,
		out:    params.Out,
		rl:     rl,
		router: params.Router,
		views:  params.Views,
		auth:   params.Auth,
		plays:  params.Plays,
		search: params.Search,
	}

	// Route changes re-render the view and drop any highlighted search
	// option, matching the page-change behavior of the original layout.
	params.Router.AddListener(ListenerFunc(func(string) {
		params.Search.ClearSelection()
		repl.renderCurrent(context.Background())
	}))
	params.Search.SetListener(params.Views.renderOptions)

	params.Append(fx.Hook{
		OnStop: repl.stop,
	})

	return repl, nil
}

// Serve runs the read loop until the user exits or ctx is canceled.
func (r *REPL) Serve(ctx context.Context) error {
	r.renderCurrent(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "read line")
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if quit := r.execute(ctx, strings.Fields(line)); quit {
			return nil
		}
	}
}

func (r *REPL) stop(context.Context) error {
	r.search.Close()

	return errors.WithStack(r.rl.Close())
}

// renderCurrent draws the active route, updating the prompt to show it.
func (r *REPL) renderCurrent(ctx context.Context) {
	route := r.router.Current()
	r.rl.SetPrompt(route.URL + " > ")

	if err := r.views.Render(ctx, route); err != nil {
		r.logger.Warn("Render failed", slog.String("url", route.URL), slog.Any("error", err))
		fmt.Fprintln(r.out, apperrors.UserMessage(err, "Something went wrong"))
	}
}

func (r *REPL) navigate(target string) {
	if err := r.router.Navigate(target); err != nil {
		fmt.Fprintln(r.out, apperrors.UserMessage(err, "Page not found"))
	}
}
