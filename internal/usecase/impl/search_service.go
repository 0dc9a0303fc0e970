package impl

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"gameplays/config"
	"gameplays/internal/domain/entity"
	apperrors "gameplays/internal/domain/errors"
	"gameplays/internal/domain/service"
	"gameplays/internal/routes"
	"gameplays/internal/usecase"

	"go.uber.org/fx"
)

const showMoreLabel = "Show more results..."

// searchService implements the SearchUsecase interface. A keystroke updates
// the input immediately but only arms a timer; the catalog fetch fires after
// the debounce window passes with no further keystrokes. Responses are
// sequence-numbered so an earlier fetch that resolves late cannot clobber a
// newer one.
type searchService struct {
	games    usecase.GameUsecase
	nav      service.Navigator
	notifier service.Notifier
	logger   *slog.Logger

	debounce  time.Duration
	minLength int

	mu       sync.Mutex
	input    string
	options  []entity.SearchOption
	selected *entity.SearchOption
	timer    *time.Timer
	seq      uint64 // bumped on every keystroke, tags each fetch
	listener func(options []entity.SearchOption)
}

// SearchServiceParams holds dependencies for searchService, injected by Fx.
type SearchServiceParams struct {
	fx.In

	Config   *config.Config
	Games    usecase.GameUsecase
	Nav      service.Navigator
	Notifier service.Notifier
	Logger   *slog.Logger
}

// NewSearchService is the constructor for searchService.
func NewSearchService(params SearchServiceParams) usecase.SearchUsecase {
	return &searchService{
		games:     params.Games,
		nav:       params.Nav,
		notifier:  params.Notifier,
		logger:    params.Logger,
		debounce:  params.Config.Search.Debounce,
		minLength: params.Config.Search.MinLength,
	}
}

func (srv *searchService) OnInputChange(text string) {
	srv.mu.Lock()

	srv.input = text
	srv.selected = nil
	srv.seq++

	if srv.timer != nil {
		srv.timer.Stop()
		srv.timer = nil
	}

	trimmed := strings.TrimSpace(text)
	if len(trimmed) < srv.minLength {
		// Clearing the input empties the menu without a fetch.
		notify := srv.setOptionsLocked(nil)
		srv.mu.Unlock()
		notify()

		return
	}

	seq := srv.seq
	srv.timer = time.AfterFunc(srv.debounce, func() {
		srv.resolve(trimmed, seq)
	})
	srv.mu.Unlock()
}

// resolve runs on the timer goroutine once the input has been quiet for the
// debounce window.
func (srv *searchService) resolve(query string, seq uint64) {
	results, err := srv.games.Search(context.Background(), query, 1)

	srv.mu.Lock()

	if seq != srv.seq {
		// The input changed while this fetch was in flight.
		srv.mu.Unlock()
		srv.logger.Debug("Discarding stale search response", slog.String("query", query))

		return
	}

	var notify func()
	if err != nil {
		srv.logger.Warn("Search failed", slog.String("query", query), slog.Any("error", err))
		srv.notifier.Error("Failed to display results.")
		notify = srv.setOptionsLocked(nil)
	} else {
		notify = srv.setOptionsLocked(buildOptions(query, results))
	}
	srv.mu.Unlock()
	notify()
}

// buildOptions projects a results page into menu options. Every hit is
// followed by a divider; the trailing "Show more results..." entry routes to
// the full results view.
func buildOptions(query string, results *entity.SearchResults) []entity.SearchOption {
	options := make([]entity.SearchOption, 0, len(results.Results)+1)
	for i := range results.Results {
		game := &results.Results[i]
		options = append(options, entity.SearchOption{
			Game:      game,
			IsDivider: true,
			Label:     game.Name,
			TargetURL: routes.Game(game.ID),
		})
	}

	options = append(options, entity.SearchOption{
		Label:     showMoreLabel,
		TargetURL: routes.Search(query),
	})

	return options
}

func (srv *searchService) OnEnter() {
	srv.mu.Lock()

	// Invalidate any in-flight fetch so it cannot reopen the menu.
	srv.seq++

	if srv.timer != nil {
		srv.timer.Stop()
		srv.timer = nil
	}

	trimmed := strings.TrimSpace(srv.input)
	notify := srv.setOptionsLocked(nil)
	srv.selected = nil
	srv.mu.Unlock()
	notify()

	if trimmed == "" {
		return
	}

	if err := srv.nav.Navigate(routes.Search(trimmed)); err != nil {
		srv.notifier.Error(apperrors.UserMessage(err, "Navigation failed"))
	}
}

func (srv *searchService) OnSelect(option entity.SearchOption) error {
	if option.TargetURL == "" {
		srv.notifier.Error(apperrors.ErrNavigationTarget.Message())

		return apperrors.ErrNavigationTarget
	}

	srv.mu.Lock()
	srv.selected = &option
	srv.seq++

	if srv.timer != nil {
		srv.timer.Stop()
		srv.timer = nil
	}

	notify := srv.setOptionsLocked(nil)
	srv.mu.Unlock()
	notify()

	return srv.nav.Navigate(option.TargetURL)
}

func (srv *searchService) ClearSelection() {
	srv.mu.Lock()
	srv.selected = nil
	srv.mu.Unlock()
}

func (srv *searchService) Input() string {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	return srv.input
}

func (srv *searchService) Options() []entity.SearchOption {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	return srv.options
}

func (srv *searchService) SetListener(fn func(options []entity.SearchOption)) {
	srv.mu.Lock()
	srv.listener = fn
	srv.mu.Unlock()
}

func (srv *searchService) Close() {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	if srv.timer != nil {
		srv.timer.Stop()
		srv.timer = nil
	}
}

// setOptionsLocked replaces the option list and returns the listener
// notification to run after the lock is released, so a renderer reading back
// through Options cannot deadlock. Callers must hold srv.mu.
func (srv *searchService) setOptionsLocked(options []entity.SearchOption) func() {
	srv.options = options

	listener := srv.listener
	if listener == nil {
		return func() {}
	}

	// Copy so the renderer never races a later replacement.
	view := make([]entity.SearchOption, len(options))
	copy(view, options)

	return func() { listener(view) }
}
