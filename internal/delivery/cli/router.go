package cli

import (
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"sync"

	apperrors "gameplays/internal/domain/errors"
	"gameplays/internal/domain/service"
	"gameplays/internal/routes"

	"go.uber.org/fx"
)

// Route is a parsed in-app navigation target.
type Route struct {
	URL    string
	Name   string // one of the RouteName constants
	GameID int64  // set for RouteGame
	Query  string // set for RouteSearch
}

// Route names.
const (
	RouteHome    = "home"
	RouteLogin   = "login"
	RouteShelves = "shelves"
	RouteProfile = "profile"
	RouteGame    = "game"
	RouteSearch  = "search"
)

// Router implements service.Navigator for the terminal UI. It validates and
// parses app routes, tracks the current one, and fans route changes out to
// registered listeners.
type Router struct {
	logger *slog.Logger

	mu        sync.Mutex
	current   Route
	listeners []service.RouteListener
}

// RouterParams holds dependencies for Router, injected by Fx.
type RouterParams struct {
	fx.In

	Logger *slog.Logger
}

// NewRouter is the constructor for Router. The app starts on the home route.
func NewRouter(params RouterParams) *Router {
	return &Router{
		logger:  params.Logger,
		current: Route{URL: routes.Home, Name: RouteHome},
	}
}

// AsNavigator exposes the router under its domain interface for injection.
func AsNavigator(r *Router) service.Navigator {
	return r
}

// Navigate implements service.Navigator. Unroutable URLs leave the current
// route untouched.
func (r *Router) Navigate(target string) error {
	route, err := ParseRoute(target)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.current = route
	listeners := make([]service.RouteListener, len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.Unlock()

	r.logger.Debug("Route changed", slog.String("url", route.URL))

	for _, listener := range listeners {
		listener.RouteChanged(route.URL)
	}

	return nil
}

// Current returns the active route.
func (r *Router) Current() Route {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.current
}

// AddListener registers a route change listener.
func (r *Router) AddListener(listener service.RouteListener) {
	r.mu.Lock()
	r.listeners = append(r.listeners, listener)
	r.mu.Unlock()
}

// ListenerFunc adapts a function to service.RouteListener.
type ListenerFunc func(url string)

// RouteChanged implements service.RouteListener.
func (f ListenerFunc) RouteChanged(url string) {
	f(url)
}

// ParseRoute validates an app URL and resolves it to a Route.
func ParseRoute(target string) (Route, error) {
	parsed, err := url.Parse(target)
	if err != nil {
		return Route{}, apperrors.ErrRouteNotFound.WithDetails(err.Error())
	}

	switch parsed.Path {
	case routes.Home:
		return Route{URL: target, Name: RouteHome}, nil
	case routes.Login:
		return Route{URL: target, Name: RouteLogin}, nil
	case routes.Shelves:
		return Route{URL: target, Name: RouteShelves}, nil
	case routes.Profile:
		return Route{URL: target, Name: RouteProfile}, nil
	case "/search":
		return Route{URL: target, Name: RouteSearch, Query: parsed.Query().Get("q")}, nil
	}

	if rest, ok := strings.CutPrefix(parsed.Path, "/game/"); ok {
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil || id <= 0 {
			return Route{}, apperrors.ErrRouteNotFound
		}

		return Route{URL: target, Name: RouteGame, GameID: id}, nil
	}

	return Route{}, apperrors.ErrRouteNotFound
}
