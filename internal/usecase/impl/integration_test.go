package impl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"gameplays/internal/cache"
	"gameplays/internal/domain/entity"
	"gameplays/internal/infra/api"
	"gameplays/internal/infra/persistence/credstore"
	"gameplays/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend is an in-memory rendition of the Gameplays server, close enough
// to exercise the whole client stack: cookie sessions, 401s on stale cookies,
// and the refresh endpoint's two failure shapes.
type fakeBackend struct {
	mu         sync.Mutex
	token      string // the cookie value currently accepted
	refreshOK  bool
	refreshMsg string // when refresh fails, a non-empty message means bad credentials
	nextPlayID int64
	plays      []entity.Play
	refreshes  int
}

func (b *fakeBackend) handler() http.Handler {
	e := echo.New()
	e.HideBanner = true

	e.POST("/auth/login", b.login)
	e.POST("/auth/refresh", b.refresh)
	e.POST("/auth/logout", b.logout)
	e.GET("/games/:id", b.getGame)
	e.GET("/games/search", b.searchGames)
	e.GET("/plays", b.listPlays)
	e.POST("/plays", b.createPlay)
	e.DELETE("/plays", b.deletePlay)

	return e
}

func (b *fakeBackend) identity() map[string]any {
	return map[string]any{
		"userId":   int64(42),
		"username": "gamer",
		"email":    "gamer@example.com",
		"token":    b.token,
	}
}

func (b *fakeBackend) setCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{Name: "session", Value: b.token, Path: "/"})
}

func (b *fakeBackend) authorized(c echo.Context) bool {
	cookie, err := c.Cookie("session")

	return err == nil && cookie.Value == b.token
}

func (b *fakeBackend) login(c echo.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.token = "token-1"
	b.setCookie(c)

	return c.JSON(http.StatusOK, b.identity())
}

func (b *fakeBackend) refresh(c echo.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refreshes++

	if !b.refreshOK {
		if b.refreshMsg != "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"message": b.refreshMsg})
		}

		return c.NoContent(http.StatusUnauthorized)
	}

	b.token = "token-" + strconv.Itoa(b.refreshes+1)
	b.setCookie(c)

	return c.JSON(http.StatusOK, b.identity())
}

func (b *fakeBackend) logout(c echo.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.token = ""

	return c.JSON(http.StatusOK, map[string]string{"message": "logged out"})
}

func (b *fakeBackend) getGame(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.NoContent(http.StatusNotFound)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"results": entity.GameSummary{ID: id, Name: "Outer Wilds"},
	})
}

func (b *fakeBackend) searchGames(c echo.Context) error {
	return c.JSON(http.StatusOK, entity.SearchResults{
		NumberOfPageResults:  1,
		NumberOfTotalResults: 1,
		Results:              []entity.GameSummary{{ID: 7, Name: "Outer Wilds"}},
	})
}

func (b *fakeBackend) listPlays(c echo.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.authorized(c) {
		return c.NoContent(http.StatusUnauthorized)
	}

	return c.JSON(http.StatusOK, b.plays)
}

func (b *fakeBackend) createPlay(c echo.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.authorized(c) {
		return c.NoContent(http.StatusUnauthorized)
	}

	var payload entity.PlayPayload
	if err := c.Bind(&payload); err != nil {
		return c.NoContent(http.StatusBadRequest)
	}

	b.nextPlayID++
	play := entity.Play{
		ID:        b.nextPlayID,
		UserID:    payload.UserID,
		APIGameID: payload.GameID,
		Status:    payload.Status,
	}
	b.plays = append(b.plays, play)

	return c.JSON(http.StatusCreated, play)
}

func (b *fakeBackend) deletePlay(c echo.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.authorized(c) {
		return c.NoContent(http.StatusUnauthorized)
	}

	playID, err := strconv.ParseInt(c.QueryParam("playId"), 10, 64)
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}

	kept := b.plays[:0]
	for _, play := range b.plays {
		if play.ID != playID {
			kept = append(kept, play)
		}
	}
	b.plays = kept

	return c.JSON(http.StatusOK, map[string]string{"message": "deleted"})
}

// clientStack is the fully assembled client side under test.
type clientStack struct {
	auth  usecase.AuthUsecase
	games usecase.GameUsecase
	plays usecase.PlayUsecase
	creds *credstore.Store
	nav   *fakeNavigator
}

func newClientStack(t *testing.T, baseURL string) *clientStack {
	t.Helper()

	cfg := newTestConfig()
	cfg.API.BaseURL = baseURL
	cfg.API.Timeout = 5 * time.Second
	cfg.Storage.Path = t.TempDir()

	logger := newDiscardLogger()

	creds, err := credstore.New(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = creds.Close() })

	exec, err := api.NewExecutor(cfg, logger)
	require.NoError(t, err)

	nav := &fakeNavigator{}
	pipeline := api.NewPipeline(exec, creds, nav, logger)
	qcache := cache.New(cfg, logger)
	notifier := &recordingNotifier{}

	return &clientStack{
		auth: NewAuthService(AuthServiceParams{
			Client: pipeline, Creds: creds, Cache: qcache, Notifier: notifier, Logger: logger,
		}),
		games: NewGameService(GameServiceParams{
			Client: pipeline, Cache: qcache, Config: cfg, Logger: logger,
		}),
		plays: NewPlayService(PlayServiceParams{
			Client: pipeline, Creds: creds, Cache: qcache, Notifier: notifier, Logger: logger,
		}),
		creds: creds,
		nav:   nav,
	}
}

func TestIntegration_LoginBrowseAndShelve(t *testing.T) {
	backend := &fakeBackend{}
	server := httptest.NewServer(backend.handler())
	defer server.Close()

	stack := newClientStack(t, server.URL)
	ctx := context.Background()

	session, err := stack.auth.Login(ctx, &usecase.LoginInput{
		Email:    "gamer@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)
	assert.Equal(t, "gamer", session.Username)

	game, err := stack.games.GetGame(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Outer Wilds", game.Name)

	require.NoError(t, stack.plays.TogglePlay(ctx, game, entity.StatusPlaying))

	plays, err := stack.plays.Plays(ctx)
	require.NoError(t, err)
	require.Len(t, plays, 1)
	assert.Equal(t, entity.StatusPlaying, plays[0].Status)

	// Toggling the active shelf again removes the play.
	require.NoError(t, stack.plays.TogglePlay(ctx, game, entity.StatusPlaying))
	plays, err = stack.plays.Plays(ctx)
	require.NoError(t, err)
	assert.Empty(t, plays)
}

func TestIntegration_StaleCookieIsRefreshedTransparently(t *testing.T) {
	backend := &fakeBackend{refreshOK: true}
	server := httptest.NewServer(backend.handler())
	defer server.Close()

	stack := newClientStack(t, server.URL)
	ctx := context.Background()

	_, err := stack.auth.Login(ctx, &usecase.LoginInput{
		Email:    "gamer@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)

	// The server rotates its accepted token, invalidating the client's
	// cookie mid-session.
	backend.mu.Lock()
	backend.token = "rotated-elsewhere"
	backend.mu.Unlock()

	plays, err := stack.plays.Plays(ctx)
	require.NoError(t, err)
	assert.Empty(t, plays)

	backend.mu.Lock()
	refreshes := backend.refreshes
	backend.mu.Unlock()
	assert.Equal(t, 1, refreshes)

	// The refreshed identity was persisted.
	stored, err := stack.creds.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, backend.token, stored.Token)
}

func TestIntegration_ExpiredSessionForcesLogout(t *testing.T) {
	backend := &fakeBackend{refreshOK: false}
	server := httptest.NewServer(backend.handler())
	defer server.Close()

	stack := newClientStack(t, server.URL)
	ctx := context.Background()

	_, err := stack.auth.Login(ctx, &usecase.LoginInput{
		Email:    "gamer@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)

	backend.mu.Lock()
	backend.token = "rotated-elsewhere"
	backend.mu.Unlock()

	_, err = stack.plays.Plays(ctx)
	require.Error(t, err)

	// Credentials are gone and the app routed to the login view.
	assert.Nil(t, stack.creds.Current())
	assert.Equal(t, []string{"/login"}, stack.nav.Visited())
}
