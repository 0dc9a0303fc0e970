package api

import (
	"context"
	"log/slog"
	"net/http"

	"gameplays/internal/appcontext"
	"gameplays/internal/domain/entity"
	apperrors "gameplays/internal/domain/errors"
	"gameplays/internal/domain/repository"
	"gameplays/internal/domain/service"
	"gameplays/internal/errors"
	"gameplays/internal/infra/auth"
	"gameplays/internal/routes"
)

// Pipeline wraps an executor with transparent session refresh. A 401 answer
// triggers exactly one refresh attempt; on success the original request is
// re-sent exactly once. Refresh failures either pass the original error
// through (bad credentials) or force a logout (expired session).
type Pipeline struct {
	exec   Client
	creds  repository.CredentialRepository
	nav    service.Navigator
	logger *slog.Logger
}

// NewPipeline builds a Pipeline in front of exec. Only the pipeline and the
// auth usecase ever write to the credential repository.
func NewPipeline(exec Client, creds repository.CredentialRepository, nav service.Navigator, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		exec:   exec,
		creds:  creds,
		nav:    nav,
		logger: logger,
	}
}

// Do executes req, refreshing the session and retrying once on a 401.
func (p *Pipeline) Do(ctx context.Context, req *Request) (*Response, error) {
	resp, err := p.exec.Do(ctx, req)
	if err == nil || !apperrors.IsUnauthorized(err) {
		// Transport and decode failures never trigger a refresh; only an
		// HTTP 401 does.
		return resp, err
	}

	logger := appcontext.GetLoggerOrDefault(ctx, p.logger)
	logger.Debug("Received 401, attempting session refresh", slog.String("path", req.Path))

	refreshResp, refreshErr := p.exec.Do(ctx, NewRequest(http.MethodPost, PathAuthRefresh))
	if refreshErr == nil {
		if saveErr := p.storeRefreshedSession(ctx, refreshResp); saveErr != nil {
			logger.Warn("Failed to store refreshed session", slog.Any("error", saveErr))
		}

		// Retry the original request exactly once and return that result
		// regardless of outcome.
		return p.exec.Do(ctx, req)
	}

	var statusErr *apperrors.StatusError
	if errors.As(refreshErr, &statusErr) && statusErr.HasMessage() {
		// The refresh endpoint rejected actual credentials rather than an
		// expired cookie. The caller must see the original error.
		return nil, err
	}

	// Session truly expired: best-effort logout, drop credentials, route to
	// the login view. Each side effect happens at most once per call.
	if _, logoutErr := p.exec.Do(ctx, NewRequest(http.MethodPost, PathAuthLogout)); logoutErr != nil {
		logger.Debug("Best-effort logout failed", slog.Any("error", logoutErr))
	}

	if clearErr := p.creds.Clear(ctx); clearErr != nil {
		logger.Warn("Failed to clear credentials", slog.Any("error", clearErr))
	}

	if navErr := p.nav.Navigate(routes.Login); navErr != nil {
		logger.Warn("Failed to navigate to login", slog.Any("error", navErr))
	}

	logger.Info("Session expired, user logged out")

	return nil, refreshErr
}

// storeRefreshedSession decodes the refresh response into a session and
// persists it.
func (p *Pipeline) storeRefreshedSession(ctx context.Context, resp *Response) error {
	var session struct {
		UserID   int64  `json:"userId"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Token    string `json:"token"`
	}
	if err := resp.Decode(&session); err != nil {
		return err
	}

	return p.creds.Save(ctx, NewSession(session.UserID, session.Username, session.Email, session.Token))
}

var _ Client = (*Pipeline)(nil)

// NewSession assembles a session entity, deriving the expiry from the
// token's claims when present.
func NewSession(userID int64, username, email, token string) *entity.Session {
	return &entity.Session{
		UserID:    userID,
		Username:  username,
		Email:     email,
		Token:     token,
		ExpiresAt: auth.SessionExpiry(token),
	}
}
