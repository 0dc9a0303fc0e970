package impl

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

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

// authService implements the AuthUsecase interface.
type authService struct {
	client   api.Client
	creds    repository.CredentialRepository
	qcache   *cache.Cache
	notifier service.Notifier
	logger   *slog.Logger
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	Client   api.Client
	Creds    repository.CredentialRepository
	Cache    *cache.Cache
	Notifier service.Notifier
	Logger   *slog.Logger
}

// NewAuthService is the constructor for authService.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		client:   params.Client,
		creds:    params.Creds,
		qcache:   params.Cache,
		notifier: params.Notifier,
		logger:   params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return appcontext.GetLoggerOrDefault(ctx, srv.logger)
}

// userPayload is the identity shape the auth endpoints return.
type userPayload struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Token    string `json:"token"`
}

func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*entity.Session, error) {
	if err := checkInput(input, srv.notifier); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Logging in", slog.String("email", input.Email))

	req, err := api.NewRequest(http.MethodPost, api.PathAuthLogin).WithJSONBody(input)
	if err != nil {
		return nil, err
	}

	resp, err := srv.client.Do(ctx, req)
	if err != nil {
		srv.surface(err, "Failed to log in")

		return nil, errors.Wrap(err, "login request")
	}

	session, err := srv.storeSession(ctx, resp)
	if err != nil {
		return nil, err
	}

	// A new identity invalidates everything scoped to the previous one.
	srv.qcache.Invalidate(ctx, cache.TagUser, cache.TagPlay)

	srv.log(ctx).Debug("Login completed", slog.Int64("userID", session.UserID))

	return session, nil
}

func (srv *authService) Register(ctx context.Context, input *usecase.RegisterInput) (*entity.Session, error) {
	if err := checkInput(input, srv.notifier); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Registering account", slog.String("email", input.Email))

	req, err := api.NewRequest(http.MethodPost, api.PathUserRegister).WithJSONBody(input)
	if err != nil {
		return nil, err
	}

	resp, err := srv.client.Do(ctx, req)
	if err != nil {
		srv.surface(err, "Failed to register")

		return nil, errors.Wrap(err, "register request")
	}

	session, err := srv.storeSession(ctx, resp)
	if err != nil {
		return nil, err
	}

	srv.qcache.Invalidate(ctx, cache.TagUser, cache.TagPlay)
	srv.notifier.Success("Account created")

	return session, nil
}

func (srv *authService) Logout(ctx context.Context) error {
	// Server-side invalidation is best-effort; local credentials are
	// cleared regardless.
	if _, err := srv.client.Do(ctx, api.NewRequest(http.MethodPost, api.PathAuthLogout)); err != nil {
		srv.log(ctx).Debug("Logout request failed", slog.Any("error", err))
	}

	if err := srv.creds.Clear(ctx); err != nil {
		return errors.Wrap(err, "clear credentials")
	}

	srv.qcache.Invalidate(ctx, cache.TagUser, cache.TagPlay)
	srv.log(ctx).Info("Logged out")

	return nil
}

func (srv *authService) UpdateProfile(ctx context.Context, input *usecase.UpdateProfileInput) (*entity.Session, error) {
	if err := checkInput(input, srv.notifier); err != nil {
		return nil, err
	}

	session := srv.creds.Current()
	if session == nil {
		return nil, apperrors.ErrNoSession
	}

	path := api.PathUsers + "/" + strconv.FormatInt(input.UserID, 10)
	req, err := api.NewRequest(http.MethodPut, path).WithJSONBody(input)
	if err != nil {
		return nil, err
	}

	resp, err := srv.client.Do(ctx, req)
	if err != nil {
		srv.surface(err, "Failed to update profile")

		return nil, errors.Wrap(err, "update profile request")
	}

	updated, err := srv.storeSession(ctx, resp)
	if err != nil {
		return nil, err
	}

	srv.qcache.Invalidate(ctx, cache.TagUser)
	srv.notifier.Success("Profile updated")

	return updated, nil
}

func (srv *authService) DeleteAccount(ctx context.Context) error {
	session := srv.creds.Current()
	if session == nil {
		return apperrors.ErrNoSession
	}

	path := api.PathUsers + "/" + strconv.FormatInt(session.UserID, 10)
	if _, err := srv.client.Do(ctx, api.NewRequest(http.MethodDelete, path)); err != nil {
		srv.surface(err, "Failed to delete account")

		return errors.Wrap(err, "delete account request")
	}

	if err := srv.creds.Clear(ctx); err != nil {
		return errors.Wrap(err, "clear credentials")
	}

	srv.qcache.Invalidate(ctx, cache.TagUser, cache.TagPlay)
	srv.notifier.Success("Account deleted")

	return nil
}

func (srv *authService) CurrentSession() *entity.Session {
	return srv.creds.Current()
}

// storeSession decodes an identity payload and persists it as the session.
func (srv *authService) storeSession(ctx context.Context, resp *api.Response) (*entity.Session, error) {
	var payload userPayload
	if err := resp.Decode(&payload); err != nil {
		return nil, err
	}

	session := api.NewSession(payload.UserID, payload.Username, payload.Email, payload.Token)
	if err := srv.creds.Save(ctx, session); err != nil {
		return nil, errors.Wrap(err, "save session")
	}

	return session, nil
}

// surface notifies the most useful message for err: individual server field
// errors when present, otherwise the most specific single message.
func (srv *authService) surface(err error, fallback string) {
	if surfaceServerFieldErrors(err, srv.notifier) {
		return
	}

	srv.notifier.Error(apperrors.UserMessage(err, fallback))
}
