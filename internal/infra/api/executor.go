package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"

	"gameplays/config"
	"gameplays/internal/appcontext"
	apperrors "gameplays/internal/domain/errors"
	"gameplays/internal/errors"
)

// Executor performs single HTTP calls against the backend. It owns the
// cookie jar that carries the session cookie across requests, mirroring the
// browser's credentialed fetches.
type Executor struct {
	base       *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// NewExecutor builds an Executor from configuration.
func NewExecutor(cfg *config.Config, logger *slog.Logger) (*Executor, error) {
	base, err := url.Parse(cfg.API.BaseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "parse base URL %q", cfg.API.BaseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(err, "create cookie jar")
	}

	return &Executor{
		base: base,
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: cfg.API.Timeout,
		},
		logger: logger,
	}, nil
}

// Do executes req and normalizes the outcome: a *Response for 2xx statuses,
// *apperrors.StatusError for anything else the server answered with, and
// *apperrors.TransportError when no usable response arrived.
func (e *Executor) Do(ctx context.Context, req *Request) (*Response, error) {
	target := e.base.JoinPath(req.Path)
	if len(req.Query) > 0 {
		target.RawQuery = req.Query.Encode()
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target.String(), body)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	requestID := appcontext.GetRequestID(ctx)
	if requestID == "" {
		requestID = appcontext.NewRequestID()
	}
	httpReq.Header.Set(appcontext.HeaderXRequestID, requestID)

	logger := appcontext.GetLoggerOrDefault(ctx, e.logger).With(
		slog.String("method", req.Method),
		slog.String("path", req.Path),
		slog.String("requestID", requestID),
	)
	logger.Debug("Sending request")

	httpResp, err := e.httpClient.Do(httpReq)
	if err != nil {
		logger.Warn("Request failed", slog.Any("error", err))

		return nil, &apperrors.TransportError{Err: err}
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &apperrors.TransportError{Err: err}
	}

	logger.Debug("Received response", slog.Int("status", httpResp.StatusCode))

	if httpResp.StatusCode < http.StatusOK || httpResp.StatusCode >= http.StatusMultipleChoices {
		return nil, &apperrors.StatusError{
			Code: httpResp.StatusCode,
			Body: decodeErrorBody(data),
		}
	}

	if len(data) > 0 && !json.Valid(data) {
		return nil, &apperrors.DecodeError{Err: errors.New("response body is not valid JSON")}
	}

	return &Response{
		Status: httpResp.StatusCode,
		Header: httpResp.Header,
		Body:   data,
	}, nil
}

// decodeErrorBody decodes the backend's error payload. Bodies that are not
// the expected shape produce an empty ErrorBody; the status code alone still
// classifies the failure.
func decodeErrorBody(data []byte) apperrors.ErrorBody {
	var body apperrors.ErrorBody
	if len(data) == 0 {
		return body
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return apperrors.ErrorBody{}
	}

	return body
}

var _ Client = (*Executor)(nil)
