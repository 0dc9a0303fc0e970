// Package api implements the HTTP request executor and the reauthenticating
// pipeline in front of the Gameplays backend.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	apperrors "gameplays/internal/domain/errors"
	"gameplays/internal/errors"
)

// Backend endpoint paths, relative to the configured base URL.
const (
	PathAuthLogin    = "/auth/login"
	PathAuthRefresh  = "/auth/refresh"
	PathAuthLogout   = "/auth/logout"
	PathUserRegister = "/users/register"
	PathUsers        = "/users"
	PathGames        = "/games"
	PathGamesSearch  = "/games/search"
	PathPlays        = "/plays"
)

// HeaderResultLimit caps the number of search results the backend returns.
const HeaderResultLimit = "Result-Limit"

// Request describes a single backend call. The body is held as marshaled
// bytes so the pipeline can re-send the identical request after a token
// refresh.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Headers map[string]string
	Body    []byte
}

// NewRequest builds a bodyless request.
func NewRequest(method, path string) *Request {
	return &Request{
		Method:  method,
		Path:    path,
		Query:   url.Values{},
		Headers: map[string]string{},
	}
}

// WithQuery adds a query parameter and returns the request for chaining.
func (r *Request) WithQuery(key, value string) *Request {
	r.Query.Set(key, value)

	return r
}

// WithHeader adds a header and returns the request for chaining.
func (r *Request) WithHeader(key, value string) *Request {
	r.Headers[key] = value

	return r
}

// WithJSONBody marshals v once and stores the bytes as the request body.
func (r *Request) WithJSONBody(v any) (*Request, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "marshal request body")
	}

	r.Body = data
	r.Headers["Content-Type"] = "application/json"

	return r, nil
}

// Response is a normalized successful HTTP result. Non-2xx statuses are
// returned as *apperrors.StatusError instead.
type Response struct {
	Status int
	Header http.Header
	Body   json.RawMessage
}

// Decode unmarshals the response body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return &apperrors.DecodeError{Err: err}
	}

	return nil
}

// Client is the request surface shared by the bare executor and the
// reauthenticating pipeline. Usecases depend on this interface so tests can
// substitute either.
type Client interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}
