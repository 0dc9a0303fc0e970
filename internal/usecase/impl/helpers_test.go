package impl

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"gameplays/config"
	"gameplays/internal/cache"
	"gameplays/internal/domain/entity"
	"gameplays/internal/infra/api"

	"github.com/stretchr/testify/require"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	cfg := &config.Config{
		// A short window keeps the debounce tests fast.
		Search:  &config.SearchConfig{Debounce: 10 * time.Millisecond, MinLength: 1},
		Cache:   &config.CacheConfig{TTL: time.Minute},
		Storage: &config.StorageConfig{},
	}
	cfg.API.ResultLimit = 10

	return cfg
}

func newTestCache(t *testing.T) *cache.Cache {
	t.Helper()

	return cache.New(newTestConfig(), newDiscardLogger())
}

// recordedCall captures one request the fake client served.
type recordedCall struct {
	Method  string
	Path    string
	Query   map[string]string
	Headers map[string]string
	Body    []byte
}

// fakeClient implements api.Client with a scripted handler and records every
// request it serves.
type fakeClient struct {
	mu      sync.Mutex
	handler func(req *api.Request) (*api.Response, error)
	calls   []recordedCall
}

func (f *fakeClient) Do(_ context.Context, req *api.Request) (*api.Response, error) {
	f.mu.Lock()
	call := recordedCall{Method: req.Method, Path: req.Path, Query: map[string]string{}, Headers: map[string]string{}, Body: req.Body}
	for key := range req.Query {
		call.Query[key] = req.Query.Get(key)
	}
	for key, value := range req.Headers {
		call.Headers[key] = value
	}
	f.calls = append(f.calls, call)
	handler := f.handler
	f.mu.Unlock()

	return handler(req)
}

func (f *fakeClient) Calls() []recordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]recordedCall, len(f.calls))
	copy(out, f.calls)

	return out
}

func jsonResponse(t *testing.T, status int, v any) *api.Response {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err)

	return &api.Response{Status: status, Body: data}
}

// fakeCreds is an in-memory credential repository.
type fakeCreds struct {
	mu      sync.Mutex
	current *entity.Session
	saves   int
	clears  int
}

func (f *fakeCreds) Load(context.Context) (*entity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.current, nil
}

func (f *fakeCreds) Save(_ context.Context, session *entity.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.current = session
	f.saves++

	return nil
}

func (f *fakeCreds) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.current = nil
	f.clears++

	return nil
}

func (f *fakeCreds) Current() *entity.Session {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.current
}

// recordingNotifier collects notifications for assertions.
type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(message string) {
	n.mu.Lock()
	n.successes = append(n.successes, message)
	n.mu.Unlock()
}

func (n *recordingNotifier) Error(message string) {
	n.mu.Lock()
	n.errors = append(n.errors, message)
	n.mu.Unlock()
}

func (n *recordingNotifier) Errors() []string {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]string, len(n.errors))
	copy(out, n.errors)

	return out
}

func (n *recordingNotifier) Successes() []string {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]string, len(n.successes))
	copy(out, n.successes)

	return out
}

// fakeNavigator records navigation targets.
type fakeNavigator struct {
	mu      sync.Mutex
	visited []string
	err     error
}

func (f *fakeNavigator) Navigate(url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	f.visited = append(f.visited, url)

	return nil
}

func (f *fakeNavigator) Visited() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, len(f.visited))
	copy(out, f.visited)

	return out
}
