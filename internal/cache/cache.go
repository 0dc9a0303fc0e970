// Package cache implements the keyed query cache between the request
// pipeline and the interactive views: fresh entries short-circuit fetches,
// and mutations invalidate entries by tag so dependent views refetch
// without manual triggers.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"gameplays/config"
)

// Tag groups cache entries for bulk invalidation.
type Tag string

// Tags carried by the application's queries and mutations.
const (
	TagGame Tag = "Game"
	TagUser Tag = "User"
	TagPlay Tag = "Play"
)

// Fetcher loads a value from the backend. Stored per entry so invalidation
// can refetch without the original caller.
type Fetcher func(ctx context.Context) (any, error)

type entry struct {
	key       string
	tags      []Tag
	data      any
	err       error
	fetchedAt time.Time
	fetcher   Fetcher

	// inflight is non-nil while a fetch for this key is running; waiters
	// block on it instead of issuing a duplicate fetch.
	inflight chan struct{}

	subscribers map[int]func()
	nextSubID   int
}

func (e *entry) hasTag(tags []Tag) bool {
	for _, want := range tags {
		for _, have := range e.tags {
			if want == have {
				return true
			}
		}
	}

	return false
}

// Cache is the shared query cache. All access is serialized through one
// mutex; fetchers run outside it.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]*entry
	logger  *slog.Logger
}

// New builds a Cache with the configured freshness window.
func New(cfg *config.Config, logger *slog.Logger) *Cache {
	return &Cache{
		ttl:     cfg.Cache.TTL,
		entries: make(map[string]*entry),
		logger:  logger,
	}
}

// Key derives a cache key from an endpoint name and its parameters, so
// identical calls map to the same entry.
func Key(endpoint string, params ...any) string {
	if len(params) == 0 {
		return endpoint
	}

	parts := make([]string, 0, len(params))
	for _, p := range params {
		data, err := json.Marshal(p)
		if err != nil {
			parts = append(parts, fmt.Sprintf("%v", p))

			continue
		}
		parts = append(parts, string(data))
	}

	return endpoint + "(" + strings.Join(parts, ",") + ")"
}

// Result is the outcome of a query as seen by a view.
type Result[T any] struct {
	Data    T
	Loading bool
	Err     error
}

// QueryOptions declares a query's invalidation tags and skip predicate.
type QueryOptions struct {
	Tags []Tag

	// Skip short-circuits the query: the fetcher is not invoked and the
	// result reports no data and no loading.
	Skip bool
}

// Query returns the cached value for key, fetching it when absent or stale.
// Identical keys with a fresh entry never re-invoke the fetcher. Concurrent
// queries for the same key share a single fetch.
func Query[T any](c *Cache, ctx context.Context, key string, opts QueryOptions, fetch func(ctx context.Context) (T, error)) Result[T] {
	if opts.Skip {
		return Result[T]{}
	}

	c.mu.Lock()

	e, ok := c.entries[key]
	if ok {
		if e.inflight != nil {
			// A fetch for this key is already running; wait for it.
			done := e.inflight
			c.mu.Unlock()
			select {
			case <-done:
			case <-ctx.Done():
				return Result[T]{Err: ctx.Err()}
			}
			c.mu.Lock()
		}
		if e.err == nil && !e.fetchedAt.IsZero() && time.Since(e.fetchedAt) < c.ttl {
			if data, ok := e.data.(T); ok {
				c.mu.Unlock()

				return Result[T]{Data: data}
			}
		}
	} else {
		e = &entry{key: key, subscribers: make(map[int]func())}
		c.entries[key] = e
	}

	e.tags = opts.Tags
	e.fetcher = func(ctx context.Context) (any, error) { return fetch(ctx) }
	done := make(chan struct{})
	e.inflight = done
	c.mu.Unlock()

	data, err := fetch(ctx)

	c.mu.Lock()
	e.data = data
	e.err = err
	e.fetchedAt = time.Now()
	e.inflight = nil
	close(done)
	listeners := collectSubscribers(e)
	c.mu.Unlock()

	notify(listeners)

	if err != nil {
		return Result[T]{Err: err}
	}

	return Result[T]{Data: data}
}

// MutationOptions declares which tags a mutation invalidates.
type MutationOptions struct {
	Invalidates []Tag
}

// Mutate runs a write against the backend and, on success, refetches every
// active entry sharing one of the invalidated tags.
func Mutate[T any](c *Cache, ctx context.Context, opts MutationOptions, run func(ctx context.Context) (T, error)) (T, error) {
	out, err := run(ctx)
	if err != nil {
		return out, err
	}

	c.Invalidate(ctx, opts.Invalidates...)

	return out, nil
}

// Invalidate refetches every subscribed entry carrying one of the given
// tags and marks unsubscribed matches stale so their next query refetches.
func (c *Cache) Invalidate(ctx context.Context, tags ...Tag) {
	if len(tags) == 0 {
		return
	}

	c.mu.Lock()
	var active []*entry
	for _, e := range c.entries {
		if !e.hasTag(tags) {
			continue
		}
		if len(e.subscribers) > 0 && e.fetcher != nil {
			active = append(active, e)
		} else {
			// Nobody is watching; drop freshness so the next query refetches.
			e.fetchedAt = time.Time{}
		}
	}
	c.mu.Unlock()

	for _, e := range active {
		c.refetch(ctx, e)
	}
}

// Refetch forces the entry for key to re-invoke its fetcher, bypassing
// freshness. Unknown keys are a no-op.
func (c *Cache) Refetch(ctx context.Context, key string) {
	c.mu.Lock()
	e, ok := c.entries[key]
	c.mu.Unlock()
	if !ok || e.fetcher == nil {
		return
	}

	c.refetch(ctx, e)
}

func (c *Cache) refetch(ctx context.Context, e *entry) {
	c.mu.Lock()
	fetch := e.fetcher
	c.mu.Unlock()

	data, err := fetch(ctx)

	c.mu.Lock()
	e.data = data
	e.err = err
	e.fetchedAt = time.Now()
	listeners := collectSubscribers(e)
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("Refetch failed", slog.String("key", e.key), slog.Any("error", err))
	}

	notify(listeners)
}

// Subscribe registers fn to run after every refetch of key, creating the
// entry if needed. The returned function unsubscribes; calling it more than
// once is safe, and notifications after unsubscribe are no-ops.
func (c *Cache) Subscribe(key string, fn func()) func() {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		e = &entry{key: key, subscribers: make(map[int]func())}
		c.entries[key] = e
	}
	id := e.nextSubID
	e.nextSubID++
	e.subscribers[id] = fn
	c.mu.Unlock()

	var once sync.Once

	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(e.subscribers, id)
			c.mu.Unlock()
		})
	}
}

// Peek returns the cached value for key without fetching.
func Peek[T any](c *Cache, key string) (T, bool) {
	var zero T

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || e.err != nil || e.fetchedAt.IsZero() {
		return zero, false
	}

	data, ok := e.data.(T)
	if !ok {
		return zero, false
	}

	return data, true
}

func collectSubscribers(e *entry) []func() {
	listeners := make([]func(), 0, len(e.subscribers))
	for _, fn := range e.subscribers {
		listeners = append(listeners, fn)
	}

	return listeners
}

func notify(listeners []func()) {
	for _, fn := range listeners {
		fn()
	}
}
