package cache

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"gameplays/config"
	"gameplays/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(ttl time.Duration) *Cache {
	cfg := &config.Config{Cache: &config.CacheConfig{TTL: ttl}}

	return New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestQuery_FreshEntryShortCircuits(t *testing.T) {
	c := newTestCache(time.Minute)
	ctx := context.Background()

	var fetches atomic.Int32
	fetch := func(context.Context) ([]string, error) {
		fetches.Add(1)

		return []string{"a", "b"}, nil
	}

	first := Query(c, ctx, "plays(42)", QueryOptions{Tags: []Tag{TagPlay}}, fetch)
	require.NoError(t, first.Err)
	assert.Equal(t, []string{"a", "b"}, first.Data)

	second := Query(c, ctx, "plays(42)", QueryOptions{Tags: []Tag{TagPlay}}, fetch)
	require.NoError(t, second.Err)
	assert.Equal(t, first.Data, second.Data)

	assert.Equal(t, int32(1), fetches.Load(), "fresh entry must not re-invoke the fetcher")
}

func TestQuery_SkipPredicate(t *testing.T) {
	c := newTestCache(time.Minute)

	var fetches atomic.Int32
	result := Query(c, context.Background(), "plays(0)", QueryOptions{Skip: true}, func(context.Context) ([]string, error) {
		fetches.Add(1)

		return []string{"never"}, nil
	})

	assert.Equal(t, int32(0), fetches.Load(), "skipped query must not fetch")
	assert.False(t, result.Loading)
	assert.Nil(t, result.Data)
	assert.NoError(t, result.Err)
}

func TestQuery_ErrorIsNotCached(t *testing.T) {
	c := newTestCache(time.Minute)
	ctx := context.Background()

	var fetches atomic.Int32
	failing := func(context.Context) (string, error) {
		fetches.Add(1)

		return "", errors.New("boom")
	}

	result := Query(c, ctx, "game(1)", QueryOptions{Tags: []Tag{TagGame}}, failing)
	require.Error(t, result.Err)

	ok := func(context.Context) (string, error) {
		fetches.Add(1)

		return "fine", nil
	}
	result = Query(c, ctx, "game(1)", QueryOptions{Tags: []Tag{TagGame}}, ok)
	require.NoError(t, result.Err)
	assert.Equal(t, "fine", result.Data)
	assert.Equal(t, int32(2), fetches.Load())
}

func TestMutate_InvalidatesSubscribedEntries(t *testing.T) {
	c := newTestCache(time.Minute)
	ctx := context.Background()

	var fetches atomic.Int32
	fetch := func(context.Context) ([]string, error) {
		fetches.Add(1)

		return []string{"play"}, nil
	}

	result := Query(c, ctx, "plays(42)", QueryOptions{Tags: []Tag{TagPlay}}, fetch)
	require.NoError(t, result.Err)
	require.Equal(t, int32(1), fetches.Load())

	var notified atomic.Int32
	unsubscribe := c.Subscribe("plays(42)", func() { notified.Add(1) })
	defer unsubscribe()

	_, err := Mutate(c, ctx, MutationOptions{Invalidates: []Tag{TagPlay}}, func(context.Context) (string, error) {
		return "created", nil
	})
	require.NoError(t, err)

	// The Play-tagged query refetched and its subscriber was notified.
	assert.Equal(t, int32(2), fetches.Load())
	assert.Equal(t, int32(1), notified.Load())
}

func TestMutate_FailedMutationDoesNotInvalidate(t *testing.T) {
	c := newTestCache(time.Minute)
	ctx := context.Background()

	var fetches atomic.Int32
	result := Query(c, ctx, "plays(42)", QueryOptions{Tags: []Tag{TagPlay}}, func(context.Context) (string, error) {
		fetches.Add(1)

		return "play", nil
	})
	require.NoError(t, result.Err)

	unsubscribe := c.Subscribe("plays(42)", func() {})
	defer unsubscribe()

	_, err := Mutate(c, ctx, MutationOptions{Invalidates: []Tag{TagPlay}}, func(context.Context) (string, error) {
		return "", errors.New("server rejected")
	})
	require.Error(t, err)

	assert.Equal(t, int32(1), fetches.Load(), "failed mutation must not trigger refetch")
}

func TestInvalidate_UnsubscribedEntryGoesStale(t *testing.T) {
	c := newTestCache(time.Minute)
	ctx := context.Background()

	var fetches atomic.Int32
	fetch := func(context.Context) (string, error) {
		fetches.Add(1)

		return "value", nil
	}

	Query(c, ctx, "game(9)", QueryOptions{Tags: []Tag{TagGame}}, fetch)
	require.Equal(t, int32(1), fetches.Load())

	// No subscribers: invalidation marks the entry stale instead of
	// refetching eagerly.
	c.Invalidate(ctx, TagGame)
	assert.Equal(t, int32(1), fetches.Load())

	Query(c, ctx, "game(9)", QueryOptions{Tags: []Tag{TagGame}}, fetch)
	assert.Equal(t, int32(2), fetches.Load())
}

func TestInvalidate_UnrelatedTagUntouched(t *testing.T) {
	c := newTestCache(time.Minute)
	ctx := context.Background()

	var fetches atomic.Int32
	fetch := func(context.Context) (string, error) {
		fetches.Add(1)

		return "value", nil
	}

	Query(c, ctx, "game(9)", QueryOptions{Tags: []Tag{TagGame}}, fetch)
	unsubscribe := c.Subscribe("game(9)", func() {})
	defer unsubscribe()

	c.Invalidate(ctx, TagPlay)

	assert.Equal(t, int32(1), fetches.Load())
}

func TestSubscribe_UnsubscribeStopsNotifications(t *testing.T) {
	c := newTestCache(time.Minute)
	ctx := context.Background()

	Query(c, ctx, "plays(1)", QueryOptions{Tags: []Tag{TagPlay}}, func(context.Context) (string, error) {
		return "v", nil
	})

	var notified atomic.Int32
	unsubscribe := c.Subscribe("plays(1)", func() { notified.Add(1) })
	unsubscribe()
	unsubscribe() // double-unsubscribe is safe

	c.Invalidate(ctx, TagPlay)

	assert.Equal(t, int32(0), notified.Load())
}

func TestKey_DerivesFromEndpointAndParams(t *testing.T) {
	assert.Equal(t, "plays", Key("plays"))
	assert.Equal(t, Key("plays", 42), Key("plays", 42))
	assert.NotEqual(t, Key("plays", 42), Key("plays", 43))
	assert.NotEqual(t, Key("plays", 42), Key("games", 42))
}

func TestPeek_ReturnsCachedValue(t *testing.T) {
	c := newTestCache(time.Minute)
	ctx := context.Background()

	_, ok := Peek[string](c, "game(3)")
	assert.False(t, ok)

	Query(c, ctx, "game(3)", QueryOptions{Tags: []Tag{TagGame}}, func(context.Context) (string, error) {
		return "zelda", nil
	})

	got, ok := Peek[string](c, "game(3)")
	require.True(t, ok)
	assert.Equal(t, "zelda", got)
}
