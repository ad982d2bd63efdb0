package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/edudash/edudash/pkg/cache"
	"github.com/edudash/edudash/pkg/cache/inmemory"
)

// fakeClock advances one second on every reading
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func sequentialIDs() func() string {
	var n int
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestCache(t *testing.T) cache.Cache {
	t.Helper()
	c, err := cache.New(&cache.Config{
		Driver:   cache.DriverMemory,
		InMemory: &inmemory.Config{DefaultExpiration: 300, CleanupInterval: 600},
	})
	require.NoError(t, err)
	return c
}

// setupStore returns a store with deterministic ids and clock over a fresh cache
func setupStore(t *testing.T, opts ...Option) (*Store, cache.Cache) {
	t.Helper()
	c := newTestCache(t)
	base := []Option{
		WithClock(newFakeClock().Now),
		WithIDGenerator(sequentialIDs()),
	}
	return New(c, append(base, opts...)...), c
}

func ptr[T any](v T) *T {
	return &v
}

// failingCache rejects writes to one key
type failingCache struct {
	cache.Cache
	failSet string
}

func (c *failingCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if key == c.failSet {
		return errors.New("write rejected")
	}
	return c.Cache.Set(ctx, key, value, ttl)
}
