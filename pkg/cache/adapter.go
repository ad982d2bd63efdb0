package cache

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/edudash/edudash/pkg/cache/inmemory"
	"github.com/edudash/edudash/pkg/cache/redis"
)

// adapter maps backend specific sentinels onto the package level ones
type adapter struct {
	backend Cache
}

func (a *adapter) Get(ctx context.Context, key string) (interface{}, error) {
	val, err := a.backend.Get(ctx, key)
	if err != nil {
		if errors.Is(err, inmemory.ErrKeyNotFound) || errors.Is(err, redis.ErrKeyNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	return val, nil
}

func (a *adapter) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return a.backend.Set(ctx, key, value, ttl)
}

func (a *adapter) Delete(ctx context.Context, key string) error {
	return a.backend.Delete(ctx, key)
}

// Close releases the backend's connections, if it holds any
func (a *adapter) Close() error {
	if closer, ok := a.backend.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// IsNotFound reports whether err means the key is absent in any backend
func IsNotFound(err error) bool {
	return errors.Is(err, ErrKeyNotFound) ||
		errors.Is(err, inmemory.ErrKeyNotFound) ||
		errors.Is(err, redis.ErrKeyNotFound)
}
