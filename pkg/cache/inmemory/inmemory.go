// Package inmemory is a process local cache backend built on go-cache.
package inmemory

import (
	"context"
	"errors"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// ErrKeyNotFound is returned by Get when the key is absent or expired
var ErrKeyNotFound = errors.New("inmemory: key not found")

// Config holds expiration settings in seconds.
// Zero DefaultExpiration keeps entries forever.
type Config struct {
	DefaultExpiration int32 `mapstructure:"defaultExpiration" yaml:"defaultExpiration"`
	CleanupInterval   int32 `mapstructure:"cleanupInterval" yaml:"cleanupInterval"`
}

type Cache struct {
	client *gocache.Cache
}

// NewCache creates an in-memory cache
func NewCache(cfg *Config) (*Cache, error) {
	if cfg == nil {
		return nil, errors.New("inmemory: config is nil")
	}
	if cfg.DefaultExpiration < 0 || cfg.CleanupInterval < 0 {
		return nil, errors.New("inmemory: expiration settings must not be negative")
	}

	defaultExpiration := gocache.NoExpiration
	if cfg.DefaultExpiration > 0 {
		defaultExpiration = time.Duration(cfg.DefaultExpiration) * time.Second
	}

	return &Cache{
		client: gocache.New(defaultExpiration, time.Duration(cfg.CleanupInterval)*time.Second),
	}, nil
}

func (c *Cache) Get(_ context.Context, key string) (interface{}, error) {
	val, found := c.client.Get(key)
	if !found {
		return nil, ErrKeyNotFound
	}
	return val, nil
}

// Set stores value; a negative ttl never expires and zero uses the default
func (c *Cache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	if ttl < 0 {
		ttl = gocache.NoExpiration
	}
	c.client.Set(key, value, ttl)
	return nil
}

func (c *Cache) Delete(_ context.Context, key string) error {
	c.client.Delete(key)
	return nil
}
