package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/edudash/edudash/pkg/cache/inmemory"
	"github.com/edudash/edudash/pkg/cache/redis"
)

// NoExpiration marks an entry that never expires.
// Backends translate it to their own "keep forever" value.
const NoExpiration time.Duration = -1

const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// ErrKeyNotFound is returned by Get when the key is absent.
var ErrKeyNotFound = errors.New("key not found")

// Cache is the durable key-value medium the store persists its slots into.
// Values are stored as strings; callers own the serialization format.
type Cache interface {
	// Get returns the value stored under key or ErrKeyNotFound
	Get(ctx context.Context, key string) (interface{}, error)

	// Set stores value under key for ttl (NoExpiration keeps it forever)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes key; deleting an absent key is not an error
	Delete(ctx context.Context, key string) error
}

// Config selects and configures a cache backend
type Config struct {
	Driver   string           `mapstructure:"driver" yaml:"driver"`
	InMemory *inmemory.Config `mapstructure:"inmemory" yaml:"inmemory"`
	Redis    *redis.Config    `mapstructure:"redis" yaml:"redis"`
}

// New creates the cache backend named by cfg.Driver.
// An empty driver falls back to the in-memory backend.
func New(cfg *Config) (Cache, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	switch cfg.Driver {
	case "", DriverMemory:
		memCfg := cfg.InMemory
		if memCfg == nil {
			memCfg = &inmemory.Config{}
		}
		c, err := inmemory.NewCache(memCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create in-memory cache: %w", err)
		}
		return &adapter{backend: c}, nil
	case DriverRedis:
		if cfg.Redis == nil {
			return nil, fmt.Errorf("redis cache configuration is missing")
		}
		c, err := redis.NewCache(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to create redis cache: %w", err)
		}
		return &adapter{backend: c}, nil
	default:
		return nil, fmt.Errorf("unsupported cache driver: %s", cfg.Driver)
	}
}
