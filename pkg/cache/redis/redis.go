// Package redis is a cache backend that keeps values in a Redis server.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	goredis "github.com/redis/go-redis/v9"
)

// ErrKeyNotFound is returned by Get when the key does not exist
var ErrKeyNotFound = errors.New("redis: key not found")

type Config struct {
	Host     string `mapstructure:"host" yaml:"host"`
	Port     string `mapstructure:"port" yaml:"port"`
	Database int32  `mapstructure:"database" yaml:"database"`
	Password string `mapstructure:"password" yaml:"password"`
	// Tracing instruments the client with OpenTelemetry spans
	Tracing bool `mapstructure:"tracing" yaml:"tracing"`
}

type Cache struct {
	client *goredis.Client
}

// NewCache connects to redis and verifies the connection with a PING
func NewCache(cfg *Config) (*Cache, error) {
	if cfg == nil {
		return nil, errors.New("redis: config is nil")
	}
	if cfg.Host == "" {
		return nil, errors.New("redis: host is required")
	}

	port := cfg.Port
	if port == "" {
		port = "6379"
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, port),
		Password: cfg.Password,
		DB:       int(cfg.Database),
	})

	if cfg.Tracing {
		if err := redisotel.InstrumentTracing(client); err != nil {
			return nil, fmt.Errorf("failed to instrument redis client: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Cache{client: client}, nil
}

func (c *Cache) Get(ctx context.Context, key string) (interface{}, error) {
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

// Set stores value; a negative ttl never expires
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if ttl < 0 {
		// 0 means "no expiration" for redis, -1 would be KEEPTTL
		ttl = 0
	}
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil && !errors.Is(err, goredis.Nil) {
		return err
	}
	return nil
}

// Close releases the underlying connection pool
func (c *Cache) Close() error {
	return c.client.Close()
}
