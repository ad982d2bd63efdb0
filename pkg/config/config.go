// Package config loads the application configuration with viper.
//
// Values come from config/<APP_ENV>.yaml (APP_ENV defaults to "local") and can
// be overridden with EDUDASH_* environment variables, e.g.
// EDUDASH_CACHE_DRIVER=redis or EDUDASH_STORE_ONCOURSEDELETE=cascade.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"

	"github.com/edudash/edudash/pkg/cache"
	"github.com/edudash/edudash/pkg/logger"
	"github.com/edudash/edudash/pkg/request/httpclient"
)

const (
	envPrefix        = "EDUDASH"
	defaultEnv       = "local"
	defaultConfigDir = "config"
)

type AppConfig struct {
	App       App             `mapstructure:"app"`
	Logger    logger.Config   `mapstructure:"logger"`
	Cache     cache.Config    `mapstructure:"cache"`
	Store     StoreConfig     `mapstructure:"store"`
	Assistant AssistantConfig `mapstructure:"assistant"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Jobs      JobsConfig      `mapstructure:"jobs"`
}

type App struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type StoreConfig struct {
	// KeyPrefix namespaces every slot key in the cache
	KeyPrefix string `mapstructure:"keyPrefix"`
	// OnCourseDelete is "orphan" (keep enrollments) or "cascade"
	OnCourseDelete string `mapstructure:"onCourseDelete"`
	// SeedFile optionally replaces the built-in default catalog
	SeedFile string `mapstructure:"seedFile"`
}

type AssistantConfig struct {
	// Driver is "canned" or "http"
	Driver         string                             `mapstructure:"driver"`
	URL            string                             `mapstructure:"url"`
	APIToken       string                             `mapstructure:"apiToken"`
	RetryCount     int                                `mapstructure:"retryCount"`
	ConnectionPool httpclient.ConnectionPoolConfig    `mapstructure:"connectionPool"`
	Hystrix        httpclient.HystrixResiliencyConfig `mapstructure:"hystrix"`
}

type TelemetryConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	OTLPEndpoint string `mapstructure:"otlpEndpoint"`
	Insecure     bool   `mapstructure:"insecure"`
}

type JobsConfig struct {
	AuditEnabled  bool          `mapstructure:"auditEnabled"`
	AuditInterval time.Duration `mapstructure:"auditInterval"`
}

var (
	appConfig     *AppConfig
	appConfigErr  error
	appConfigOnce sync.Once
)

// GetConfig loads the configuration once from CONFIG_DIR (default "config")
// and returns the cached result on subsequent calls
func GetConfig() (*AppConfig, error) {
	appConfigOnce.Do(func() {
		dir := os.Getenv("CONFIG_DIR")
		if dir == "" {
			dir = defaultConfigDir
		}
		appConfig, appConfigErr = LoadConfig(dir)
	})
	return appConfig, appConfigErr
}

// LoadConfig reads <dir>/<APP_ENV>.yaml. A missing file is not an error,
// defaults and environment overrides still apply.
func LoadConfig(dir string) (*AppConfig, error) {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = defaultEnv
	}

	v := viper.New()
	v.SetConfigName(env)
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	setDefaults(v, env)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, env string) {
	v.SetDefault("app.name", "edudash")
	v.SetDefault("app.version", "dev")
	v.SetDefault("app.environment", env)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "text")

	v.SetDefault("cache.driver", cache.DriverMemory)
	v.SetDefault("cache.inmemory.defaultExpiration", 0)
	v.SetDefault("cache.inmemory.cleanupInterval", 600)

	v.SetDefault("store.keyPrefix", "edudash")
	v.SetDefault("store.onCourseDelete", "orphan")
	v.SetDefault("store.seedFile", "")

	v.SetDefault("assistant.driver", "canned")
	v.SetDefault("assistant.url", "")
	v.SetDefault("assistant.apiToken", "")
	v.SetDefault("assistant.connectionPool.timeout", 10000)
	v.SetDefault("assistant.retryCount", 3)

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.otlpEndpoint", "")
	v.SetDefault("telemetry.insecure", false)

	v.SetDefault("jobs.auditEnabled", true)
	v.SetDefault("jobs.auditInterval", time.Hour)
}

// Validate checks the enumerated settings
func (c *AppConfig) Validate() error {
	switch c.Store.OnCourseDelete {
	case "orphan", "cascade":
	default:
		return fmt.Errorf("invalid store.onCourseDelete %q: want orphan or cascade", c.Store.OnCourseDelete)
	}

	switch c.Assistant.Driver {
	case "canned":
	case "http":
		if c.Assistant.URL == "" {
			return fmt.Errorf("assistant.url is required for the http driver")
		}
	default:
		return fmt.Errorf("invalid assistant.driver %q: want canned or http", c.Assistant.Driver)
	}

	if c.Jobs.AuditEnabled && c.Jobs.AuditInterval <= 0 {
		return fmt.Errorf("jobs.auditInterval must be positive")
	}
	return nil
}
