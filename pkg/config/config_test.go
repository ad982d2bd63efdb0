package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "edudash", cfg.App.Name)
	assert.Equal(t, "local", cfg.App.Environment)
	assert.Equal(t, "memory", cfg.Cache.Driver)
	require.NotNil(t, cfg.Cache.InMemory)
	assert.Equal(t, int32(600), cfg.Cache.InMemory.CleanupInterval)
	assert.Equal(t, "edudash", cfg.Store.KeyPrefix)
	assert.Equal(t, "orphan", cfg.Store.OnCourseDelete)
	assert.Equal(t, "canned", cfg.Assistant.Driver)
	assert.Equal(t, 10000, cfg.Assistant.ConnectionPool.Timeout)
	assert.Equal(t, time.Hour, cfg.Jobs.AuditInterval)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	content := `
app:
  name: edudash-test
cache:
  driver: redis
  redis:
    host: localhost
    port: "6380"
store:
  onCourseDelete: cascade
  seedFile: seed.yaml
jobs:
  auditInterval: 5m
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "qa.yaml"), []byte(content), 0o600))
	t.Setenv("APP_ENV", "qa")
	t.Setenv("EDUDASH_LOGGER_LEVEL", "debug")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "edudash-test", cfg.App.Name)
	assert.Equal(t, "qa", cfg.App.Environment)
	assert.Equal(t, "redis", cfg.Cache.Driver)
	require.NotNil(t, cfg.Cache.Redis)
	assert.Equal(t, "6380", cfg.Cache.Redis.Port)
	assert.Equal(t, "cascade", cfg.Store.OnCourseDelete)
	assert.Equal(t, "seed.yaml", cfg.Store.SeedFile)
	assert.Equal(t, 5*time.Minute, cfg.Jobs.AuditInterval)
	assert.Equal(t, "debug", cfg.Logger.Level)
}

func TestAppConfig_Validate(t *testing.T) {
	valid := func() *AppConfig {
		return &AppConfig{
			Store:     StoreConfig{OnCourseDelete: "orphan"},
			Assistant: AssistantConfig{Driver: "canned"},
			Jobs:      JobsConfig{AuditEnabled: true, AuditInterval: time.Minute},
		}
	}

	tests := []struct {
		name        string
		mutate      func(c *AppConfig)
		errContains string
	}{
		{name: "valid", mutate: func(c *AppConfig) {}},
		{
			name:        "unknown delete policy",
			mutate:      func(c *AppConfig) { c.Store.OnCourseDelete = "restrict" },
			errContains: "store.onCourseDelete",
		},
		{
			name:        "http assistant without url",
			mutate:      func(c *AppConfig) { c.Assistant.Driver = "http" },
			errContains: "assistant.url",
		},
		{
			name:        "unknown assistant driver",
			mutate:      func(c *AppConfig) { c.Assistant.Driver = "gemini" },
			errContains: "assistant.driver",
		},
		{
			name:        "audit without interval",
			mutate:      func(c *AppConfig) { c.Jobs.AuditInterval = 0 },
			errContains: "jobs.auditInterval",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errContains == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.errContains)
		})
	}
}
