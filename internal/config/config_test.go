package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 7891, cfg.Server.Port)
	assert.Equal(t, 30, cfg.HTTP.TimeoutSeconds)
	assert.Equal(t, 0, cfg.HTTP.Retries)
	assert.Equal(t, 1, cfg.HTTP.Concurrency)
	assert.Equal(t, "http://127.0.0.1:7891", cfg.API.BaseURL)
	assert.Equal(t, "file", cfg.Storage.KV.Driver)
	assert.Equal(t, "./data/session.json", cfg.Storage.KV.Path)
	assert.Equal(t, "memory", cfg.Storage.Orders.Driver)
	assert.Equal(t, 22.28552, cfg.Geo.RefLat)
	assert.Equal(t, 114.15769, cfg.Geo.RefLng)
	assert.Equal(t, "user-1", cfg.User.ID)
	assert.Equal(t, "Franklin", cfg.User.Name)
	assert.Equal(t, "normal", cfg.Faults.Mode)
	assert.Equal(t, 5, cfg.Faults.RetryAfterSeconds)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadSelectsProfile(t *testing.T) {
	path := writeConfig(t, `
env: prod
local:
  server:
    port: 1111
prod:
  server:
    port: 8080
  api:
    base_url: https://deals.example.com/
  storage:
    kv:
      driver: Redis
      redis:
        addr: redis:6379
        prefix: df
    orders:
      driver: sqlite
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "https://deals.example.com", cfg.API.BaseURL)
	assert.Equal(t, "redis", cfg.Storage.KV.Driver)
	assert.Equal(t, "redis:6379", cfg.Storage.KV.Redis.Addr)
	assert.Equal(t, "df", cfg.Storage.KV.Redis.Prefix)
	assert.Equal(t, "sqlite", cfg.Storage.Orders.Driver)
	assert.Equal(t, "./data/orders.db", cfg.Storage.Orders.DSN)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
env: local
local:
  server:
    port: 1111
dev:
  server:
    port: 2222
`)
	t.Setenv("DEALFINDER_ENV", "dev")
	t.Setenv("DEALFINDER_PORT", "9999")
	t.Setenv("DEALFINDER_HOST", "127.0.0.1")
	t.Setenv("DEALFINDER_API_BASE_URL", "http://api:7891")
	t.Setenv("DEALFINDER_REDIS_ADDR", "cache:6380")
	t.Setenv("DEALFINDER_REDIS_PASSWORD", "secret")
	t.Setenv("DEALFINDER_DATABASE_DSN", "postgres://u:p@db/deals?sslmode=disable")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "http://api:7891", cfg.API.BaseURL)
	assert.Equal(t, "cache:6380", cfg.Storage.KV.Redis.Addr)
	assert.Equal(t, "secret", cfg.Storage.KV.Redis.Password)
	assert.Equal(t, "postgres://u:p@db/deals?sslmode=disable", cfg.Storage.Orders.DSN)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		env  map[string]string
	}{
		{name: "unknown env", yaml: "env: staging\n"},
		{name: "bad yaml", yaml: "env: [local\n"},
		{name: "bad port env", yaml: "env: local\n", env: map[string]string{"DEALFINDER_PORT": "http"}},
		{name: "bad kv driver", yaml: "local:\n  storage:\n    kv:\n      driver: etcd\n"},
		{name: "postgres without dsn", yaml: "local:\n  storage:\n    orders:\n      driver: postgres\n"},
		{name: "bad fault mode", yaml: "local:\n  faults:\n    mode: chaos\n"},
		{name: "bad error rate", yaml: "local:\n  faults:\n    mode: server_error\n    server_error_rate: 1.5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeConfig(t, tt.yaml))
			assert.Error(t, err)
		})
	}
}
