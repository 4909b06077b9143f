package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.env"), []byte(content), 0o600))
	return dir
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.ServerAddress)
	assert.Equal(t, BackendMemory, cfg.StorageBackend)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, PolicyAny, cfg.EditPolicy)
	assert.Equal(t, PolicyAny, cfg.DeletePolicy)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	assert.Empty(t, cfg.TrustedProxies)
	assert.False(t, cfg.UniqueApplications)
}

func TestLoadConfig_FromFile(t *testing.T) {
	dir := writeEnvFile(t, `SERVER_ADDRESS=127.0.0.1:9090
STORAGE_BACKEND=postgres
POSTGRES_CONN=postgres://u:p@db:5432/rentr?sslmode=disable
REQUEST_TIMEOUT=2s
CORS_ORIGINS=http://a.test, http://b.test
EDIT_POLICY=open-only
UNIQUE_APPLICATIONS=true
RATE_LIMIT_RPS=2.5
TRUSTED_PROXIES=10.0.0.0/8, 192.0.2.1
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.ServerAddress)
	assert.Equal(t, BackendPostgres, cfg.StorageBackend)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, PolicyOpenOnly, cfg.EditPolicy)
	assert.True(t, cfg.UniqueApplications)
	assert.InDelta(t, 2.5, cfg.RateLimitRPS, 0.0001)
	assert.Equal(t, []string{"10.0.0.0/8", "192.0.2.1"}, cfg.TrustedProxies)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	dir := writeEnvFile(t, "SERVER_ADDRESS=127.0.0.1:9090\n")
	t.Setenv("SERVER_ADDRESS", "127.0.0.1:7070")
	t.Setenv("STORAGE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "cache:6379")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:7070", cfg.ServerAddress)
	assert.Equal(t, BackendRedis, cfg.StorageBackend)
	assert.Equal(t, "cache:6379", cfg.RedisAddr)
}

func TestConfigValidate(t *testing.T) {
	valid := Config{
		StorageBackend: BackendMemory,
		EditPolicy:     PolicyAny,
		DeletePolicy:   PolicyAny,
		RequestTimeout: time.Second,
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "unknown backend", mutate: func(c *Config) { c.StorageBackend = "sqlite" }, wantErr: "STORAGE_BACKEND"},
		{name: "postgres without conn", mutate: func(c *Config) { c.StorageBackend = BackendPostgres }, wantErr: "POSTGRES_CONN"},
		{name: "redis without addr", mutate: func(c *Config) { c.StorageBackend = BackendRedis }, wantErr: "REDIS_ADDR"},
		{name: "bad edit policy", mutate: func(c *Config) { c.EditPolicy = "never" }, wantErr: "EDIT_POLICY"},
		{name: "bad delete policy", mutate: func(c *Config) { c.DeletePolicy = "" }, wantErr: "DELETE_POLICY"},
		{name: "zero timeout", mutate: func(c *Config) { c.RequestTimeout = 0 }, wantErr: "REQUEST_TIMEOUT"},
		{name: "negative rate", mutate: func(c *Config) { c.RateLimitRPS = -1 }, wantErr: "RATE_LIMIT_RPS"},
		{name: "bad trusted proxy", mutate: func(c *Config) { c.TrustedProxies = []string{"proxy.local"} }, wantErr: "TRUSTED_PROXIES"},
		{name: "trusted proxies", mutate: func(c *Config) { c.TrustedProxies = []string{"10.0.0.0/8", "::1"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
