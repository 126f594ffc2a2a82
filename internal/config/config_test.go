package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "https://api.ytimes.ru/ex/menu", cfg.BaseURL)
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
	assert.Equal(t, 3600, cfg.MenuTTLSeconds)
	assert.Equal(t, time.Hour, cfg.MenuTTL())
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, ":3000", cfg.Addr())
	assert.Equal(t, time.Duration(0), cfg.UpstreamTimeout)
	assert.False(t, cfg.SingleFlight)
	assert.Equal(t, 64, cfg.MaxDepth)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("YT_API_KEY", "abc")
	t.Setenv("MENU_TTL", "120")
	t.Setenv("PORT", "8081")
	t.Setenv("UPSTREAM_TIMEOUT", "5s")
	t.Setenv("MENU_SINGLEFLIGHT", "true")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "abc", cfg.APIKey)
	assert.Equal(t, 2*time.Minute, cfg.MenuTTL())
	assert.Equal(t, ":8081", cfg.Addr())
	assert.Equal(t, 5*time.Second, cfg.UpstreamTimeout)
	assert.True(t, cfg.SingleFlight)

	up := cfg.Upstream()
	assert.Equal(t, "abc", up.APIKey)
	assert.Equal(t, 5*time.Second, up.Timeout)

	svc := cfg.Service()
	assert.Equal(t, 2*time.Minute, svc.TTL)
	assert.True(t, svc.SingleFlight)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "ttl not an int", key: "MENU_TTL", value: "soon"},
		{name: "ttl zero", key: "MENU_TTL", value: "0"},
		{name: "negative depth", key: "MENU_MAX_DEPTH", value: "-1"},
		{name: "bad timeout", key: "UPSTREAM_TIMEOUT", value: "forever"},
		{name: "negative timeout", key: "UPSTREAM_TIMEOUT", value: "-1s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Parse()
			assert.Error(t, err)
		})
	}
}

func TestRedisOptions(t *testing.T) {
	cfg := Config{RedisURL: "redis://:pw@cache.internal:6380/2"}
	opts, err := cfg.RedisOptions()
	require.NoError(t, err)
	assert.Equal(t, "cache.internal:6380", opts.Addr)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 2, opts.DB)

	cfg = Config{RedisURL: "localhost:6379"}
	opts, err = cfg.RedisOptions()
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)

	cfg = Config{RedisURL: "http://nope"}
	_, err = cfg.RedisOptions()
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MENU_TTL=42\n"), 0o600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		os.Chdir(wd)
		os.Unsetenv("MENU_TTL")
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.MenuTTLSeconds)
}

func TestLoadWithoutDotEnv(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(wd) })

	_, err = Load()
	assert.NoError(t, err)
}
