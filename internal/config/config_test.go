package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "http://localhost:8000", cfg.Search.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Search.Timeout)
	assert.Equal(t, 1, cfg.Search.DefaultDifficulty)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 1000, cfg.Session.MaxSessions)
	assert.Equal(t, "info", cfg.Development.LogLevel)
	assert.Equal(t, "localhost:8080", cfg.Addr())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
server:
  host: 0.0.0.0
  port: 9090
  static_dir: ./web/static
search:
  base_url: https://search.example.com
  timeout: 5s
  default_difficulty: 3
session:
  ttl: 30m
  max_sessions: 10
development:
  debug: true
  log_level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.Addr())
	assert.Equal(t, "./web/static", cfg.Server.StaticDir)
	assert.Equal(t, "https://search.example.com", cfg.Search.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Search.Timeout)
	assert.Equal(t, 3, cfg.Search.DefaultDifficulty)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, 10, cfg.Session.MaxSessions)
	assert.Equal(t, time.Minute, cfg.Session.SweepInterval)
	assert.True(t, cfg.Development.Debug)
}

func TestEnvironmentOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CEZ_SERVER_PORT", "7000")
	t.Setenv("CEZ_SEARCH_BASE_URL", "http://engine:5000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "http://engine:5000", cfg.Search.BaseURL)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad difficulty", "search:\n  default_difficulty: 5\n"},
		{"bad port", "server:\n  port: 70000\n"},
		{"negative session limit", "session:\n  max_sessions: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.data), 0o600))

			_, err := LoadFile(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
