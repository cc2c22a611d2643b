package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  host: 127.0.0.1
  port: 9999
redis:
  addr: localhost:6379
game:
  select_timeout: 10
  win_points: 5
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9999", cfg.Addr())
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 10, cfg.Game.SelectTimeout)
	assert.Equal(t, 5, cfg.Game.WinPoints)
	// unset values fall back to defaults
	assert.Equal(t, 5, cfg.Game.RevealTimeout)
	assert.Equal(t, 20, cfg.Game.IntermissionTimeout)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, 30, cfg.Game.SelectTimeout)
	assert.Equal(t, 3, cfg.Game.WinPoints)
	assert.Empty(t, cfg.Redis.Addr, "leaderboard off unless configured")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LOWCARD_PORT", "7070")
	t.Setenv("LOWCARD_REDIS_ADDR", "redis:6379")

	cfg := Default()
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
}
