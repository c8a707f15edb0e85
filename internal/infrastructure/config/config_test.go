package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "data/vfs-snapshot.json", cfg.Storage.SnapshotPath)
	assert.Equal(t, 1000, cfg.Shell.HistoryLimit)
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestLoadUsesDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, Default().Storage, cfg.Storage)
	assert.Equal(t, Default().Shell, cfg.Shell)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9001")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SNAPSHOT_PATH", "/tmp/alt-snapshot.json")
	t.Setenv("HISTORY_LIMIT", "25")
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9001", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/tmp/alt-snapshot.json", cfg.Storage.SnapshotPath)
	assert.Equal(t, 25, cfg.Shell.HistoryLimit)
	assert.False(t, cfg.RateLimit.Enabled)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("HISTORY_LIMIT", "not-a-number")

	_, err := Load()
	assert.Error(t, err)

	cfg := LoadOrDefault()
	assert.Equal(t, 1000, cfg.Shell.HistoryLimit, "bad env falls back to defaults")
}
