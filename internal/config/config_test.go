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

	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "./wordcards.db", cfg.Storage.Path)
	assert.Equal(t, "vocab-card-progress", cfg.Keys.Progress)
	assert.Equal(t, "vocab-card-achievements", cfg.Keys.Achievements)
	assert.Equal(t, "vocab-card-stats", cfg.Keys.Stats)
	assert.Equal(t, "vocab-card-session", cfg.Keys.Session)
	assert.Equal(t, 10*time.Second, cfg.Audio.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFromEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORAGE_DRIVER", "redis")
	t.Setenv("STORAGE_REDIS_ADDR", "cache:6380")
	t.Setenv("STORAGE_REDIS_DB", "3")
	t.Setenv("KEYS_STATS", "custom-stats")
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.Storage.Driver)
	assert.Equal(t, "cache:6380", cfg.Storage.RedisAddr)
	assert.Equal(t, 3, cfg.Storage.RedisDB)
	assert.Equal(t, "custom-stats", cfg.Keys.Stats)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestDefaultMatchesLoad(t *testing.T) {
	chdir(t, t.TempDir())

	loaded, err := Load()
	require.NoError(t, err)

	assert.Equal(t, loaded, Default())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	content := "storage:\n  driver: memory\naudio:\n  enabled: true\n  timeout: 3s\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wordcards.yaml"), []byte(content), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.True(t, cfg.Audio.Enabled)
	assert.Equal(t, 3*time.Second, cfg.Audio.Timeout)
	assert.Equal(t, "vocab-card-progress", cfg.Keys.Progress)
}

// chdir changes the working directory for the duration of the test
// (equivalent to testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
