package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":3000", cfg.Addr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "data/db.json", cfg.DataFile)
	assert.Equal(t, "assessments", cfg.MongoCollection)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SIGNALVIZ_ADDR", ":9999")
	t.Setenv("SIGNALVIZ_MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("SIGNALVIZ_LOGIN_RATE_LIMIT", "3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, 3, cfg.LoginRateLimit)
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "addr: \":4000\"\nlog_level: debug\nauthorized_ids:\n  - Water2026\n  - Earth1919\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	t.Setenv("SIGNALVIZ_CONFIG", path)
	t.Setenv("SIGNALVIZ_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":4000", cfg.Addr)
	// env wins over file
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, []string{"Water2026", "Earth1919"}, cfg.AuthorizedIDs)
}
