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
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 32, cfg.Server.BodyLimitMB)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "snapshots", cfg.Compare.SnapshotPrefix)
	assert.True(t, cfg.Compare.TreatReorderAsSame)
	assert.False(t, cfg.Compare.TypeAware)
	assert.Equal(t, 5*time.Minute, cfg.Compare.CacheTTL())
	assert.Equal(t, "sheets", cfg.Database.Name)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("COMPARE_TYPE_AWARE", "true")
	t.Setenv("COMPARE_CACHE_TTL_SECONDS", "0")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.Compare.Options().TypeAware)
	assert.Equal(t, time.Duration(0), cfg.Compare.CacheTTL())
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("STORAGE_BUCKET=diffs\nCOMPARE_IGNORE_CASE=1\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("STORAGE_BUCKET")
		os.Unsetenv("COMPARE_IGNORE_CASE")
	})

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "diffs", cfg.Storage.Bucket)
	assert.True(t, cfg.Compare.IgnoreCase)
}

func TestCompareConfig_Options(t *testing.T) {
	opts := CompareConfig{IgnoreWhitespace: true, StrictKeys: true}.Options()
	assert.True(t, opts.IgnoreWhitespace)
	assert.True(t, opts.StrictKeys)
	assert.False(t, opts.IgnoreCase)
}
