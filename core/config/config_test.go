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

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "us-east-1", cfg.Route53.Region)
	assert.Equal(t, 10*time.Second, cfg.Commit.PollInterval())
	assert.Equal(t, 180, cfg.Commit.MaxPolls)
	assert.Equal(t, 5, cfg.Commit.RetryAttempts)
	assert.Equal(t, 2*time.Second, cfg.Commit.RetryDelay())
	assert.False(t, cfg.Archive.Enabled)
	assert.Equal(t, "runs", cfg.Archive.Prefix)
	assert.Equal(t, "hesiod53", cfg.Storage.Bucket)
	assert.Equal(t, "/etc/hesiod.conf", cfg.Hesiod.ConfFile)
	assert.Equal(t, 3, cfg.Hesiod.Tries)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("ROUTE53_REGION", "eu-west-1")
	t.Setenv("COMMIT_MAX_POLLS", "7")
	t.Setenv("ARCHIVE_ENABLED", "true")
	t.Setenv("HESIOD_NAMESERVER", "10.0.0.2:53")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "eu-west-1", cfg.Route53.Region)
	assert.Equal(t, 7, cfg.Commit.MaxPolls)
	assert.True(t, cfg.Archive.Enabled)
	assert.Equal(t, "10.0.0.2:53", cfg.Hesiod.Nameserver)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LOG_LEVEL=debug\nSTORAGE_BUCKET=reports\n"), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("LOG_LEVEL")
		os.Unsetenv("STORAGE_BUCKET")
	})

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "reports", cfg.Storage.Bucket)
}
