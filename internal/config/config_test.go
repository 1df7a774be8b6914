package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.HTTPPort)
	assert.Equal(t, DatasetSourceEmbedded, cfg.Dataset.Source)
	assert.Equal(t, 10*time.Minute, cfg.Redis.TTL)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.UsesDatabase())
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`
app:
  http_port: "9090"
  log_format: json
dataset:
  source: postgres
database:
  host: db.internal
  user: majormatch
redis:
  enabled: true
  ttl: 90s
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))
	t.Setenv("DATABASE_NAME", "catalog")
	t.Setenv("APP_LOG_LEVEL", "debug")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.HTTPPort)
	assert.Equal(t, "json", cfg.App.LogFormat)
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, DatasetSourcePostgres, cfg.Dataset.Source)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "catalog", cfg.Database.Name)
	assert.Equal(t, 90*time.Second, cfg.Redis.TTL)
	assert.True(t, cfg.UsesDatabase())
}

func TestLoad_EnvironmentFileIsMerged(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("app:\n  http_port: \"9090\"\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.staging.yaml"), []byte("app:\n  log_level: warn\n"), 0o600))
	t.Setenv("APP_ENVIRONMENT", "staging")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.App.HTTPPort)
	assert.Equal(t, "warn", cfg.App.LogLevel)
}

func TestValidate(t *testing.T) {
	base := Config{App: AppConfig{HTTPPort: "8080"}, Dataset: DatasetConfig{Source: DatasetSourceEmbedded}}
	assert.NoError(t, base.Validate())

	bad := base
	bad.Dataset = DatasetConfig{Source: DatasetSourceFile}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidConfig)

	bad = base
	bad.Dataset = DatasetConfig{Source: "s3"}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidConfig)

	bad = base
	bad.Dataset = DatasetConfig{Source: DatasetSourcePostgres}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidConfig)

	bad = base
	bad.Redis = RedisConfig{Enabled: true}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidConfig)

	bad = base
	bad.App.HTTPPort = " "
	assert.ErrorIs(t, bad.Validate(), ErrInvalidConfig)
}
