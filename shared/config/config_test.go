package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Base    `mapstructure:",squash"`
	Carrier struct {
		LossProbability float64 `mapstructure:"loss_probability"`
	} `mapstructure:"carrier"`
}

func TestReadMergesFileEnvAndDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.json"), []byte(`{
		"port": "9000",
		"database": {"host": "db", "database": "ordering"},
		"carrier": {"loss_probability": 0.2}
	}`), 0o600))

	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("ORDERING_DATABASE_USER", "svc")

	var cfg testConfig
	err := Read(Options{
		ServiceName: "ordering-service",
		EnvPrefix:   "ORDERING",
		Dir:         dir,
		DefaultPort: "8080",
		Defaults:    map[string]interface{}{"carrier.loss_probability": 0.05},
	}, &cfg)
	require.NoError(t, err)

	assert.Equal(t, "ordering-service", cfg.ServiceName)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "db", cfg.Database.Host)
	assert.Equal(t, "svc", cfg.Database.User)
	assert.Equal(t, 0.2, cfg.Carrier.LossProbability)
	assert.Equal(t, 24*time.Hour, cfg.Redis.IdempotencyTTL)
	assert.Equal(t, 5*time.Minute, cfg.Redis.ClaimTTL)
	assert.Equal(t, 500*time.Millisecond, cfg.Outbox.PollInterval)
	assert.Equal(t, 168*time.Hour, cfg.Outbox.Retention)
	assert.Equal(t, "postgres://svc:password@db:5432/ordering?sslmode=disable", cfg.Database.DatabaseURL())
}

func TestReadWithoutFileUsesDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "missing")
	t.Setenv("DATABASE_URL", "postgres://u:p@h:1/d")

	var cfg testConfig
	require.NoError(t, Read(Options{ServiceName: "svc", EnvPrefix: "SVC", Dir: t.TempDir(), DefaultPort: "8081"}, &cfg))

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, "postgres://u:p@h:1/d", cfg.Database.DatabaseURL())
	assert.False(t, cfg.Redis.Enabled())
}
