package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trackline/internal/config"
)

func TestDefaults(t *testing.T) {
	config.Reset()
	t.Cleanup(config.Reset)

	cfg := config.GetConfig()
	assert.Equal(t, "trackline", cfg.AppName)
	assert.Equal(t, "3000", cfg.AppPort)
	assert.Equal(t, config.Development, cfg.Environment)
	assert.Equal(t, 300, cfg.SummaryTTLSeconds)
	assert.Equal(t, "*/5 * * * *", cfg.SummaryRefreshCron)
	assert.True(t, cfg.SummaryRefreshEnabled)
	assert.Equal(t, 7, cfg.DefaultWindowDays)
	assert.Equal(t, 10, cfg.DefaultTopLimit)
	assert.Equal(t, 64, cfg.QueueSize)
	assert.Equal(t, 0, cfg.EventRetentionDays)
	assert.Equal(t, 30, cfg.QueryTimeoutSeconds)
}

func TestEnvironmentOverrides(t *testing.T) {
	config.Reset()
	t.Cleanup(config.Reset)

	t.Setenv("TRACKLINE_ENV", config.Test)
	t.Setenv("TRACKLINE_APP_PORT", "4100")
	t.Setenv("TRACKLINE_SUMMARY_TTL_SECONDS", "60")
	t.Setenv("TRACKLINE_DEFAULT_WINDOW_DAYS", "30")
	t.Setenv("TRACKLINE_EVENT_RETENTION_DAYS", "90")

	cfg := config.GetConfig()
	assert.Equal(t, "4100", cfg.AppPort)
	assert.Equal(t, 60, cfg.SummaryTTLSeconds)
	assert.Equal(t, 30, cfg.DefaultWindowDays)
	assert.Equal(t, 90, cfg.EventRetentionDays)
	assert.True(t, cfg.IsTest())
}

func TestConnPoolSizingPerEnvironment(t *testing.T) {
	config.Reset()
	t.Cleanup(config.Reset)

	t.Setenv("TRACKLINE_ENV", config.Test)
	cfg := config.GetConfig()
	// In-memory SQLite needs a single connection to stay stable.
	assert.Equal(t, 1, cfg.GetMaxOpenConns())
	assert.Equal(t, 1, cfg.GetMaxIdleConns())

	config.Reset()
	t.Setenv("TRACKLINE_ENV", config.Production)
	cfg = config.GetConfig()
	assert.Equal(t, 10, cfg.GetMaxOpenConns())
	assert.Equal(t, 5, cfg.GetMaxIdleConns())
}

func TestDatabasePathDerivation(t *testing.T) {
	config.Reset()
	t.Cleanup(config.Reset)

	t.Setenv("TRACKLINE_ENV", config.Test)
	t.Setenv("TRACKLINE_STORAGE_PATH", "storage")
	cfg := config.GetConfig()

	require.NotEmpty(t, cfg.DatabaseName)
	assert.Contains(t, cfg.DatabaseName, "trackline-test.db")
}
