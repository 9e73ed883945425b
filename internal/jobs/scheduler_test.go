package jobs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trackline/internal/config"
	"trackline/internal/jobs"
	"trackline/internal/testsupport"
)

func newScheduler(t *testing.T, cfg *config.Config) *jobs.Scheduler {
	t.Helper()
	logger := testsupport.NewTestLogger()
	queue := jobs.NewQueue(4, logger)
	cleanup := jobs.NewCleanupJob(testsupport.SetupStore(t), logger, cfg)
	return jobs.NewScheduler(queue, cleanup, cfg, logger)
}

func TestSchedulerStartStop(t *testing.T) {
	s := newScheduler(t, &config.Config{
		SummaryRefreshEnabled: true,
		SummaryRefreshCron:    "*/5 * * * *",
		DefaultWindowDays:     7,
		DefaultTopLimit:       10,
	})

	assert.False(t, s.IsRunning())
	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())

	// A second Start is a no-op, not a double registration.
	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())

	s.Stop()
	assert.False(t, s.IsRunning())
	s.Stop()
}

func TestSchedulerRejectsBadCron(t *testing.T) {
	s := newScheduler(t, &config.Config{
		SummaryRefreshEnabled: true,
		SummaryRefreshCron:    "not a cron expression",
		DefaultWindowDays:     7,
		DefaultTopLimit:       10,
	})

	assert.Error(t, s.Start())
	assert.False(t, s.IsRunning())
}

func TestSchedulerWithEverythingDisabled(t *testing.T) {
	s := newScheduler(t, &config.Config{
		SummaryRefreshEnabled: false,
		EventRetentionDays:    0,
		DefaultWindowDays:     7,
		DefaultTopLimit:       10,
	})

	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	s.Stop()
}
