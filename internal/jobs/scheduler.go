package jobs

import (
	"log/slog"

	"github.com/robfig/cron/v3"

	"trackline/internal/config"
)

// Scheduler runs the periodic background work: pre-warming the default
// dashboard summary through the recompute queue, and cleaning up events
// past the retention horizon.
type Scheduler struct {
	cron      *cron.Cron
	queue     *Queue
	cleanup   *CleanupJob
	cfg       *config.Config
	logger    *slog.Logger
	isRunning bool
}

// NewScheduler creates a scheduler over the queue and cleanup job.
func NewScheduler(queue *Queue, cleanup *CleanupJob, cfg *config.Config, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		queue:   queue,
		cleanup: cleanup,
		cfg:     cfg,
		logger:  logger,
	}
}

// Start registers and launches the scheduled jobs.
func (s *Scheduler) Start() error {
	if s.isRunning {
		s.logger.Info("Background jobs already running.")
		return nil
	}

	if s.cfg.SummaryRefreshEnabled {
		_, err := s.cron.AddFunc(s.cfg.SummaryRefreshCron, func() {
			if _, err := s.queue.Enqueue(s.cfg.DefaultWindowDays, s.cfg.DefaultTopLimit); err != nil {
				s.logger.Warn("Scheduled summary refresh skipped", slog.Any("error", err))
			}
		})
		if err != nil {
			return err
		}
		s.logger.Info("Scheduled summary refresh",
			slog.String("schedule", s.cfg.SummaryRefreshCron),
			slog.Int("days", s.cfg.DefaultWindowDays),
			slog.Int("topLimit", s.cfg.DefaultTopLimit))
	}

	if s.cfg.EventRetentionDays > 0 {
		// Once a day, off-peak.
		_, err := s.cron.AddFunc("30 3 * * *", func() {
			if err := s.cleanup.Run(); err != nil {
				s.logger.Error("Error in cleanup job", slog.Any("error", err))
			}
		})
		if err != nil {
			return err
		}
		s.logger.Info("Scheduled event cleanup",
			slog.Int("retentionDays", s.cfg.EventRetentionDays))
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.Info("Background jobs started")
	return nil
}

// Stop halts the scheduled jobs. Already-running invocations complete.
func (s *Scheduler) Stop() {
	if !s.isRunning {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.isRunning = false
	s.logger.Info("Background jobs stopped")
}

// IsRunning returns whether jobs are currently scheduled.
func (s *Scheduler) IsRunning() bool {
	return s.isRunning
}
