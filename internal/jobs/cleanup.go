package jobs

import (
	"context"
	"log/slog"
	"time"

	"trackline/internal/config"
	"trackline/internal/events"
)

// CleanupJob removes events older than the configured retention period.
type CleanupJob struct {
	store  events.Store
	logger *slog.Logger
	cfg    *config.Config
}

// NewCleanupJob creates a cleanup job over the event store.
func NewCleanupJob(store events.Store, logger *slog.Logger, cfg *config.Config) *CleanupJob {
	return &CleanupJob{
		store:  store,
		logger: logger,
		cfg:    cfg,
	}
}

// Run deletes events whose event time is past the retention horizon.
// A retention of 0 days disables cleanup entirely.
func (j *CleanupJob) Run() error {
	retentionDays := j.cfg.EventRetentionDays
	if retentionDays <= 0 {
		j.logger.Debug("Event retention disabled, skipping cleanup")
		return nil
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	j.logger.Info("Starting cleanup of old events",
		slog.Int("retention_days", retentionDays),
		slog.Time("cutoff", cutoff))

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(j.cfg.QueryTimeoutSeconds)*time.Second)
	defer cancel()

	deleted, err := j.store.DeleteEventsBefore(ctx, cutoff)
	if err != nil {
		j.logger.Error("Failed to delete old events", slog.Any("error", err))
		return err
	}

	if deleted == 0 {
		j.logger.Debug("No old events to clean up")
		return nil
	}

	j.logger.Info("Cleaned up old events",
		slog.Int64("deleted_count", deleted),
		slog.Int("retention_days", retentionDays))
	return nil
}
