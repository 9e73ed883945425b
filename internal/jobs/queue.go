package jobs

import (
	"errors"
	"log/slog"

	"github.com/google/uuid"
)

// ErrQueueFull reports that a job was dropped because the queue buffer
// was exhausted. Dropping is harmless: a later enqueue or a synchronous
// cache miss recomputes the same summary.
var ErrQueueFull = errors.New("recompute queue full")

// RecomputeJob asks the worker to recompute and re-cache one dashboard
// summary.
type RecomputeJob struct {
	ID       string
	Days     int
	TopLimit int
}

// Queue is the asynchronous channel feeding the summary worker. Each
// job is delivered to exactly one worker; jobs for the same key may
// race, which is harmless since the last cache write wins.
type Queue struct {
	jobs   chan RecomputeJob
	logger *slog.Logger
}

// NewQueue creates a queue with the given buffer size.
func NewQueue(size int, logger *slog.Logger) *Queue {
	return &Queue{
		jobs:   make(chan RecomputeJob, size),
		logger: logger,
	}
}

// Enqueue submits a recompute job without blocking. When the buffer is
// full the job is dropped and ErrQueueFull returned.
func (q *Queue) Enqueue(days, topLimit int) (RecomputeJob, error) {
	job := RecomputeJob{
		ID:       uuid.NewString(),
		Days:     days,
		TopLimit: topLimit,
	}

	select {
	case q.jobs <- job:
		q.logger.Debug("Enqueued recompute job",
			slog.String("job", job.ID),
			slog.Int("days", days),
			slog.Int("topLimit", topLimit))
		return job, nil
	default:
		q.logger.Warn("Dropped recompute job, queue full",
			slog.Int("days", days),
			slog.Int("topLimit", topLimit))
		return RecomputeJob{}, ErrQueueFull
	}
}

// Jobs exposes the receive side of the queue to workers.
func (q *Queue) Jobs() <-chan RecomputeJob {
	return q.jobs
}
