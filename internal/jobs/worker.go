package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"trackline/internal/analytics"
	"trackline/internal/cache"
	"trackline/internal/metrics"
)

// SummaryWorker consumes the recompute queue: for each job it runs the
// composite summary aggregation and writes the result back into the
// cache, restarting the freshness clock. A failed job is logged and
// dropped; the existing cache entry is left untouched, since stale-but-
// present beats absent on a transient failure.
type SummaryWorker struct {
	queue      *Queue
	engine     *analytics.Engine
	summaries  *cache.SummaryCache
	logger     *slog.Logger
	jobTimeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSummaryWorker creates a worker over the given queue, engine and cache.
func NewSummaryWorker(queue *Queue, engine *analytics.Engine, summaries *cache.SummaryCache, logger *slog.Logger, jobTimeout time.Duration) *SummaryWorker {
	ctx, cancel := context.WithCancel(context.Background())
	return &SummaryWorker{
		queue:      queue,
		engine:     engine,
		summaries:  summaries,
		logger:     logger,
		jobTimeout: jobTimeout,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start launches the consumer goroutine.
func (w *SummaryWorker) Start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case job := <-w.queue.Jobs():
				w.process(job)
			case <-w.ctx.Done():
				w.logger.Info("Summary worker stopped")
				return
			}
		}
	}()
	w.logger.Info("Summary worker started")
}

// Stop halts the consumer and waits for an in-flight job to finish.
func (w *SummaryWorker) Stop() {
	w.cancel()
	w.wg.Wait()
}

func (w *SummaryWorker) process(job RecomputeJob) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("Panic recovered in recompute job",
				slog.String("job", job.ID),
				slog.Any("panic", r))
			metrics.RecomputeJobs.WithLabelValues("panic").Inc()
		}
	}()

	// Not derived from w.ctx: an in-flight job runs to completion,
	// bounded by the timeout, while Stop waits on it.
	ctx, cancel := context.WithTimeout(context.Background(), w.jobTimeout)
	defer cancel()

	w.logger.Info("Processing recompute job",
		slog.String("job", job.ID),
		slog.Int("days", job.Days),
		slog.Int("topLimit", job.TopLimit))

	summary, err := w.engine.Summary(ctx, job.Days, job.TopLimit)
	if err != nil {
		w.logger.Error("Recompute job failed",
			slog.String("job", job.ID),
			slog.Any("error", err))
		metrics.RecomputeJobs.WithLabelValues("failure").Inc()
		return
	}

	data, err := json.Marshal(summary)
	if err != nil {
		w.logger.Error("Failed to serialize summary",
			slog.String("job", job.ID),
			slog.Any("error", err))
		metrics.RecomputeJobs.WithLabelValues("failure").Inc()
		return
	}

	if err := w.summaries.Put(ctx, job.Days, job.TopLimit, data); err != nil {
		w.logger.Error("Failed to cache recomputed summary",
			slog.String("job", job.ID),
			slog.Any("error", err))
		metrics.RecomputeJobs.WithLabelValues("failure").Inc()
		return
	}

	w.logger.Info("Recompute job completed", slog.String("job", job.ID))
	metrics.RecomputeJobs.WithLabelValues("success").Inc()
}
