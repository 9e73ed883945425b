// Package service exposes the public operation surface of the analytics
// core: ingestion plus the query operations, with the composite summary
// checked against the cache before falling back to live computation.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"trackline/internal/analytics"
	"trackline/internal/apperrors"
	"trackline/internal/cache"
	"trackline/internal/config"
	"trackline/internal/events"
	"trackline/internal/jobs"
	"trackline/internal/metrics"
)

// Service wires the aggregation engine, event store, summary cache and
// recompute queue behind one call surface. All collaborators are passed
// in explicitly; nothing is reached through globals.
type Service struct {
	store     events.Store
	engine    *analytics.Engine
	summaries *cache.SummaryCache
	queue     *jobs.Queue
	cfg       *config.Config
	logger    *slog.Logger
}

// New creates the service.
func New(store events.Store, engine *analytics.Engine, summaries *cache.SummaryCache, queue *jobs.Queue, cfg *config.Config, logger *slog.Logger) *Service {
	return &Service{
		store:     store,
		engine:    engine,
		summaries: summaries,
		queue:     queue,
		cfg:       cfg,
		logger:    logger,
	}
}

// DefaultDays returns the window size applied when a caller leaves days
// unspecified.
func (s *Service) DefaultDays() int {
	return s.cfg.DefaultWindowDays
}

// DefaultTopLimit returns the ranking size applied when a caller leaves
// limit unspecified.
func (s *Service) DefaultTopLimit() int {
	return s.cfg.DefaultTopLimit
}

// Ingest validates and appends one event, returning its id.
func (s *Service) Ingest(ctx context.Context, input *events.CollectEventInput) (uint, error) {
	id, err := events.CollectEvent(ctx, s.store, s.logger, input)
	if err != nil {
		return 0, err
	}
	metrics.EventsIngested.Inc()
	return id, nil
}

// EventsPerDay returns the per-day event counts for the trailing window.
func (s *Service) EventsPerDay(ctx context.Context, days int, eventName string) ([]events.DayCount, error) {
	return s.engine.EventsPerDay(ctx, days, eventName)
}

// TopPages returns the ranked top pages for the trailing window.
func (s *Service) TopPages(ctx context.Context, days, limit int) ([]events.PageCount, error) {
	return s.engine.TopPages(ctx, days, limit)
}

// UniqueVisitors returns the distinct-visitor count for the trailing window.
func (s *Service) UniqueVisitors(ctx context.Context, days int) (int64, error) {
	return s.engine.UniqueVisitors(ctx, days)
}

// Retention returns the new-vs-returning classification for the trailing window.
func (s *Service) Retention(ctx context.Context, days int) (analytics.RetentionResult, error) {
	return s.engine.Retention(ctx, days)
}

// ActiveUsers returns the rolling DAU/WAU/MAU counts.
func (s *Service) ActiveUsers(ctx context.Context) (analytics.ActiveUsersResult, error) {
	return s.engine.ActiveUsers(ctx)
}

// RecentEvents returns the most recently ingested events, newest first.
func (s *Service) RecentEvents(ctx context.Context, limit int) ([]events.Event, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", apperrors.ErrInvalidArgument, limit)
	}
	return s.store.RecentEvents(ctx, limit)
}

// DashboardSummary serves the composite summary, preferring a fresh
// cache entry. On a miss — including a forced miss when the cache
// backend is unreachable — it computes live and re-caches best-effort.
// The second return value reports whether the cache served the result.
func (s *Service) DashboardSummary(ctx context.Context, days, topLimit int) (*analytics.Summary, bool, error) {
	if days <= 0 {
		return nil, false, fmt.Errorf("%w: days must be positive, got %d", apperrors.ErrInvalidArgument, days)
	}
	if topLimit <= 0 {
		return nil, false, fmt.Errorf("%w: limit must be positive, got %d", apperrors.ErrInvalidArgument, topLimit)
	}

	data, err := s.summaries.Get(ctx, days, topLimit)
	switch {
	case err == nil:
		var summary analytics.Summary
		if unmarshalErr := json.Unmarshal(data, &summary); unmarshalErr == nil {
			metrics.SummaryCacheHits.Inc()
			return &summary, true, nil
		}
		// Corrupt entry: drop it and recompute.
		s.logger.Warn("Discarding corrupt summary cache entry",
			slog.String("key", cache.Key(days, topLimit)))
		_ = s.summaries.Invalidate(ctx, days, topLimit)
	case errors.Is(err, cache.ErrMiss):
		// Fall through to live computation.
	case errors.Is(err, apperrors.ErrCacheUnavailable):
		s.logger.Warn("Summary cache unavailable, computing live", slog.Any("error", err))
	default:
		s.logger.Warn("Unexpected summary cache error, computing live", slog.Any("error", err))
	}
	metrics.SummaryCacheMisses.Inc()

	summary, err := s.engine.Summary(ctx, days, topLimit)
	if err != nil {
		return nil, false, err
	}

	if data, marshalErr := json.Marshal(summary); marshalErr == nil {
		if putErr := s.summaries.Put(ctx, days, topLimit, data); putErr != nil {
			s.logger.Warn("Failed to cache summary", slog.Any("error", putErr))
		}
	}
	return summary, false, nil
}

// RefreshSummaryAsync enqueues a background recomputation of the
// summary for the given key. The refreshed entry replaces whatever the
// cache holds, restarting its TTL.
func (s *Service) RefreshSummaryAsync(days, topLimit int) (jobs.RecomputeJob, error) {
	if days <= 0 {
		return jobs.RecomputeJob{}, fmt.Errorf("%w: days must be positive, got %d", apperrors.ErrInvalidArgument, days)
	}
	if topLimit <= 0 {
		return jobs.RecomputeJob{}, fmt.Errorf("%w: limit must be positive, got %d", apperrors.ErrInvalidArgument, topLimit)
	}
	return s.queue.Enqueue(days, topLimit)
}
