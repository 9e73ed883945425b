package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"trackline/internal/apperrors"
	"trackline/internal/events"
	"trackline/internal/pkg/async"
	"trackline/internal/timewindow"
)

// Summary is the composite dashboard metric bundle, all branches
// evaluated over the same trailing days-window.
type Summary struct {
	Days            int                `json:"days"`
	TopLimit        int                `json:"topLimit"`
	TotalEvents     int64              `json:"totalEvents"`
	UniqueVisitors  int64              `json:"uniqueVisitors"`
	PageViewsPerDay []events.DayCount  `json:"pageViewsPerDay"`
	TopPages        []events.PageCount `json:"topPages"`
	GeneratedAt     time.Time          `json:"generatedAt"`
}

// Summary computes the composite dashboard summary. The four branches
// run concurrently against the store; they are separate read queries,
// so concurrent writes can introduce slight skew between branches.
// That bound is accepted: each branch is individually consistent and
// the whole result is recomputed on the next refresh.
func (e *Engine) Summary(ctx context.Context, days, topLimit int) (*Summary, error) {
	if topLimit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", apperrors.ErrInvalidArgument, topLimit)
	}
	w, err := timewindow.ForDays(e.now(), days)
	if err != nil {
		return nil, err
	}

	tasks := []async.Task{
		{
			Name: "totalEvents",
			Execute: func() (any, error) {
				return e.store.CountEvents(ctx, w.Start, w.End, "")
			},
		},
		{
			Name: "uniqueVisitors",
			Execute: func() (any, error) {
				return e.store.CountDistinctVisitors(ctx, w.Start, w.End)
			},
		},
		{
			Name: "pageViewsPerDay",
			Execute: func() (any, error) {
				return e.store.CountEventsPerDay(ctx, w.Start, w.End, events.PageViewEventName)
			},
		},
		{
			Name: "topPages",
			Execute: func() (any, error) {
				return e.store.TopPages(ctx, w.Start, w.End, topLimit)
			},
		},
	}

	results := e.pool.Execute(ctx, tasks)
	for _, task := range tasks {
		result, ok := results[task.Name]
		if !ok {
			// Context cancelled before the branch ran.
			return nil, ctx.Err()
		}
		if result.Err != nil {
			e.logger.Error("Summary branch failed",
				slog.String("branch", task.Name),
				slog.Any("error", result.Err))
			return nil, result.Err
		}
	}

	summary := &Summary{
		Days:        days,
		TopLimit:    topLimit,
		GeneratedAt: e.now(),
	}
	summary.TotalEvents = results["totalEvents"].Data.(int64)
	summary.UniqueVisitors = results["uniqueVisitors"].Data.(int64)
	summary.PageViewsPerDay = results["pageViewsPerDay"].Data.([]events.DayCount)
	if summary.PageViewsPerDay == nil {
		summary.PageViewsPerDay = []events.DayCount{}
	}
	summary.TopPages = results["topPages"].Data.([]events.PageCount)
	if summary.TopPages == nil {
		summary.TopPages = []events.PageCount{}
	}
	return summary, nil
}
