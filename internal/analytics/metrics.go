package analytics

import (
	"context"
	"fmt"

	"trackline/internal/apperrors"
	"trackline/internal/events"
	"trackline/internal/timewindow"
)

// EventsPerDay groups events in the trailing days-window by calendar day
// of their event time and counts per day, ascending. When eventName is
// non-empty only events with exactly that name are counted.
func (e *Engine) EventsPerDay(ctx context.Context, days int, eventName string) ([]events.DayCount, error) {
	w, err := timewindow.ForDays(e.now(), days)
	if err != nil {
		return nil, err
	}
	return e.store.CountEventsPerDay(ctx, w.Start, w.End, eventName)
}

// TopPages returns the limit most viewed URLs over page_view events in
// the trailing days-window, descending by views. Order between URLs with
// equal view counts is stable per query but not defined.
func (e *Engine) TopPages(ctx context.Context, days, limit int) ([]events.PageCount, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", apperrors.ErrInvalidArgument, limit)
	}
	w, err := timewindow.ForDays(e.now(), days)
	if err != nil {
		return nil, err
	}
	results, err := e.store.TopPages(ctx, w.Start, w.End, limit)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []events.PageCount{}
	}
	return results, nil
}

// UniqueVisitors counts distinct resolved visitors over the trailing
// days-window. Events without a visitor identity do not contribute.
func (e *Engine) UniqueVisitors(ctx context.Context, days int) (int64, error) {
	w, err := timewindow.ForDays(e.now(), days)
	if err != nil {
		return 0, err
	}
	return e.store.CountDistinctVisitors(ctx, w.Start, w.End)
}
