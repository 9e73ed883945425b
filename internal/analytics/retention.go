package analytics

import (
	"context"

	"trackline/internal/timewindow"
)

// RetentionResult classifies the visitors active in a window by whether
// their first-ever activity falls inside it.
type RetentionResult struct {
	NewVisitors         int64 `json:"newVisitors"`
	ReturningVisitors   int64 `json:"returningVisitors"`
	TotalUniqueVisitors int64 `json:"totalUniqueVisitors"`
}

// Retention classifies every visitor active in the trailing days-window
// as new (first-ever event inside the window) or returning (first seen
// before it). A visitor's first-seen time is taken over their full
// history, so the cost of this operation scales with total historical
// volume, not window size.
func (e *Engine) Retention(ctx context.Context, days int) (RetentionResult, error) {
	w, err := timewindow.ForDays(e.now(), days)
	if err != nil {
		return RetentionResult{}, err
	}

	active, err := e.store.FirstSeenForActiveVisitors(ctx, w.Start, w.End)
	if err != nil {
		return RetentionResult{}, err
	}

	var result RetentionResult
	for _, visitor := range active {
		if visitor.FirstSeen.Before(w.Start) {
			result.ReturningVisitors++
		} else {
			result.NewVisitors++
		}
	}
	result.TotalUniqueVisitors = result.NewVisitors + result.ReturningVisitors
	return result, nil
}
