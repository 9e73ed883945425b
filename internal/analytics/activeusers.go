package analytics

import (
	"context"

	"trackline/internal/timewindow"
)

// ActiveUsersResult holds the rolling active-user counts. A visitor
// active today contributes to all three; no cross-window exclusion is
// applied.
type ActiveUsersResult struct {
	DAU int64 `json:"dau"`
	WAU int64 `json:"wau"`
	MAU int64 `json:"mau"`
}

// ActiveUsers computes daily, weekly and monthly unique-visitor counts
// as three independent distinct-visitor queries over the standard
// windows: today, the last 7 days and the last 30 days.
func (e *Engine) ActiveUsers(ctx context.Context) (ActiveUsersResult, error) {
	now := e.now()

	var result ActiveUsersResult
	for _, span := range []struct {
		name  timewindow.Name
		field *int64
	}{
		{timewindow.Today, &result.DAU},
		{timewindow.Last7, &result.WAU},
		{timewindow.Last30, &result.MAU},
	} {
		w, err := timewindow.Named(now, span.name)
		if err != nil {
			return ActiveUsersResult{}, err
		}
		count, err := e.store.CountDistinctVisitors(ctx, w.Start, w.End)
		if err != nil {
			return ActiveUsersResult{}, err
		}
		*span.field = count
	}
	return result, nil
}
