// Package timewindow computes day-boundary-aligned reporting windows.
// All boundaries use the server-local calendar: the N-day window always
// covers today plus the N-1 preceding calendar days, regardless of the
// time of day the query runs.
package timewindow

import (
	"fmt"
	"time"

	"trackline/internal/apperrors"
)

// Window is a bounded time range [Start, End] used to scope an aggregation.
type Window struct {
	Start time.Time
	End   time.Time
}

// Name identifies one of the standard active-user windows.
type Name string

const (
	Today  Name = "today"
	Last7  Name = "last7"
	Last30 Name = "last30"
)

// ForDays returns the window covering today and the (days-1) preceding
// calendar days, ending at now. days must be positive.
func ForDays(now time.Time, days int) (Window, error) {
	if days <= 0 {
		return Window{}, fmt.Errorf("%w: days must be positive, got %d", apperrors.ErrInvalidArgument, days)
	}

	return Window{
		Start: StartOfDay(now.AddDate(0, 0, -(days - 1))),
		End:   now,
	}, nil
}

// Named returns one of the three standard active-user windows: start of
// today, start of the day 6 days ago, or start of the day 29 days ago.
func Named(now time.Time, name Name) (Window, error) {
	switch name {
	case Today:
		return Window{Start: StartOfDay(now), End: now}, nil
	case Last7:
		return ForDays(now, 7)
	case Last30:
		return ForDays(now, 30)
	default:
		return Window{}, fmt.Errorf("%w: unknown window name %q", apperrors.ErrInvalidArgument, name)
	}
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// Days returns the number of calendar days the window spans.
func (w Window) Days() int {
	return int(StartOfDay(w.End).Sub(w.Start).Hours()/24) + 1
}
