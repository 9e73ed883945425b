package events

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"trackline/internal/apperrors"
	"trackline/internal/visitors"
)

// Store is the durable event log contract the analytics engine runs
// against. Implementations must apply the visitor coalescing rule from
// the visitors package wherever they group or count by visitor.
//
// All timestamps are stored in UTC. The sqlite driver serializes time
// values as text carrying each value's own offset and BETWEEN compares
// that text lexicographically, so writes and query boundaries must
// agree on a single offset to keep window filtering correct.
type Store interface {
	// Insert appends one event and returns its store-assigned id.
	Insert(ctx context.Context, event *Event) (uint, error)

	// CountEvents counts events with EventTime in [from, to], optionally
	// restricted to an exact event name.
	CountEvents(ctx context.Context, from, to time.Time, eventName string) (int64, error)

	// CountEventsPerDay buckets events in [from, to] by calendar day of
	// EventTime, ascending by day, optionally restricted to an exact
	// event name. Days with no events are absent from the result.
	CountEventsPerDay(ctx context.Context, from, to time.Time, eventName string) ([]DayCount, error)

	// TopPages ranks page_view events with a non-empty URL in [from, to]
	// by view count descending, returning at most limit entries. Tie
	// order between equal view counts is not defined.
	TopPages(ctx context.Context, from, to time.Time, limit int) ([]PageCount, error)

	// CountDistinctVisitors counts distinct resolved visitor ids over
	// events in [from, to]. Events without a visitor identity are excluded.
	CountDistinctVisitors(ctx context.Context, from, to time.Time) (int64, error)

	// FirstSeenForActiveVisitors returns, for every visitor with at least
	// one event in [from, to], the timestamp of their earliest event
	// across all history. This deliberately scans beyond the window:
	// a visitor's first-seen time is an absolute property.
	FirstSeenForActiveVisitors(ctx context.Context, from, to time.Time) ([]VisitorFirstSeen, error)

	// RecentEvents returns the most recently ingested events, newest first.
	RecentEvents(ctx context.Context, limit int) ([]Event, error)

	// DeleteEventsBefore removes events with EventTime older than cutoff
	// and reports how many were deleted. Used only by the retention
	// cleanup job, never by the engine.
	DeleteEventsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// GormStore is the SQLite-backed Store implementation.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps a gorm connection as a Store.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

var _ Store = (*GormStore)(nil)

// dayExpr buckets event_time by server-local calendar day.
const dayExpr = "strftime('%Y-%m-%d', event_time, 'localtime')"

func (s *GormStore) Insert(ctx context.Context, event *Event) (uint, error) {
	event.EventTime = event.EventTime.UTC()
	event.CreatedAt = event.CreatedAt.UTC()
	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		return 0, fmt.Errorf("%w: insert event: %v", apperrors.ErrStoreUnavailable, err)
	}
	return event.ID, nil
}

func (s *GormStore) CountEvents(ctx context.Context, from, to time.Time, eventName string) (int64, error) {
	from, to = from.UTC(), to.UTC()
	query := s.db.WithContext(ctx).Model(&Event{}).
		Where("event_time BETWEEN ? AND ?", from, to)
	if eventName != "" {
		query = query.Where("event_name = ?", eventName)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("%w: count events: %v", apperrors.ErrStoreUnavailable, err)
	}
	return count, nil
}

func (s *GormStore) CountEventsPerDay(ctx context.Context, from, to time.Time, eventName string) ([]DayCount, error) {
	args := []any{from.UTC(), to.UTC()}
	nameFilter := ""
	if eventName != "" {
		nameFilter = "AND event_name = ?"
		args = append(args, eventName)
	}

	query := fmt.Sprintf(`
        SELECT
            %s AS day,
            COUNT(*) AS count
        FROM events
        WHERE event_time BETWEEN ? AND ?
            %s
        GROUP BY day
        ORDER BY day ASC
    `, dayExpr, nameFilter)

	var results []DayCount
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(&results).Error; err != nil {
		return nil, fmt.Errorf("%w: count events per day: %v", apperrors.ErrStoreUnavailable, err)
	}
	return results, nil
}

func (s *GormStore) TopPages(ctx context.Context, from, to time.Time, limit int) ([]PageCount, error) {
	query := `
        SELECT
            url,
            COUNT(*) AS views
        FROM events
        WHERE event_time BETWEEN ? AND ?
            AND event_name = ?
            AND url != ''
        GROUP BY url
        ORDER BY views DESC
        LIMIT ?
    `

	var results []PageCount
	err := s.db.WithContext(ctx).
		Raw(query, from.UTC(), to.UTC(), PageViewEventName, limit).
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("%w: top pages: %v", apperrors.ErrStoreUnavailable, err)
	}
	return results, nil
}

func (s *GormStore) CountDistinctVisitors(ctx context.Context, from, to time.Time) (int64, error) {
	query := fmt.Sprintf(`
        SELECT COUNT(DISTINCT %s)
        FROM events
        WHERE event_time BETWEEN ? AND ?
            AND %s IS NOT NULL
    `, visitors.IDExpr, visitors.IDExpr)

	var count int64
	if err := s.db.WithContext(ctx).Raw(query, from.UTC(), to.UTC()).Scan(&count).Error; err != nil {
		return 0, fmt.Errorf("%w: count distinct visitors: %v", apperrors.ErrStoreUnavailable, err)
	}
	return count, nil
}

func (s *GormStore) FirstSeenForActiveVisitors(ctx context.Context, from, to time.Time) ([]VisitorFirstSeen, error) {
	// Groups the full history per visitor, then keeps only visitors with
	// at least one event inside the window. first_seen is the min over
	// all history, not window-bounded.
	query := fmt.Sprintf(`
        SELECT
            %s AS visitor_id,
            MIN(event_time) AS first_seen
        FROM events
        WHERE %s IS NOT NULL
        GROUP BY visitor_id
        HAVING MAX(CASE WHEN event_time BETWEEN ? AND ? THEN 1 ELSE 0 END) = 1
    `, visitors.IDExpr, visitors.IDExpr)

	var rows []struct {
		VisitorID string
		FirstSeen string
	}
	if err := s.db.WithContext(ctx).Raw(query, from.UTC(), to.UTC()).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: first seen for active visitors: %v", apperrors.ErrStoreUnavailable, err)
	}

	results := make([]VisitorFirstSeen, 0, len(rows))
	for _, row := range rows {
		firstSeen, err := parseStoredTime(row.FirstSeen)
		if err != nil {
			return nil, fmt.Errorf("%w: parse first_seen for visitor %s: %v", apperrors.ErrStoreUnavailable, row.VisitorID, err)
		}
		results = append(results, VisitorFirstSeen{VisitorID: row.VisitorID, FirstSeen: firstSeen})
	}
	return results, nil
}

func (s *GormStore) RecentEvents(ctx context.Context, limit int) ([]Event, error) {
	var results []Event
	err := s.db.WithContext(ctx).Model(&Event{}).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("%w: recent events: %v", apperrors.ErrStoreUnavailable, err)
	}
	return results, nil
}

func (s *GormStore) DeleteEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	cutoff = cutoff.UTC()
	result := s.db.WithContext(ctx).
		Where("event_time < ?", cutoff).
		Delete(&Event{})
	if result.Error != nil {
		return 0, fmt.Errorf("%w: delete events before %s: %v", apperrors.ErrStoreUnavailable, cutoff, result.Error)
	}
	return result.RowsAffected, nil
}

// storedTimeLayouts covers the formats the sqlite driver emits for
// timestamp columns that lost their declared type through aggregation.
var storedTimeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
}

func parseStoredTime(value string) (time.Time, error) {
	for _, layout := range storedTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}
