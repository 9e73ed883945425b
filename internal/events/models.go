package events

import "time"

// PageViewEventName is the event name that topPages and the summary's
// per-day series restrict to.
const PageViewEventName = "page_view"

// Event represents a single recorded user interaction. Events are
// immutable once stored; the analytics engine only ever reads them.
type Event struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      string     `gorm:"index;size:128" json:"userId,omitempty"`
	AnonymousID string     `gorm:"index;size:128" json:"anonymousId,omitempty"`
	SessionID   string     `gorm:"index;size:128" json:"sessionId,omitempty"`
	EventName   string     `gorm:"index:idx_name_time;not null" json:"eventName"`
	URL         string     `gorm:"index" json:"url,omitempty"`
	PageTitle   string     `json:"pageTitle,omitempty"`
	Properties  Properties `gorm:"type:text" json:"properties,omitempty"`
	EventTime   time.Time  `gorm:"index:idx_name_time;index;not null" json:"eventTime"`
	IP          string     `json:"-"`
	UserAgent   string     `json:"-"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// DayCount is one calendar-day bucket of an events-per-day series.
type DayCount struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

// PageCount is one ranked entry of a top-pages result.
type PageCount struct {
	URL   string `json:"url"`
	Views int64  `json:"views"`
}

// VisitorFirstSeen pairs a visitor active in some window with the
// timestamp of their earliest event across all history.
type VisitorFirstSeen struct {
	VisitorID string
	FirstSeen time.Time
}
