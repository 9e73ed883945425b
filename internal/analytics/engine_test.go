package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trackline/internal/analytics"
	"trackline/internal/apperrors"
	"trackline/internal/events"
	"trackline/internal/testsupport"
)

// refNow is the engine clock for all tests: a mid-afternoon instant so
// same-day fixtures never cross a midnight boundary.
var refNow = time.Date(2025, 6, 18, 15, 0, 0, 0, time.Local)

func newEngine(t *testing.T) (*analytics.Engine, events.Store) {
	t.Helper()
	store := testsupport.SetupStore(t)
	engine := analytics.NewEngine(store, testsupport.NewTestLogger(),
		analytics.WithClock(func() time.Time { return refNow }))
	return engine, store
}

func seed(t *testing.T, store events.Store, userID, name, url string, at time.Time) {
	t.Helper()
	_, err := store.Insert(context.Background(), &events.Event{
		UserID:    userID,
		EventName: name,
		URL:       url,
		EventTime: at,
		CreatedAt: at,
	})
	require.NoError(t, err)
}

// The reference scenario: 3 page views of /home from user A and 2 of
// /about from user B, all today.
func seedReferenceDay(t *testing.T, store events.Store) {
	today := refNow.Add(-time.Hour)
	for i := 0; i < 3; i++ {
		seed(t, store, "visitor-a", "page_view", "/home", today.Add(time.Duration(i)*time.Minute))
	}
	for i := 0; i < 2; i++ {
		seed(t, store, "visitor-b", "page_view", "/about", today.Add(time.Duration(i)*time.Minute))
	}
}

func TestEventsPerDayReferenceScenario(t *testing.T) {
	engine, store := newEngine(t)
	seedReferenceDay(t, store)

	results, err := engine.EventsPerDay(context.Background(), 1, "")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, refNow.Format("2006-01-02"), results[0].Day)
	assert.Equal(t, int64(5), results[0].Count)
}

func TestEventsPerDayInvalidDays(t *testing.T) {
	engine, _ := newEngine(t)

	_, err := engine.EventsPerDay(context.Background(), 0, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

func TestTopPagesReferenceScenario(t *testing.T) {
	engine, store := newEngine(t)
	seedReferenceDay(t, store)

	results, err := engine.TopPages(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, events.PageCount{URL: "/home", Views: 3}, results[0])
}

func TestTopPagesInvalidLimit(t *testing.T) {
	engine, _ := newEngine(t)

	_, err := engine.TopPages(context.Background(), 7, 0)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

func TestTopPagesEmptyWindow(t *testing.T) {
	engine, _ := newEngine(t)

	results, err := engine.TopPages(context.Background(), 7, 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestUniqueVisitorsReferenceScenario(t *testing.T) {
	engine, store := newEngine(t)
	seedReferenceDay(t, store)

	count, err := engine.UniqueVisitors(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestUniqueVisitorsDeduplicates(t *testing.T) {
	engine, store := newEngine(t)
	today := refNow.Add(-time.Hour)
	for i := 0; i < 10; i++ {
		seed(t, store, "visitor-a", "page_view", "/home", today)
	}

	count, err := engine.UniqueVisitors(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRetention(t *testing.T) {
	engine, store := newEngine(t)
	today := refNow.Add(-time.Hour)

	// Visitor A first seen 10 days ago, active today: returning.
	seed(t, store, "visitor-a", "page_view", "/home", refNow.AddDate(0, 0, -10))
	seed(t, store, "visitor-a", "page_view", "/home", today)
	// Visitor B first seen today: new.
	seed(t, store, "visitor-b", "page_view", "/about", today)

	result, err := engine.Retention(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.NewVisitors)
	assert.Equal(t, int64(1), result.ReturningVisitors)
	assert.Equal(t, int64(2), result.TotalUniqueVisitors)
}

func TestRetentionTotalsMatchUniqueVisitors(t *testing.T) {
	engine, store := newEngine(t)
	today := refNow.Add(-time.Hour)

	seed(t, store, "visitor-a", "page_view", "/home", refNow.AddDate(0, 0, -20))
	seed(t, store, "visitor-a", "page_view", "/home", today)
	seed(t, store, "visitor-b", "page_view", "/home", today)
	seed(t, store, "visitor-c", "page_view", "/home", refNow.AddDate(0, 0, -2))

	retention, err := engine.Retention(context.Background(), 7)
	require.NoError(t, err)
	unique, err := engine.UniqueVisitors(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, retention.NewVisitors+retention.ReturningVisitors, retention.TotalUniqueVisitors)
	assert.Equal(t, unique, retention.TotalUniqueVisitors)
}

func TestActiveUsers(t *testing.T) {
	engine, store := newEngine(t)

	// Active today: counted in DAU, WAU and MAU alike.
	seed(t, store, "visitor-a", "page_view", "/home", refNow.Add(-time.Hour))
	// Active 3 days ago: WAU and MAU only.
	seed(t, store, "visitor-b", "page_view", "/home", refNow.AddDate(0, 0, -3))
	// Active 20 days ago: MAU only.
	seed(t, store, "visitor-c", "page_view", "/home", refNow.AddDate(0, 0, -20))
	// Active 40 days ago: outside every window.
	seed(t, store, "visitor-d", "page_view", "/home", refNow.AddDate(0, 0, -40))

	result, err := engine.ActiveUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.DAU)
	assert.Equal(t, int64(2), result.WAU)
	assert.Equal(t, int64(3), result.MAU)
}

func TestSummary(t *testing.T) {
	engine, store := newEngine(t)
	seedReferenceDay(t, store)
	// A custom event contributes to totals but not to page views.
	seed(t, store, "visitor-a", "button_click", "", refNow.Add(-time.Hour))

	summary, err := engine.Summary(context.Background(), 7, 10)
	require.NoError(t, err)

	assert.Equal(t, 7, summary.Days)
	assert.Equal(t, 10, summary.TopLimit)
	assert.Equal(t, int64(6), summary.TotalEvents)
	assert.Equal(t, int64(2), summary.UniqueVisitors)
	require.Len(t, summary.PageViewsPerDay, 1)
	assert.Equal(t, int64(5), summary.PageViewsPerDay[0].Count)
	require.Len(t, summary.TopPages, 2)
	assert.Equal(t, "/home", summary.TopPages[0].URL)
	assert.Equal(t, refNow, summary.GeneratedAt)
}

func TestSummaryInvalidInput(t *testing.T) {
	engine, _ := newEngine(t)

	_, err := engine.Summary(context.Background(), 0, 10)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	_, err = engine.Summary(context.Background(), 7, 0)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

func TestSummaryCancelledContext(t *testing.T) {
	engine, store := newEngine(t)
	seedReferenceDay(t, store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Summary(ctx, 7, 10)
	assert.Error(t, err)
}
