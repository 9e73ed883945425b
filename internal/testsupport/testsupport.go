// Package testsupport provides shared fixtures: an in-memory event
// store, a miniredis-backed summary cache and a quiet logger.
package testsupport

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"trackline/internal/cache"
	"trackline/internal/events"
)

// NewTestLogger returns a logger that discards all output.
func NewTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// SetupTestDB creates an in-memory SQLite database with the event
// schema migrated. Uses a named database with cache=shared and a single
// connection so the database survives for the whole test.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	require.NoError(t, db.AutoMigrate(&events.Event{}))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

// SetupStore creates a gorm-backed event store over a fresh test database.
func SetupStore(t *testing.T) *events.GormStore {
	t.Helper()
	return events.NewGormStore(SetupTestDB(t))
}

// SetupSummaryCache starts a miniredis instance and wraps it in a
// summary cache with the given TTL. The returned miniredis handle is
// used to fast-forward time past the TTL.
func SetupSummaryCache(t *testing.T, ttl time.Duration) (*cache.SummaryCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})

	return cache.NewSummaryCache(client, ttl), mr
}

// CountingStore wraps a Store and counts read queries, letting tests
// observe whether a cached result avoided hitting the store.
type CountingStore struct {
	inner events.Store
	reads atomic.Int64
}

// NewCountingStore wraps inner.
func NewCountingStore(inner events.Store) *CountingStore {
	return &CountingStore{inner: inner}
}

// Reads returns the number of read queries issued so far.
func (s *CountingStore) Reads() int64 {
	return s.reads.Load()
}

func (s *CountingStore) Insert(ctx context.Context, event *events.Event) (uint, error) {
	return s.inner.Insert(ctx, event)
}

func (s *CountingStore) CountEvents(ctx context.Context, from, to time.Time, eventName string) (int64, error) {
	s.reads.Add(1)
	return s.inner.CountEvents(ctx, from, to, eventName)
}

func (s *CountingStore) CountEventsPerDay(ctx context.Context, from, to time.Time, eventName string) ([]events.DayCount, error) {
	s.reads.Add(1)
	return s.inner.CountEventsPerDay(ctx, from, to, eventName)
}

func (s *CountingStore) TopPages(ctx context.Context, from, to time.Time, limit int) ([]events.PageCount, error) {
	s.reads.Add(1)
	return s.inner.TopPages(ctx, from, to, limit)
}

func (s *CountingStore) CountDistinctVisitors(ctx context.Context, from, to time.Time) (int64, error) {
	s.reads.Add(1)
	return s.inner.CountDistinctVisitors(ctx, from, to)
}

func (s *CountingStore) FirstSeenForActiveVisitors(ctx context.Context, from, to time.Time) ([]events.VisitorFirstSeen, error) {
	s.reads.Add(1)
	return s.inner.FirstSeenForActiveVisitors(ctx, from, to)
}

func (s *CountingStore) RecentEvents(ctx context.Context, limit int) ([]events.Event, error) {
	s.reads.Add(1)
	return s.inner.RecentEvents(ctx, limit)
}

func (s *CountingStore) DeleteEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return s.inner.DeleteEventsBefore(ctx, cutoff)
}

var _ events.Store = (*CountingStore)(nil)
