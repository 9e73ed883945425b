// Package analytics computes rolled-up behavioral metrics from the raw
// event stream: per-day counts, ranked top pages, unique-visitor
// cardinality, new-vs-returning retention, and rolling active-user
// windows. All operations are read-only over the event store and either
// return a complete result or fail entirely.
package analytics

import (
	"log/slog"
	"time"

	"trackline/internal/events"
	"trackline/internal/pkg/async"
)

// summaryWorkers bounds the fan-out of the composite summary query.
const summaryWorkers = 4

// Engine runs the analytic computations against an event store.
type Engine struct {
	store  events.Store
	logger *slog.Logger
	now    func() time.Time
	pool   *async.Pool
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClock overrides the engine's time source; intended for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates an aggregation engine over the given store.
func NewEngine(store events.Store, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		logger: logger,
		now:    time.Now,
		pool:   async.NewPool(summaryWorkers),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}
