// Package metrics exposes Prometheus counters for the cache and the
// background recomputation path.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EventsIngested counts events accepted by the ingestion path.
	EventsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "trackline",
		Name:      "events_ingested_total",
		Help:      "Number of events accepted and stored.",
	})

	// SummaryCacheHits counts dashboard summary requests served from cache.
	SummaryCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "trackline",
		Name:      "summary_cache_hits_total",
		Help:      "Dashboard summary requests served from the cache.",
	})

	// SummaryCacheMisses counts summary requests that fell back to live
	// computation, including forced misses from an unavailable cache.
	SummaryCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "trackline",
		Name:      "summary_cache_misses_total",
		Help:      "Dashboard summary requests computed live.",
	})

	// RecomputeJobs counts background summary recomputations by outcome.
	RecomputeJobs = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trackline",
		Name:      "recompute_jobs_total",
		Help:      "Background summary recompute jobs by outcome.",
	}, []string{"status"})
)
