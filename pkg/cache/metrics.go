package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks reads served from the cached entry
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_hits_total",
			Help: "Total number of catalog reads served from cache",
		},
		[]string{"state"}, // "fresh", "stale"
	)

	// CacheMisses tracks reads that found the cache empty
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_cache_misses_total",
			Help: "Total number of catalog reads with an empty cache",
		},
	)

	// CacheBypass tracks debug reads that skip the cache
	CacheBypass = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_cache_bypass_total",
			Help: "Total number of catalog reads that bypassed the cache",
		},
	)

	// Refreshes tracks refresh outcomes
	Refreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_refreshes_total",
			Help: "Total number of cache refreshes by trigger and result",
		},
		[]string{"trigger", "result"}, // "background", "manual"; "success", "failure"
	)

	// RefreshInFlight is 1 while a background refresh runs
	RefreshInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_cache_refreshing",
			Help: "Whether a background cache refresh is in flight",
		},
	)

	// SnapshotRows tracks the size of the cached snapshot
	SnapshotRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_cache_snapshot_rows",
			Help: "Number of rows in the cached catalog snapshot",
		},
	)

	// LoadDuration tracks upstream load latency seen by the cache
	LoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_cache_load_duration_seconds",
			Help:    "Upstream load duration in seconds by mode",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"mode"}, // "normal", "debug"
	)

	// MirrorErrors tracks mirror operation errors
	MirrorErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_mirror_errors_total",
			Help: "Total number of snapshot mirror operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete"
	)
)
