// Package metrics provides the Prometheus registry and scrape handler for the
// catalog service. All metrics are defined in their respective packages
// (cache, classify, loader, server) to maintain modularity and avoid circular
// dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the default Prometheus registry used by the catalog service.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Handler serves the default registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Metrics Documentation
//
// Cache Metrics (pkg/cache):
//   - catalog_cache_hits_total{state} (Counter): Cached reads by entry state (fresh, stale)
//   - catalog_cache_misses_total (Counter): Reads that found the cache empty
//   - catalog_cache_bypass_total (Counter): Debug reads that skipped the cache
//   - catalog_cache_refreshes_total{trigger, result} (Counter): Refreshes by trigger (background, manual)
//   - catalog_cache_refreshing (Gauge): 1 while a background refresh is in flight
//   - catalog_cache_snapshot_rows (Gauge): Rows in the cached snapshot
//   - catalog_cache_load_duration_seconds{mode} (Histogram): Loads by mode (normal, debug)
//   - catalog_mirror_errors_total{operation} (Counter): Redis mirror errors
//
// Loader Metrics (pkg/loader, pkg/classify):
//   - catalog_upstream_load_duration_seconds{loader, result} (Histogram): Upstream loads by result (success, failure, invalid)
//   - catalog_rows_classified_total{table} (Counter): Rows classified per table, "skipped" for unmatched rows
//
// HTTP Metrics (internal/server):
//   - catalog_http_requests_total{route, method, status} (Counter): Requests served
//   - catalog_http_request_duration_seconds{route, method} (Histogram): Request latency
//
// Example Prometheus Queries:
//
//   # Stale Read Ratio
//   sum(rate(catalog_cache_hits_total{state="stale"}[5m])) /
//   sum(rate(catalog_cache_hits_total[5m]))
//
//   # Background Refresh Failure Rate
//   rate(catalog_cache_refreshes_total{trigger="background", result="failure"}[15m])
//
//   # P95 Upstream Load Latency
//   histogram_quantile(0.95, rate(catalog_upstream_load_duration_seconds_bucket[5m]))
//
//   # Unclassified Rows
//   increase(catalog_rows_classified_total{table="skipped"}[1h]) > 0
