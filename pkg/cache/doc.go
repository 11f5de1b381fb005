// Package cache serves catalog snapshots with a stale-while-revalidate policy.
//
// The Coordinator owns exactly one cached entry, the whole table set, and
// moves through the states
//
//	Empty -> Fresh -> Stale -> Refreshing -> Fresh
//
// Empty is the only initial state. Reads never wait for a refresh once an
// entry exists: a stale entry is served as-is while a single background
// refresh replaces it. The entry pointer is the only shared mutable state
// and every transition is a compare-and-swap on it, so no lock is held
// across upstream I/O.
//
// # Basic Usage
//
//	coord := cache.NewCoordinator(loader, cache.WithTTL(30*time.Minute))
//
//	res, err := coord.Get(ctx, false)
//	if err != nil {
//		// Empty cache and the upstream load failed
//	}
//	views := aggregate.ListVehicles(res.Snapshot, "", aggregate.Include{})
//
// # Manual Refresh
//
//	if _, err := coord.Refresh(ctx); err != nil {
//		// reported to the operator; the old snapshot keeps serving
//	}
//
// # Mirror
//
// A Redis Mirror keeps a copy of the last good snapshot so a restarted
// process can serve immediately:
//
//	mirror := cache.NewMirror(redisClient, 24*time.Hour)
//	coord := cache.NewCoordinator(loader, cache.WithMirror(mirror))
//	_ = coord.Warm(ctx)
//
// # Metrics
//
//   - catalog_cache_hits_total{state} - reads served from the entry (fresh, stale)
//   - catalog_cache_misses_total - reads that found the cache empty
//   - catalog_cache_bypass_total - debug reads that skipped the cache
//   - catalog_cache_refreshes_total{trigger,result} - background and manual refreshes
//   - catalog_cache_refreshing - 1 while a background refresh is in flight
//   - catalog_cache_snapshot_rows - rows in the cached snapshot
//   - catalog_cache_load_duration_seconds{mode} - upstream load latency
//   - catalog_mirror_errors_total{operation} - mirror operation errors
package cache
