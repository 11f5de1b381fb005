package cache

import (
	"time"

	"github.com/Sternrassler/vehicle-catalog/pkg/catalog"
)

// State is the coordinator lifecycle state.
type State string

const (
	StateEmpty      State = "empty"
	StateFresh      State = "fresh"
	StateStale      State = "stale"
	StateRefreshing State = "refreshing"
)

// Entry is the cached snapshot and its bookkeeping. Entries are immutable;
// a state change swaps in a new Entry.
type Entry struct {
	// Snapshot is the cached table set
	Snapshot *catalog.Snapshot

	// Timestamp is when Snapshot was stored
	Timestamp time.Time

	// Refreshing is set while a background refresh is in flight
	Refreshing bool
}

// Age returns how long ago the entry was stored.
func (e *Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.Timestamp)
}

// IsStale reports whether the entry is older than ttl.
func (e *Entry) IsStale(now time.Time, ttl time.Duration) bool {
	return e.Age(now) > ttl
}

func (e *Entry) state(now time.Time, ttl time.Duration) State {
	switch {
	case e == nil:
		return StateEmpty
	case e.Refreshing:
		return StateRefreshing
	case e.IsStale(now, ttl):
		return StateStale
	default:
		return StateFresh
	}
}

func (e *Entry) withRefreshing(refreshing bool) *Entry {
	return &Entry{Snapshot: e.Snapshot, Timestamp: e.Timestamp, Refreshing: refreshing}
}
