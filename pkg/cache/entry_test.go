package cache

import (
	"testing"
	"time"

	"github.com/Sternrassler/vehicle-catalog/internal/testutil"
)

func TestEntry_IsStale(t *testing.T) {
	stored := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	ttl := 30 * time.Minute

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{
			name: "just stored",
			now:  stored,
			want: false,
		},
		{
			name: "one millisecond before ttl",
			now:  stored.Add(ttl - time.Millisecond),
			want: false,
		},
		{
			name: "exactly at ttl",
			now:  stored.Add(ttl),
			want: false,
		},
		{
			name: "one millisecond after ttl",
			now:  stored.Add(ttl + time.Millisecond),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &Entry{Timestamp: stored}
			if got := entry.IsStale(tt.now, ttl); got != tt.want {
				t.Errorf("IsStale() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEntry_State(t *testing.T) {
	stored := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	ttl := time.Minute
	snap := testutil.FixtureSnapshot()

	tests := []struct {
		name  string
		entry *Entry
		now   time.Time
		want  State
	}{
		{"nil entry", nil, stored, StateEmpty},
		{"fresh", &Entry{Snapshot: snap, Timestamp: stored}, stored.Add(time.Second), StateFresh},
		{"stale", &Entry{Snapshot: snap, Timestamp: stored}, stored.Add(2 * time.Minute), StateStale},
		{"refreshing", &Entry{Snapshot: snap, Timestamp: stored, Refreshing: true}, stored.Add(2 * time.Minute), StateRefreshing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.state(tt.now, ttl); got != tt.want {
				t.Errorf("state() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEntry_WithRefreshing(t *testing.T) {
	e := &Entry{Snapshot: testutil.FixtureSnapshot(), Timestamp: time.Now()}
	marked := e.withRefreshing(true)

	if e.Refreshing {
		t.Error("withRefreshing must not modify the receiver")
	}
	if !marked.Refreshing || marked.Snapshot != e.Snapshot || !marked.Timestamp.Equal(e.Timestamp) {
		t.Errorf("unexpected marked entry: %+v", marked)
	}
}
