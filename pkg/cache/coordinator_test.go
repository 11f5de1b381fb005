package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sternrassler/vehicle-catalog/internal/testutil"
	"github.com/Sternrassler/vehicle-catalog/pkg/catalog"
)

// testClock is a settable clock.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// memoryStore is an in-process SnapshotStore.
type memoryStore struct {
	mu    sync.Mutex
	snap  *catalog.Snapshot
	saves int
}

func (m *memoryStore) Save(_ context.Context, snap *catalog.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = snap
	m.saves++
	return nil
}

func (m *memoryStore) Load(context.Context) (*catalog.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snap == nil {
		return nil, ErrCacheMiss
	}
	return m.snap, nil
}

func newTestCoordinator(t *testing.T, opts ...Option) (*Coordinator, *testutil.FakeLoader, *testClock) {
	t.Helper()
	loader := testutil.NewFakeLoader(testutil.FixtureTables())
	clock := newTestClock()
	opts = append([]Option{WithClock(clock.Now), WithTTL(DefaultTTL)}, opts...)
	coord := NewCoordinator(loader, opts...)
	t.Cleanup(coord.Wait)
	return coord, loader, clock
}

func TestNewCoordinator_Panic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("NewCoordinator should panic with nil loader")
		}
	}()
	NewCoordinator(nil)
}

func TestGet_EmptyLoadsAndStores(t *testing.T) {
	coord, loader, _ := newTestCoordinator(t)
	ctx := context.Background()

	assert.Equal(t, StateEmpty, coord.Status().State)

	res, err := coord.Get(ctx, false)
	require.NoError(t, err)
	assert.False(t, res.FromCache)
	assert.Equal(t, 1, loader.Calls())
	assert.Equal(t, StateFresh, coord.Status().State)

	again, err := coord.Get(ctx, false)
	require.NoError(t, err)
	assert.True(t, again.FromCache)
	assert.Same(t, res.Snapshot, again.Snapshot)
	assert.Equal(t, 1, loader.Calls())
}

func TestGet_EmptyLoadFailurePropagates(t *testing.T) {
	coord, loader, _ := newTestCoordinator(t)
	loader.SetError(errors.New("webhook down"))

	_, err := coord.Get(context.Background(), false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, catalog.ErrUpstreamLoad))
	assert.Equal(t, StateEmpty, coord.Status().State)
}

func TestGet_EmptyLoadIsShared(t *testing.T) {
	coord, loader, _ := newTestCoordinator(t)
	gate := make(chan struct{})
	loader.SetGate(gate)

	const readers = 20
	var wg sync.WaitGroup
	versions := make([]string, readers)
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := coord.Get(context.Background(), false)
			if err == nil {
				versions[i] = res.Snapshot.Version
			}
		}(i)
	}

	require.Eventually(t, func() bool { return loader.Calls() >= 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(gate)
	wg.Wait()

	assert.Equal(t, 1, loader.Calls())
	for _, v := range versions {
		assert.Equal(t, versions[0], v)
		assert.NotEmpty(t, v)
	}
}

func TestGet_Bypass(t *testing.T) {
	coord, loader, _ := newTestCoordinator(t)
	ctx := context.Background()

	res, err := coord.Get(ctx, true)
	require.NoError(t, err)
	assert.False(t, res.FromCache)
	assert.Equal(t, 1, loader.DebugCalls())
	assert.Equal(t, StateEmpty, coord.Status().State, "bypass never touches the cache")

	_, err = coord.Get(ctx, false)
	require.NoError(t, err)
	cached := coord.Status().Version

	_, err = coord.Get(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, cached, coord.Status().Version)
	assert.Equal(t, 2, loader.DebugCalls())
}

func TestGet_TTLBoundary(t *testing.T) {
	coord, loader, clock := newTestCoordinator(t)
	ctx := context.Background()

	_, err := coord.Get(ctx, false)
	require.NoError(t, err)

	clock.Advance(DefaultTTL - time.Millisecond)
	res, err := coord.Get(ctx, false)
	require.NoError(t, err)
	assert.True(t, res.FromCache)
	assert.False(t, res.RefreshScheduled)
	coord.Wait()
	assert.Equal(t, 1, loader.Calls())

	clock.Advance(2 * time.Millisecond)
	res, err = coord.Get(ctx, false)
	require.NoError(t, err)
	assert.True(t, res.FromCache)
	assert.True(t, res.RefreshScheduled)
	coord.Wait()
	assert.Equal(t, 2, loader.Calls())
	assert.Equal(t, StateFresh, coord.Status().State)
}

func TestGet_SingleFlightRefresh(t *testing.T) {
	coord, loader, clock := newTestCoordinator(t)
	ctx := context.Background()

	first, err := coord.Get(ctx, false)
	require.NoError(t, err)

	clock.Advance(DefaultTTL + time.Second)
	gate := make(chan struct{})
	loader.SetGate(gate)

	const readers = 100
	var scheduled atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := coord.Get(ctx, false)
			if err != nil {
				t.Errorf("Get failed: %v", err)
				return
			}
			if res.Snapshot != first.Snapshot {
				t.Error("stale read returned a different snapshot")
			}
			if res.RefreshScheduled {
				scheduled.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), scheduled.Load())
	assert.Equal(t, StateRefreshing, coord.Status().State)

	close(gate)
	coord.Wait()

	assert.Equal(t, 2, loader.Calls())
	st := coord.Status()
	assert.Equal(t, StateFresh, st.State)
	assert.NotEqual(t, first.Snapshot.Version, st.Version)
}

func TestGet_BackgroundFailureKeepsStale(t *testing.T) {
	coord, loader, clock := newTestCoordinator(t)
	ctx := context.Background()

	first, err := coord.Get(ctx, false)
	require.NoError(t, err)

	clock.Advance(DefaultTTL + time.Second)
	loader.SetError(errors.New("webhook down"))

	res, err := coord.Get(ctx, false)
	require.NoError(t, err, "background failures never reach the caller")
	assert.True(t, res.RefreshScheduled)
	coord.Wait()

	st := coord.Status()
	assert.Equal(t, StateStale, st.State, "refreshing flag cleared, data still stale")
	assert.Equal(t, first.Snapshot.Version, st.Version)

	loader.SetError(nil)
	res, err = coord.Get(ctx, false)
	require.NoError(t, err)
	assert.Same(t, first.Snapshot, res.Snapshot)
	assert.True(t, res.RefreshScheduled, "next stale read retries")
	coord.Wait()
	assert.Equal(t, 3, loader.Calls())
	assert.Equal(t, StateFresh, coord.Status().State)
}

func TestRefresh(t *testing.T) {
	coord, loader, _ := newTestCoordinator(t)
	ctx := context.Background()

	snap, err := coord.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap.Version, coord.Status().Version, "refresh fills an empty cache")

	next, err := coord.Refresh(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, snap.Version, next.Version)
	assert.Equal(t, next.Version, coord.Status().Version)

	loader.SetError(errors.New("webhook down"))
	_, err = coord.Refresh(ctx)
	assert.True(t, errors.Is(err, catalog.ErrUpstreamLoad))
	assert.Equal(t, next.Version, coord.Status().Version, "failed refresh keeps the old snapshot")
}

func TestRefresh_KeepsInFlightFlag(t *testing.T) {
	coord, loader, clock := newTestCoordinator(t)
	ctx := context.Background()

	_, err := coord.Get(ctx, false)
	require.NoError(t, err)
	clock.Advance(DefaultTTL + time.Second)

	gate := make(chan struct{})
	loader.SetGate(gate)
	res, err := coord.Get(ctx, false)
	require.NoError(t, err)
	require.True(t, res.RefreshScheduled)
	require.Eventually(t, func() bool { return loader.Calls() == 2 }, time.Second, time.Millisecond)

	loader.SetGate(nil)
	_, err = coord.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateRefreshing, coord.Status().State)

	clock.Advance(DefaultTTL + time.Second)
	res, err = coord.Get(ctx, false)
	require.NoError(t, err)
	assert.False(t, res.RefreshScheduled, "no second refresh while one is in flight")

	close(gate)
	coord.Wait()
	assert.Equal(t, StateFresh, coord.Status().State)
}

// generationLoader tags every row with a load generation so readers can
// detect a snapshot mixing two loads.
type generationLoader struct {
	gen atomic.Int64
}

func (g *generationLoader) Load(context.Context, bool) (*catalog.Snapshot, error) {
	n := g.gen.Add(1)
	tables := testutil.FixtureTables()
	tag := fmt.Sprintf("gen-%d", n)
	for i := range tables.Models {
		tables.Models[i].Description = tag
	}
	for i := range tables.Variants {
		tables.Variants[i].Name = tag
	}
	return catalog.NewSnapshot("generation", tables), nil
}

func TestGet_AtomicSwap(t *testing.T) {
	coord := NewCoordinator(&generationLoader{}, WithTTL(time.Nanosecond))
	t.Cleanup(coord.Wait)
	ctx := context.Background()

	_, err := coord.Get(ctx, false)
	require.NoError(t, err)

	stop := make(chan struct{})
	var writers sync.WaitGroup
	writers.Add(1)
	go func() {
		defer writers.Done()
		for {
			select {
			case <-stop:
				return
			default:
				_, _ = coord.Refresh(ctx)
			}
		}
	}()

	var readers sync.WaitGroup
	for i := 0; i < 8; i++ {
		readers.Add(1)
		go func() {
			defer readers.Done()
			for j := 0; j < 200; j++ {
				res, err := coord.Get(ctx, false)
				if err != nil {
					t.Errorf("Get failed: %v", err)
					return
				}
				tag := res.Snapshot.Models[0].Description
				for _, m := range res.Snapshot.Models {
					if m.Description != tag {
						t.Errorf("mixed snapshot: %s and %s", tag, m.Description)
					}
				}
				for _, v := range res.Snapshot.Variants {
					if v.Name != tag {
						t.Errorf("mixed snapshot: %s and %s", tag, v.Name)
					}
				}
			}
		}()
	}
	readers.Wait()
	close(stop)
	writers.Wait()
}

func TestWarm(t *testing.T) {
	store := &memoryStore{}
	coord, loader, clock := newTestCoordinator(t, WithMirror(store))
	ctx := context.Background()

	require.NoError(t, coord.Warm(ctx), "missing mirror copy is not an error")
	assert.Equal(t, StateEmpty, coord.Status().State)

	mirrored := catalog.NewSnapshot(SourceMirror, testutil.FixtureTables())
	mirrored.LoadedAt = clock.Now().Add(-time.Hour)
	store.snap = mirrored

	require.NoError(t, coord.Warm(ctx))
	assert.Equal(t, StateStale, coord.Status().State, "old mirror copy is stale")
	assert.Equal(t, 0, loader.Calls())

	res, err := coord.Get(ctx, false)
	require.NoError(t, err)
	assert.Same(t, mirrored, res.Snapshot)
	assert.True(t, res.RefreshScheduled)
	coord.Wait()

	assert.Equal(t, 1, loader.Calls())
	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Equal(t, 1, store.saves, "refreshed snapshot is mirrored")
	assert.Equal(t, coord.Status().Version, store.snap.Version)
}

func TestStatus(t *testing.T) {
	coord, _, clock := newTestCoordinator(t)

	st := coord.Status()
	assert.Equal(t, StateEmpty, st.State)
	assert.Equal(t, DefaultTTL, st.TTL)
	assert.Empty(t, st.Version)

	_, err := coord.Get(context.Background(), false)
	require.NoError(t, err)
	clock.Advance(time.Minute)

	st = coord.Status()
	assert.Equal(t, StateFresh, st.State)
	assert.Equal(t, time.Minute, st.Age)
	assert.Equal(t, "fake", st.Source)
	assert.Equal(t, testutil.FixtureSnapshot().RowCount(), st.RowCount)
}
