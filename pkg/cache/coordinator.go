package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/Sternrassler/vehicle-catalog/pkg/catalog"
)

const (
	// DefaultTTL is how long a stored snapshot counts as fresh.
	DefaultTTL = 30 * time.Minute

	mirrorWriteTimeout = 5 * time.Second
)

// Loader produces a complete table set from upstream. Debug loads may use a
// different upstream endpoint and are never cached.
type Loader interface {
	Load(ctx context.Context, debug bool) (*catalog.Snapshot, error)
}

// SnapshotStore persists the last good snapshot outside the process.
type SnapshotStore interface {
	Save(ctx context.Context, snap *catalog.Snapshot) error
	Load(ctx context.Context) (*catalog.Snapshot, error)
}

// Result is a snapshot plus how it was obtained.
type Result struct {
	Snapshot *catalog.Snapshot

	// FromCache is false when the snapshot came from a synchronous load.
	FromCache bool

	// RefreshScheduled is true when this read started a background refresh.
	RefreshScheduled bool

	// Age is the age of the cached entry; zero for synchronous loads.
	Age time.Duration
}

// Status describes the cached entry.
type Status struct {
	State    State         `json:"state"`
	Age      time.Duration `json:"age"`
	Version  string        `json:"version,omitempty"`
	Source   string        `json:"source,omitempty"`
	StoredAt time.Time     `json:"stored_at,omitzero"`
	TTL      time.Duration `json:"ttl"`
	RowCount int           `json:"row_count"`
}

// Coordinator owns the cached snapshot.
type Coordinator struct {
	loader Loader
	mirror SnapshotStore
	ttl    time.Duration
	now    func() time.Time
	logger zerolog.Logger

	entry atomic.Pointer[Entry]
	fill  singleflight.Group
	bg    sync.WaitGroup
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithTTL sets the freshness window.
func WithTTL(ttl time.Duration) Option {
	return func(c *Coordinator) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock replaces time.Now (for tests).
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		c.now = now
	}
}

// WithMirror persists every successful load to store.
func WithMirror(store SnapshotStore) Option {
	return func(c *Coordinator) {
		c.mirror = store
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// NewCoordinator creates an empty coordinator in front of loader.
func NewCoordinator(loader Loader, opts ...Option) *Coordinator {
	if loader == nil {
		panic("loader cannot be nil")
	}
	c := &Coordinator{
		loader: loader,
		ttl:    DefaultTTL,
		now:    time.Now,
		logger: log.With().Str("component", "cache").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL returns the freshness window.
func (c *Coordinator) TTL() time.Duration {
	return c.ttl
}

// Get returns the current snapshot.
//
// With bypass set it loads synchronously in debug mode and leaves the cache
// untouched. An empty cache is filled by one synchronous load shared by all
// concurrent callers; its failure is returned. Otherwise the cached snapshot
// is returned at once, and if it is stale and no refresh is in flight this
// call starts one in the background.
func (c *Coordinator) Get(ctx context.Context, bypass bool) (Result, error) {
	if bypass {
		CacheBypass.Inc()
		snap, err := c.load(ctx, true)
		if err != nil {
			return Result{}, err
		}
		return Result{Snapshot: snap}, nil
	}

	e := c.entry.Load()
	if e == nil {
		CacheMisses.Inc()
		return c.fillEmpty(ctx)
	}

	now := c.now()
	res := Result{Snapshot: e.Snapshot, FromCache: true, Age: e.Age(now)}
	if !e.IsStale(now, c.ttl) {
		CacheHits.WithLabelValues(string(StateFresh)).Inc()
		return res, nil
	}

	CacheHits.WithLabelValues(string(StateStale)).Inc()
	if !e.Refreshing {
		res.RefreshScheduled = c.scheduleRefresh(e)
	}
	return res, nil
}

// fillEmpty performs the Empty-state load. Callers arriving during the load
// share its outcome; the load is detached from the first caller's
// cancellation since every waiter depends on it.
func (c *Coordinator) fillEmpty(ctx context.Context) (Result, error) {
	v, err, _ := c.fill.Do("fill", func() (any, error) {
		if e := c.entry.Load(); e != nil {
			return e, nil
		}
		snap, err := c.load(context.WithoutCancel(ctx), false)
		if err != nil {
			return nil, err
		}
		stored := &Entry{Snapshot: snap, Timestamp: c.now()}
		if !c.entry.CompareAndSwap(nil, stored) {
			// A manual refresh or warm start got there first.
			return c.entry.Load(), nil
		}
		c.stored(snap)
		return stored, nil
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Snapshot: v.(*Entry).Snapshot}, nil
}

// scheduleRefresh marks e as refreshing and starts the background refresh.
// The compare-and-swap fails if another reader marked or replaced e first,
// which keeps at most one background refresh in flight.
func (c *Coordinator) scheduleRefresh(e *Entry) bool {
	if !c.entry.CompareAndSwap(e, e.withRefreshing(true)) {
		return false
	}
	RefreshInFlight.Set(1)
	c.logger.Info().
		Str("version", e.Snapshot.Version).
		Dur("age", e.Age(c.now())).
		Msg("Scheduling background cache refresh")

	c.bg.Add(1)
	go c.refreshInBackground()
	return true
}

// refreshInBackground is fire-and-forget: no request waits for it and its
// failure only clears the refreshing flag so the stale snapshot keeps serving.
func (c *Coordinator) refreshInBackground() {
	defer c.bg.Done()
	defer RefreshInFlight.Set(0)

	snap, err := c.load(context.Background(), false)
	if err != nil {
		Refreshes.WithLabelValues("background", "failure").Inc()
		c.logger.Error().Err(err).Msg("Background cache refresh failed; serving stale snapshot")
		c.swap(func(cur *Entry) *Entry {
			if !cur.Refreshing {
				return nil
			}
			return cur.withRefreshing(false)
		})
		return
	}

	c.entry.Store(&Entry{Snapshot: snap, Timestamp: c.now()})
	c.stored(snap)
	Refreshes.WithLabelValues("background", "success").Inc()
	c.logger.Info().Msg("Background cache refresh completed")
}

// Refresh loads synchronously and replaces the cached snapshot whatever its
// state. An in-flight background refresh keeps its flag so no second one can
// start until it finishes.
func (c *Coordinator) Refresh(ctx context.Context) (*catalog.Snapshot, error) {
	snap, err := c.load(ctx, false)
	if err != nil {
		Refreshes.WithLabelValues("manual", "failure").Inc()
		c.logger.Warn().Err(err).Msg("Manual cache refresh failed")
		return nil, err
	}

	stored := &Entry{Snapshot: snap, Timestamp: c.now()}
	c.swap(func(cur *Entry) *Entry {
		if cur != nil && cur.Refreshing {
			return stored.withRefreshing(true)
		}
		return stored
	})
	c.stored(snap)
	Refreshes.WithLabelValues("manual", "success").Inc()
	c.logger.Info().Str("version", snap.Version).Msg("Manual cache refresh completed")
	return snap, nil
}

// Warm seeds an empty cache from the mirror. The seeded entry keeps the
// snapshot's original load time, so an old copy is served as stale and
// refreshed on first read. A missing mirror copy is not an error.
func (c *Coordinator) Warm(ctx context.Context) error {
	if c.mirror == nil || c.entry.Load() != nil {
		return nil
	}
	snap, err := c.mirror.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			c.logger.Info().Msg("No mirrored snapshot; starting empty")
			return nil
		}
		return err
	}
	if c.entry.CompareAndSwap(nil, &Entry{Snapshot: snap, Timestamp: snap.LoadedAt}) {
		SnapshotRows.Set(float64(snap.RowCount()))
		c.logger.Info().
			Str("version", snap.Version).
			Time("loaded_at", snap.LoadedAt).
			Msg("Cache warmed from mirror")
	}
	return nil
}

// Status reports the cached entry's state.
func (c *Coordinator) Status() Status {
	e := c.entry.Load()
	now := c.now()
	st := Status{State: e.state(now, c.ttl), TTL: c.ttl}
	if e != nil {
		st.Age = e.Age(now)
		st.Version = e.Snapshot.Version
		st.Source = e.Snapshot.Source
		st.StoredAt = e.Timestamp
		st.RowCount = e.Snapshot.RowCount()
	}
	return st
}

// Wait blocks until background refreshes and mirror writes finish.
func (c *Coordinator) Wait() {
	c.bg.Wait()
}

// swap applies fn to the current entry until the compare-and-swap wins.
// fn returning nil leaves the entry unchanged.
func (c *Coordinator) swap(fn func(cur *Entry) *Entry) {
	for {
		cur := c.entry.Load()
		next := fn(cur)
		if next == nil || c.entry.CompareAndSwap(cur, next) {
			return
		}
	}
}

func (c *Coordinator) load(ctx context.Context, debug bool) (*catalog.Snapshot, error) {
	mode := "normal"
	if debug {
		mode = "debug"
	}
	start := time.Now()
	snap, err := c.loader.Load(ctx, debug)
	LoadDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, catalog.UpstreamFailure(err)
	}

	c.logger.Debug().
		Str("mode", mode).
		Str("version", snap.Version).
		Int("rows", snap.RowCount()).
		Dur("duration", time.Since(start)).
		Msg("Loaded catalog snapshot")
	return snap, nil
}

// stored records a newly cached snapshot and mirrors it in the background.
func (c *Coordinator) stored(snap *catalog.Snapshot) {
	SnapshotRows.Set(float64(snap.RowCount()))
	if c.mirror == nil {
		return
	}
	c.bg.Add(1)
	go func() {
		defer c.bg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), mirrorWriteTimeout)
		defer cancel()
		if err := c.mirror.Save(ctx, snap); err != nil {
			c.logger.Warn().Err(err).Str("version", snap.Version).Msg("Failed to mirror snapshot")
		}
	}()
}
