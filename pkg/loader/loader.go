package loader

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Sternrassler/vehicle-catalog/pkg/catalog"
)

var loadDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "catalog_upstream_load_duration_seconds",
	Help:    "Upstream load duration by loader and result",
	Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
}, []string{"loader", "result"})

// Loader produces a complete snapshot. Debug loads may read a different
// upstream endpoint.
type Loader interface {
	Load(ctx context.Context, debug bool) (*catalog.Snapshot, error)
}

// Instrumented validates and times the snapshots of another loader.
type Instrumented struct {
	name string
	next Loader
}

// Instrument wraps next. name labels its metrics.
func Instrument(name string, next Loader) *Instrumented {
	return &Instrumented{name: name, next: next}
}

// Load implements Loader. A snapshot failing catalog.Validate is rejected so
// it never replaces a good one.
func (l *Instrumented) Load(ctx context.Context, debug bool) (*catalog.Snapshot, error) {
	start := time.Now()
	snap, err := l.next.Load(ctx, debug)
	if err != nil {
		loadDuration.WithLabelValues(l.name, "failure").Observe(time.Since(start).Seconds())
		return nil, err
	}
	if err := catalog.Validate(&snap.Tables); err != nil {
		loadDuration.WithLabelValues(l.name, "invalid").Observe(time.Since(start).Seconds())
		return nil, fmt.Errorf("%s snapshot rejected: %w", l.name, err)
	}
	loadDuration.WithLabelValues(l.name, "success").Observe(time.Since(start).Seconds())
	return snap, nil
}
