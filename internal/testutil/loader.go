package testutil

import (
	"context"
	"sync"

	"github.com/Sternrassler/vehicle-catalog/pkg/catalog"
)

// FakeLoader is an in-memory loader that counts calls.
type FakeLoader struct {
	mu         sync.Mutex
	gate       chan struct{}
	tables     catalog.Tables
	err        error
	calls      int
	debugCalls int
}

// NewFakeLoader returns a loader serving tables.
func NewFakeLoader(tables catalog.Tables) *FakeLoader {
	return &FakeLoader{tables: tables}
}

// Load implements the upstream loader contract.
func (f *FakeLoader) Load(ctx context.Context, debug bool) (*catalog.Snapshot, error) {
	f.mu.Lock()
	f.calls++
	if debug {
		f.debugCalls++
	}
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return catalog.NewSnapshot("fake", f.tables), nil
}

// SetGate makes subsequent loads block until gate is closed or receives a
// value. A nil gate restores non-blocking loads.
func (f *FakeLoader) SetGate(gate chan struct{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gate = gate
}

// SetError makes subsequent loads fail with err (nil restores success).
func (f *FakeLoader) SetError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// SetTables replaces the tables returned by subsequent loads.
func (f *FakeLoader) SetTables(tables catalog.Tables) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tables = tables
}

// Calls returns the number of Load calls, debug ones included.
func (f *FakeLoader) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// DebugCalls returns the number of Load calls made in debug mode.
func (f *FakeLoader) DebugCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.debugCalls
}
