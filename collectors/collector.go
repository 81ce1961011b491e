// Package collectors provides the snapshot-reader interface and
// registration for system sampling. Each collector reads one kind of
// raw OS state (CPU ticks, process table, memory occupancy, network
// counters, sensors) and derives bounded metrics from it. A missing or
// malformed data source is never fatal: collectors report such
// conditions as warnings and return whatever they could read.
package collectors

import (
	"context"
	"time"
)

// Collector is the interface all snapshot readers implement.
type Collector interface {
	// Name returns the collector's unique identifier (e.g. "cpu",
	// "procs", "network"). Names must be unique within a Registry.
	Name() string

	// Description returns a human-readable description of what this
	// collector samples.
	Description() string

	// Collect reads a fresh snapshot and returns derived data.
	// Non-fatal issues (absent sensor, vanished process, malformed
	// counter line) are reported as Warnings rather than errors. The
	// context is honored before any I/O starts.
	Collect(ctx context.Context) (*Result, error)
}

// Result holds the output of one sampling pass.
type Result struct {
	// Collector is the name of the collector that produced this result.
	Collector string

	// Timestamp records when the pass completed.
	Timestamp time.Time

	// Data is the collector-specific derived data.
	Data any

	// Warnings contains non-fatal issues encountered during the pass,
	// e.g. one process exiting mid-scan while the rest were read fine.
	Warnings []string
}

// Registry holds registered collectors and provides lookup by name.
type Registry struct {
	collectors []Collector
}

// NewRegistry creates an empty collector registry.
func NewRegistry() *Registry {
	return &Registry{collectors: make([]Collector, 0)}
}

// Register adds a collector to the registry. A collector with the same
// name replaces the existing one.
func (r *Registry) Register(c Collector) {
	for i, existing := range r.collectors {
		if existing.Name() == c.Name() {
			r.collectors[i] = c
			return
		}
	}
	r.collectors = append(r.collectors, c)
}

// Get returns a collector by name. The second return value indicates
// whether the collector was found.
func (r *Registry) Get(name string) (Collector, bool) {
	for _, c := range r.collectors {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

// All returns all registered collectors.
func (r *Registry) All() []Collector {
	result := make([]Collector, len(r.collectors))
	copy(result, r.collectors)
	return result
}
