// Package tracker maintains per-entity counter state across sampling
// passes. A Table maps a stable entity identifier (process ID,
// interface name) to its last raw counter snapshot and the rate derived
// from the previous one. Entities that disappear are retained until the
// table exceeds its size bound, at which point the stalest entries are
// evicted.
package tracker

import (
	"sort"
	"sync"
	"time"
)

// DefaultMaxEntries bounds table growth over a long session. Vanished
// entities linger until the bound is hit, so a brief pid reuse window
// still finds its previous counters.
const DefaultMaxEntries = 4096

// RateFunc derives a rate from two successive raw snapshots of the same
// entity and the wall-clock time between their captures. It must return
// 0 for non-positive elapsed durations.
type RateFunc[R any] func(prev, curr R, elapsed time.Duration) float64

// State is what the table remembers about one entity.
type State[R any] struct {
	Raw       R
	Rate      float64
	UpdatedAt time.Time
}

// Table tracks last-known counters and derived rates per entity. All
// methods are safe for concurrent use.
type Table[K comparable, R any] struct {
	mu         sync.Mutex
	entries    map[K]State[R]
	rate       RateFunc[R]
	maxEntries int
}

// New creates a table using rate to derive per-entity rates. A
// maxEntries of zero or less falls back to DefaultMaxEntries.
func New[K comparable, R any](rate RateFunc[R], maxEntries int) *Table[K, R] {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Table[K, R]{
		entries:    make(map[K]State[R]),
		rate:       rate,
		maxEntries: maxEntries,
	}
}

// Upsert records a fresh raw snapshot for id and returns the derived
// rate. A first-seen entity gets rate 0 because no prior snapshot
// exists to difference against.
func (t *Table[K, R]) Upsert(id K, raw R, now time.Time) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev, seen := t.entries[id]

	var rate float64
	if seen {
		rate = t.rate(prev.Raw, raw, now.Sub(prev.UpdatedAt))
	}

	t.entries[id] = State[R]{Raw: raw, Rate: rate, UpdatedAt: now}

	if len(t.entries) > t.maxEntries {
		t.evictStalest()
	}
	return rate
}

// RateOf returns the last derived rate for id, or 0 if the entity has
// never been seen or has been evicted.
func (t *Table[K, R]) RateOf(id K) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.entries[id].Rate
}

// Lookup returns the tracked state for id. The second return is false
// for unknown entities so callers degrade gracefully when an entity has
// vanished.
func (t *Table[K, R]) Lookup(id K) (State[R], bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.entries[id]
	return s, ok
}

// Len returns the number of tracked entities.
func (t *Table[K, R]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// evictStalest drops the oldest-updated entries until the table is back
// within its bound. Caller holds the lock.
func (t *Table[K, R]) evictStalest() {
	type aged struct {
		id K
		at time.Time
	}
	all := make([]aged, 0, len(t.entries))
	for id, s := range t.entries {
		all = append(all, aged{id, s.UpdatedAt})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].at.Before(all[j].at) })

	for _, a := range all {
		if len(t.entries) <= t.maxEntries {
			break
		}
		delete(t.entries, a.id)
	}
}
