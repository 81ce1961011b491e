// Package history provides fixed-capacity, insertion-ordered sample
// buffers shared between the background sampler and the foreground
// renderer. Each buffer owns its own mutex, pause flag, and sampling
// cadence so that pausing one signal's graph never affects another's.
package history

import (
	"sync"
	"time"
)

const (
	// DefaultCapacity is the number of samples a buffer retains.
	DefaultCapacity = 100

	// DefaultCadenceHz is the sampling frequency a buffer starts with.
	DefaultCadenceHz = 10.0

	// MinCadenceHz and MaxCadenceHz bound user-adjustable cadence.
	MinCadenceHz = 1.0
	MaxCadenceHz = 30.0
)

// Buffer is a bounded FIFO of derived metric samples for one signal.
// All methods are safe for concurrent use.
type Buffer struct {
	mu         sync.Mutex
	values     []float64
	capacity   int
	paused     bool
	cadenceHz  float64
	current    float64
	hasCurrent bool
}

// New creates an empty buffer. A capacity of zero or less falls back to
// DefaultCapacity.
func New(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{
		capacity:  capacity,
		cadenceHz: DefaultCadenceHz,
	}
}

// Record stores v as the buffer's current value and, unless the buffer
// is paused, appends it to the history, evicting the oldest sample once
// capacity is reached. Pausing freezes the rolling window but the
// current value keeps updating so the display can still show a live
// number.
func (b *Buffer) Record(v float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.current = v
	b.hasCurrent = true

	if b.paused {
		return
	}
	b.values = append(b.values, v)
	if len(b.values) > b.capacity {
		b.values = b.values[len(b.values)-b.capacity:]
	}
}

// Snapshot returns a copy of the buffered samples, oldest first. The
// copy lets the renderer iterate without holding the lock.
func (b *Buffer) Snapshot() []float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]float64, len(b.values))
	copy(out, b.values)
	return out
}

// Current returns the most recently recorded value. The second return
// is false until the first Record call.
func (b *Buffer) Current() (float64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current, b.hasCurrent
}

// Len returns the number of buffered samples.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.values)
}

// Cap returns the buffer capacity.
func (b *Buffer) Cap() int {
	return b.capacity
}

// SetPaused toggles history accumulation for this buffer.
func (b *Buffer) SetPaused(paused bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.paused = paused
}

// Paused reports whether history accumulation is paused.
func (b *Buffer) Paused() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.paused
}

// SetCadence sets the sampling frequency in Hz, clamped to the
// [MinCadenceHz, MaxCadenceHz] range.
func (b *Buffer) SetCadence(hz float64) {
	if hz < MinCadenceHz {
		hz = MinCadenceHz
	}
	if hz > MaxCadenceHz {
		hz = MaxCadenceHz
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cadenceHz = hz
}

// Cadence returns the configured sampling frequency in Hz.
func (b *Buffer) Cadence() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cadenceHz
}

// Period returns the minimum wall-clock time between accepted samples
// at the current cadence.
func (b *Buffer) Period() time.Duration {
	return time.Duration(float64(time.Second) / b.Cadence())
}
