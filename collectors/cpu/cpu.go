// Package cpu samples system-wide CPU tick counters from /proc/stat and
// derives an aggregate usage percentage from the delta between two
// successive readings.
package cpu

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/stkisengese/desktop-system-monitor/collectors"
	"github.com/stkisengese/desktop-system-monitor/stats"
)

const (
	collectorName        = "cpu"
	collectorDescription = "Aggregate CPU usage from /proc/stat tick counters"
)

// Stat is one snapshot of the kernel's cumulative CPU time accounting,
// in jiffies, as reported by the aggregate "cpu" line of /proc/stat.
// All counters are monotonically non-decreasing.
type Stat struct {
	User      uint64
	Nice      uint64
	System    uint64
	Idle      uint64
	IOWait    uint64
	IRQ       uint64
	SoftIRQ   uint64
	Steal     uint64
	Guest     uint64
	GuestNice uint64

	CapturedAt time.Time
}

// Total sums the tracked tick categories. Guest time is already folded
// into User by the kernel, so it is excluded to avoid double counting.
func (s Stat) Total() uint64 {
	return s.User + s.Nice + s.System + s.Idle + s.IOWait + s.IRQ + s.SoftIRQ + s.Steal
}

// IdleTotal is the time the CPU spent doing nothing: idle plus iowait.
func (s Stat) IdleTotal() uint64 {
	return s.Idle + s.IOWait
}

// Data is the derived output of one CPU sampling pass.
type Data struct {
	// Usage is the aggregate CPU usage percentage in [0,100]. Zero on
	// the first pass, before a previous snapshot exists.
	Usage float64

	// Stat is the raw snapshot the usage was derived from.
	Stat Stat

	// Seeded is false on the first pass, when there is no prior
	// snapshot to difference against.
	Seeded bool
}

// Collector reads /proc/stat and keeps the previous snapshot for delta
// computation. It is not safe for concurrent Collect calls; the
// scheduler serializes passes per signal.
type Collector struct {
	logger *slog.Logger

	prev    Stat
	hasPrev bool

	// openProcStat is overridable for tests.
	openProcStat func() (io.ReadCloser, error)
}

// New creates a CPU collector. A nil logger discards log output.
func New(logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Collector{
		logger: logger,
		openProcStat: func() (io.ReadCloser, error) {
			return os.Open("/proc/stat")
		},
	}
}

// Name returns the collector's unique identifier.
func (c *Collector) Name() string { return collectorName }

// Description returns what this collector samples.
func (c *Collector) Description() string { return collectorDescription }

// Collect reads a fresh tick snapshot and derives usage against the
// previous one. The first pass seeds the counters and reports Usage 0.
func (c *Collector) Collect(ctx context.Context) (*collectors.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := time.Now()
	var warnings []string

	curr, err := c.readStat(now)
	if err != nil {
		return &collectors.Result{
			Collector: collectorName,
			Timestamp: now,
			Data:      Data{},
			Warnings:  []string{fmt.Sprintf("cpu: %v", err)},
		}, nil
	}

	data := Data{Stat: curr, Seeded: c.hasPrev}
	if c.hasPrev {
		data.Usage = stats.CPUUsagePercent(
			c.prev.Total(), c.prev.IdleTotal(),
			curr.Total(), curr.IdleTotal(),
		)
	}
	c.prev = curr
	c.hasPrev = true

	c.logger.Debug("cpu sampled", "usage", fmt.Sprintf("%.1f%%", data.Usage))

	return &collectors.Result{
		Collector: collectorName,
		Timestamp: now,
		Data:      data,
		Warnings:  warnings,
	}, nil
}

// readStat parses the aggregate "cpu " line of /proc/stat.
func (c *Collector) readStat(now time.Time) (Stat, error) {
	f, err := c.openProcStat()
	if err != nil {
		return Stat{}, fmt.Errorf("open /proc/stat: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "cpu ") {
			continue
		}
		return parseStatLine(line, now)
	}
	if err := scanner.Err(); err != nil {
		return Stat{}, fmt.Errorf("scan /proc/stat: %w", err)
	}
	return Stat{}, fmt.Errorf("aggregate cpu line not found")
}

// parseStatLine parses "cpu  user nice system idle iowait irq softirq
// steal guest guestnice". Kernels older than the guest fields emit
// fewer columns; at least the first four are required.
func parseStatLine(line string, now time.Time) (Stat, error) {
	fields := strings.Fields(line)
	// fields[0] is the "cpu" label.
	if len(fields) < 5 {
		return Stat{}, fmt.Errorf("cpu line too short: %d fields", len(fields))
	}

	values := make([]uint64, 10)
	for i := 0; i < len(values) && i+1 < len(fields); i++ {
		v, err := strconv.ParseUint(fields[i+1], 10, 64)
		if err != nil {
			return Stat{}, fmt.Errorf("parse cpu field %d: %w", i+1, err)
		}
		values[i] = v
	}

	return Stat{
		User:       values[0],
		Nice:       values[1],
		System:     values[2],
		Idle:       values[3],
		IOWait:     values[4],
		IRQ:        values[5],
		SoftIRQ:    values[6],
		Steal:      values[7],
		Guest:      values[8],
		GuestNice:  values[9],
		CapturedAt: now,
	}, nil
}

// Compile-time interface compliance check.
var _ collectors.Collector = (*Collector)(nil)
