// Package procs enumerates the process table, reading per-process
// identity and statistics from /proc/<pid>/stat. Per-process CPU rates
// are derived by tracking each pid's cumulative tick counters across
// passes; a process that exits mid-scan is skipped without aborting the
// enumeration of the rest.
package procs

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
	"github.com/stkisengese/desktop-system-monitor/tracker"
)

const (
	collectorName        = "procs"
	collectorDescription = "Per-process CPU and memory usage from /proc/<pid>/stat"
)

// Stat is one raw /proc/<pid>/stat reading.
type Stat struct {
	PID   int
	Comm  string
	State byte
	// UTime and STime are cumulative user and kernel mode jiffies.
	UTime uint64
	STime uint64
	// VSize is the virtual memory size in bytes.
	VSize uint64
	// RSS is the resident set size in bytes.
	RSS uint64
}

// Ticks is the process's total CPU time in jiffies.
func (s Stat) Ticks() uint64 { return s.UTime + s.STime }

// Row is one derived process table entry.
type Row struct {
	PID        int
	Name       string
	State      byte
	StateLabel string
	CPUPercent float64
	MemPercent float64
	VSize      uint64
	RSS        uint64
}

// Counts aggregates process states for the system summary. Blocked
// ('D', uninterruptible sleep) is folded into Sleeping for per-row
// display but kept as its own aggregate here.
type Counts struct {
	Total    int
	Running  int
	Sleeping int
	Blocked  int
	Idle     int
	Zombie   int
	Stopped  int
	Other    int
}

// Data is the derived output of one process table pass.
type Data struct {
	Rows   []Row
	Counts Counts
}

// Collector enumerates /proc and tracks per-pid tick counters so that
// a second sighting of a pid yields a CPU rate. First-seen pids report
// 0% because no prior snapshot exists.
type Collector struct {
	logger *slog.Logger

	ticks    *tracker.Table[int, uint64]
	pageSize uint64

	// Overridable for tests.
	listPIDs    func() ([]int, error)
	openPIDStat func(pid int) (io.ReadCloser, error)
	openMeminfo func() (io.ReadCloser, error)
	now         func() time.Time
}

// New creates a process table collector. A nil logger discards log
// output.
func New(logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Collector{
		logger: logger,
		ticks: tracker.New[int, uint64](func(prev, curr uint64, elapsed time.Duration) float64 {
			return stats.ProcessCPUPercent(prev, curr, elapsed)
		}, 0),
		pageSize: uint64(os.Getpagesize()),
		listPIDs: listProcPIDs,
		openPIDStat: func(pid int) (io.ReadCloser, error) {
			return os.Open(fmt.Sprintf("/proc/%d/stat", pid))
		},
		openMeminfo: func() (io.ReadCloser, error) {
			return os.Open("/proc/meminfo")
		},
		now: time.Now,
	}
}

// Name returns the collector's unique identifier.
func (c *Collector) Name() string { return collectorName }

// Description returns what this collector samples.
func (c *Collector) Description() string { return collectorDescription }

// Collect enumerates live pids and derives per-process CPU and memory
// usage. Entities that vanish between enumeration and detail read are
// skipped; their tracking entries are retained for a possible return.
func (c *Collector) Collect(ctx context.Context) (*collectors.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := c.now()
	var warnings []string

	pids, err := c.listPIDs()
	if err != nil {
		return &collectors.Result{
			Collector: collectorName,
			Timestamp: now,
			Data:      Data{},
			Warnings:  []string{fmt.Sprintf("procs: enumerate /proc: %v", err)},
		}, nil
	}

	memTotal := c.readMemTotal()

	data := Data{Rows: make([]Row, 0, len(pids))}
	vanished := 0
	for _, pid := range pids {
		stat, err := c.readPIDStat(pid)
		if err != nil {
			// Process exited mid-scan. Skip it, keep going.
			vanished++
			continue
		}

		rate := c.ticks.Upsert(pid, stat.Ticks(), now)

		row := Row{
			PID:        stat.PID,
			Name:       stat.Comm,
			State:      stat.State,
			StateLabel: stats.StateLabel(stat.State),
			CPUPercent: rate,
			MemPercent: stats.UsagePercent(stat.RSS, memTotal),
			VSize:      stat.VSize,
			RSS:        stat.RSS,
		}
		data.Rows = append(data.Rows, row)
		countState(&data.Counts, stat.State)
	}
	data.Counts.Total = len(data.Rows)

	if vanished > 0 {
		warnings = append(warnings, fmt.Sprintf("procs: %d processes vanished mid-scan", vanished))
	}

	c.logger.Debug("procs sampled",
		"total", data.Counts.Total,
		"running", data.Counts.Running,
		"vanished", vanished,
	)

	return &collectors.Result{
		Collector: collectorName,
		Timestamp: now,
		Data:      data,
		Warnings:  warnings,
	}, nil
}

// countState updates state aggregates. 'D' counts as both Sleeping (its
// display category) and Blocked (its own aggregate).
func countState(counts *Counts, state byte) {
	switch stats.ClassifyState(state) {
	case stats.StateRunning:
		counts.Running++
	case stats.StateSleeping:
		counts.Sleeping++
		if state == 'D' {
			counts.Blocked++
		}
	case stats.StateIdle:
		counts.Idle++
	case stats.StateZombie:
		counts.Zombie++
	case stats.StateStopped:
		counts.Stopped++
	default:
		counts.Other++
	}
}

// readPIDStat reads and parses one /proc/<pid>/stat file.
func (c *Collector) readPIDStat(pid int) (Stat, error) {
	f, err := c.openPIDStat(pid)
	if err != nil {
		return Stat{}, err
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return Stat{}, err
	}
	return c.parsePIDStat(strings.TrimSpace(string(raw)))
}

// parsePIDStat parses a /proc/<pid>/stat line. The comm field is
// wrapped in parentheses and may itself contain spaces or parentheses,
// so the line is split around the last ')'.
func (c *Collector) parsePIDStat(line string) (Stat, error) {
	open := strings.IndexByte(line, '(')
	close := strings.LastIndexByte(line, ')')
	if open < 0 || close < 0 || close < open {
		return Stat{}, fmt.Errorf("malformed stat line")
	}

	pid, err := strconv.Atoi(strings.TrimSpace(line[:open]))
	if err != nil {
		return Stat{}, fmt.Errorf("parse pid: %w", err)
	}
	comm := line[open+1 : close]

	// Fields after the comm, 0-indexed: 0=state 11=utime 12=stime
	// 20=vsize 21=rss (man proc(5), offset by the three leading fields).
	rest := strings.Fields(line[close+1:])
	if len(rest) < 22 {
		return Stat{}, fmt.Errorf("stat line too short: %d fields after comm", len(rest))
	}

	utime, err := strconv.ParseUint(rest[11], 10, 64)
	if err != nil {
		return Stat{}, fmt.Errorf("parse utime: %w", err)
	}
	stime, err := strconv.ParseUint(rest[12], 10, 64)
	if err != nil {
		return Stat{}, fmt.Errorf("parse stime: %w", err)
	}
	vsize, err := strconv.ParseUint(rest[20], 10, 64)
	if err != nil {
		return Stat{}, fmt.Errorf("parse vsize: %w", err)
	}
	rssPages, err := strconv.ParseInt(rest[21], 10, 64)
	if err != nil {
		return Stat{}, fmt.Errorf("parse rss: %w", err)
	}
	if rssPages < 0 {
		rssPages = 0
	}

	return Stat{
		PID:   pid,
		Comm:  comm,
		State: rest[0][0],
		UTime: utime,
		STime: stime,
		VSize: vsize,
		RSS:   uint64(rssPages) * c.pageSize,
	}, nil
}

// readMemTotal returns MemTotal in bytes, or 0 when unavailable (memory
// percentages then degrade to 0 rather than failing the pass).
func (c *Collector) readMemTotal() uint64 {
	f, err := c.openMeminfo()
	if err != nil {
		return 0
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "MemTotal:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return 0
		}
		kb, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return 0
		}
		return kb * 1024
	}
	return 0
}

// listProcPIDs enumerates numeric entries of /proc.
func listProcPIDs() ([]int, error) {
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return nil, err
	}
	pids := make([]int, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		pid, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		pids = append(pids, pid)
	}
	return pids, nil
}

// Compile-time interface compliance check.
var _ collectors.Collector = (*Collector)(nil)
