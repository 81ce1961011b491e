// Package memory samples RAM and swap occupancy from /proc/meminfo and
// root filesystem occupancy via statfs.
package memory

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

	"golang.org/x/sys/unix"

	"github.com/stkisengese/desktop-system-monitor/collectors"
	"github.com/stkisengese/desktop-system-monitor/stats"
)

const (
	collectorName        = "memory"
	collectorDescription = "RAM, swap, and root filesystem occupancy"
)

// Data holds occupancy totals in bytes plus derived percentages.
type Data struct {
	TotalRAM     uint64
	AvailableRAM uint64
	UsedRAM      uint64
	TotalSwap    uint64
	UsedSwap     uint64
	TotalDisk    uint64
	UsedDisk     uint64

	RAMPercent  float64
	SwapPercent float64
	DiskPercent float64
}

// Collector reads memory and disk occupancy. /proc/meminfo reports in
// kB; all totals are converted to bytes.
type Collector struct {
	logger *slog.Logger

	// Overridable for tests.
	openMeminfo func() (io.ReadCloser, error)
	statfs      func(path string, buf *unix.Statfs_t) error
}

// New creates a memory collector. A nil logger discards log output.
func New(logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Collector{
		logger: logger,
		openMeminfo: func() (io.ReadCloser, error) {
			return os.Open("/proc/meminfo")
		},
		statfs: unix.Statfs,
	}
}

// Name returns the collector's unique identifier.
func (c *Collector) Name() string { return collectorName }

// Description returns what this collector samples.
func (c *Collector) Description() string { return collectorDescription }

// Collect reads current RAM, swap, and disk occupancy. Each source
// degrades independently: a statfs failure still yields RAM numbers.
func (c *Collector) Collect(ctx context.Context) (*collectors.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := time.Now()
	var warnings []string
	var data Data

	if warn := c.readMeminfo(&data); warn != "" {
		warnings = append(warnings, warn)
	}
	if warn := c.readDisk(&data); warn != "" {
		warnings = append(warnings, warn)
	}

	data.RAMPercent = stats.UsagePercent(data.UsedRAM, data.TotalRAM)
	data.SwapPercent = stats.UsagePercent(data.UsedSwap, data.TotalSwap)
	data.DiskPercent = stats.UsagePercent(data.UsedDisk, data.TotalDisk)

	c.logger.Debug("memory sampled",
		"ram", fmt.Sprintf("%.1f%%", data.RAMPercent),
		"swap", fmt.Sprintf("%.1f%%", data.SwapPercent),
		"disk", fmt.Sprintf("%.1f%%", data.DiskPercent),
	)

	return &collectors.Result{
		Collector: collectorName,
		Timestamp: now,
		Data:      data,
		Warnings:  warnings,
	}, nil
}

// readMeminfo fills RAM and swap fields from /proc/meminfo.
func (c *Collector) readMeminfo(data *Data) string {
	f, err := c.openMeminfo()
	if err != nil {
		return fmt.Sprintf("memory: open /proc/meminfo: %v", err)
	}
	defer f.Close()

	var swapFree uint64

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "MemTotal:"):
			data.TotalRAM = parseKBLine(line)
		case strings.HasPrefix(line, "MemAvailable:"):
			data.AvailableRAM = parseKBLine(line)
		case strings.HasPrefix(line, "SwapTotal:"):
			data.TotalSwap = parseKBLine(line)
		case strings.HasPrefix(line, "SwapFree:"):
			swapFree = parseKBLine(line)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Sprintf("memory: scan /proc/meminfo: %v", err)
	}

	if data.TotalRAM == 0 {
		return "memory: MemTotal not found in /proc/meminfo"
	}
	if data.TotalRAM >= data.AvailableRAM {
		data.UsedRAM = data.TotalRAM - data.AvailableRAM
	}
	if data.TotalSwap >= swapFree {
		data.UsedSwap = data.TotalSwap - swapFree
	}
	return ""
}

// readDisk fills disk fields from statfs on the root filesystem.
func (c *Collector) readDisk(data *Data) string {
	var buf unix.Statfs_t
	if err := c.statfs("/", &buf); err != nil {
		return fmt.Sprintf("memory: statfs /: %v", err)
	}

	bsize := uint64(buf.Frsize)
	data.TotalDisk = buf.Blocks * bsize
	if buf.Blocks >= buf.Bavail {
		data.UsedDisk = (buf.Blocks - buf.Bavail) * bsize
	}
	return ""
}

// parseKBLine extracts the numeric kB value from a /proc/meminfo line
// ("MemTotal:       16384000 kB") and converts it to bytes. Malformed
// lines yield 0.
func parseKBLine(line string) uint64 {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0
	}
	v, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return 0
	}
	return v * 1024
}

// Compile-time interface compliance check.
var _ collectors.Collector = (*Collector)(nil)
