// Package stats provides the pure rate and delta calculations that turn
// raw kernel counters into bounded, human-meaningful metrics. Every
// function is deterministic and safe on degenerate input: zero elapsed
// time or a zero total never divides by zero and never produces NaN.
package stats

import (
	"fmt"
	"time"
)

// TicksPerSecond is the kernel's USER_HZ clock tick rate used to convert
// jiffies to seconds. Linux has reported 100 through sysconf(_SC_CLK_TCK)
// on every mainstream architecture for decades.
const TicksPerSecond = 100.0

// NetworkProgressScale is the fixed reference ceiling for network usage
// bars: 2 GiB. It exists purely for visualization and is not a claim
// about link capacity.
const NetworkProgressScale = 2 * 1024 * 1024 * 1024

// ClampPercent bounds v to the [0,100] range.
func ClampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// CPUUsagePercent computes system-wide CPU usage from two cumulative
// tick readings. total is the sum of all tracked tick categories and
// idle is idle+iowait, both monotonically non-decreasing. A zero total
// delta yields 0 rather than a division by zero.
func CPUUsagePercent(prevTotal, prevIdle, currTotal, currIdle uint64) float64 {
	if currTotal <= prevTotal {
		return 0
	}
	totalDiff := currTotal - prevTotal

	var idleDiff uint64
	if currIdle > prevIdle {
		idleDiff = currIdle - prevIdle
	}
	if idleDiff > totalDiff {
		idleDiff = totalDiff
	}

	return ClampPercent(float64(totalDiff-idleDiff) / float64(totalDiff) * 100)
}

// ProcessCPUPercent computes a single process's CPU usage from two
// cumulative utime+stime readings and the wall-clock time between them.
// A non-positive elapsed duration or a counter that moved backwards
// (pid reuse) yields 0. The result is capped at 100.
func ProcessCPUPercent(prevTicks, currTicks uint64, elapsed time.Duration) float64 {
	if elapsed <= 0 || currTicks < prevTicks {
		return 0
	}
	seconds := elapsed.Seconds()
	pct := float64(currTicks-prevTicks) / seconds / TicksPerSecond * 100
	if pct > 100 {
		return 100
	}
	return pct
}

// UsagePercent computes used/total as a percentage, returning 0 when
// total is zero.
func UsagePercent(used, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return ClampPercent(float64(used) / float64(total) * 100)
}

// byteUnits are the 1024-ladder unit suffixes for FormatBytes.
var byteUnits = []string{"B", "KB", "MB", "GB", "TB"}

// FormatBytes renders a byte count with the largest unit that keeps the
// scaled value under 1024. Whole bytes get no decimal places; scaled
// values get one.
func FormatBytes(n uint64) string {
	value := float64(n)
	unit := 0
	for value >= 1024 && unit < len(byteUnits)-1 {
		value /= 1024
		unit++
	}
	if unit == 0 {
		return fmt.Sprintf("%d %s", n, byteUnits[0])
	}
	return fmt.Sprintf("%.1f %s", value, byteUnits[unit])
}

// NetworkProgress maps a cumulative byte count onto [0,1] against the
// fixed 2 GiB visualization scale, clamping at the ceiling.
func NetworkProgress(bytes uint64) float64 {
	if bytes >= NetworkProgressScale {
		return 1.0
	}
	return float64(bytes) / float64(NetworkProgressScale)
}
