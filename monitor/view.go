package monitor

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/stkisengese/desktop-system-monitor/collectors/memory"
	"github.com/stkisengese/desktop-system-monitor/collectors/network"
	"github.com/stkisengese/desktop-system-monitor/collectors/procs"
	"github.com/stkisengese/desktop-system-monitor/collectors/sensors"
)

// SortColumn selects which process table column orders the rows.
type SortColumn int

const (
	SortPID SortColumn = iota
	SortName
	SortState
	SortCPU
	SortMem
)

// String returns the column's display name.
func (c SortColumn) String() string {
	switch c {
	case SortPID:
		return "pid"
	case SortName:
		return "name"
	case SortState:
		return "state"
	case SortCPU:
		return "cpu"
	case SortMem:
		return "mem"
	default:
		return "unknown"
	}
}

// Summary is the composed system overview shown on the main tab.
type Summary struct {
	OSName   string
	Hostname string
	Username string
	Kernel   string
	CPUModel string
	Uptime   time.Duration
	CPUUsage float64
	Counts   procs.Counts
}

// Summary returns the latest composed system overview.
func (m *Monitor) Summary() Summary {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Summary{
		OSName:   m.hostData.OSName,
		Hostname: m.hostData.Hostname,
		Username: m.hostData.Username,
		Kernel:   m.hostData.Kernel,
		CPUModel: m.hostData.CPUModel,
		Uptime:   m.hostData.Uptime,
		CPUUsage: m.cpuData.Usage,
		Counts:   m.procsData.Counts,
	}
}

// History returns a copy of a signal's recorded samples, oldest first.
// Signals without history return nil.
func (m *Monitor) History(sig Signal) []float64 {
	if buf, ok := m.buffers[sig]; ok {
		return buf.Snapshot()
	}
	return nil
}

// Current returns the most recent sample for a history signal, even
// while recording is paused.
func (m *Monitor) Current(sig Signal) (float64, bool) {
	if buf, ok := m.buffers[sig]; ok {
		return buf.Current()
	}
	return 0, false
}

// Memory returns the latest memory, swap and disk snapshot.
func (m *Monitor) Memory() memory.Data {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.memData
}

// Sensors returns the latest thermal and fan snapshot.
func (m *Monitor) Sensors() sensors.Data {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sensorsData
}

// Interfaces returns the latest network interface rows, sorted by name.
func (m *Monitor) Interfaces() []network.Row {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rows := make([]network.Row, len(m.netData.Rows))
	copy(rows, m.netData.Rows)
	return rows
}

// Processes returns process rows matching filter, ordered by col. The
// filter is a case-insensitive substring match on the process name; an
// empty filter matches everything. Ties order by ascending PID so the
// table never jitters between refreshes.
func (m *Monitor) Processes(filter string, col SortColumn, asc bool) []procs.Row {
	m.mu.RLock()
	all := m.procsData.Rows
	rows := make([]procs.Row, 0, len(all))
	needle := strings.ToLower(filter)
	for _, row := range all {
		if needle != "" && !strings.Contains(strings.ToLower(row.Name), needle) {
			continue
		}
		rows = append(rows, row)
	}
	m.mu.RUnlock()

	slices.SortFunc(rows, func(a, b procs.Row) int {
		c := compareRows(a, b, col)
		if !asc {
			c = -c
		}
		if c == 0 {
			return cmp.Compare(a.PID, b.PID)
		}
		return c
	})
	return rows
}

func compareRows(a, b procs.Row, col SortColumn) int {
	switch col {
	case SortName:
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	case SortState:
		return strings.Compare(a.StateLabel, b.StateLabel)
	case SortCPU:
		return cmp.Compare(a.CPUPercent, b.CPUPercent)
	case SortMem:
		return cmp.Compare(a.MemPercent, b.MemPercent)
	default:
		return cmp.Compare(a.PID, b.PID)
	}
}

// SetFilter stores the process name filter used by the display layer.
func (m *Monitor) SetFilter(filter string) {
	m.mu.Lock()
	m.filter = filter
	m.mu.Unlock()
}

// Filter returns the stored process name filter.
func (m *Monitor) Filter() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.filter
}

// Warnings returns the warnings from a signal's most recent pass.
func (m *Monitor) Warnings(sig Signal) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.warnings[sig])
}
