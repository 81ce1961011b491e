package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/x/term"

	"github.com/stkisengese/desktop-system-monitor/monitor"
	"github.com/stkisengese/desktop-system-monitor/stats"
)

// dumpSettle is the delay between the two collection passes in dump
// mode. Rates need a second snapshot to derive from.
const dumpSettle = 500 * time.Millisecond

// runDumpMode samples everything twice and prints a plain-text
// snapshot. The first pass seeds the rate trackers; the second yields
// real usage figures.
func runDumpMode(mon *monitor.Monitor, w io.Writer) error {
	mon.Tick(time.Now())
	mon.Wait()
	time.Sleep(dumpSettle)
	// Force a second pass for every signal, ignoring intervals.
	mon.Tick(time.Now().Add(time.Hour))
	mon.Wait()

	width := terminalWidth()

	s := mon.Summary()
	fmt.Fprintf(w, "sysmon snapshot %s\n\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "OS:      %s\n", s.OSName)
	fmt.Fprintf(w, "Host:    %s\n", s.Hostname)
	fmt.Fprintf(w, "User:    %s\n", s.Username)
	fmt.Fprintf(w, "Kernel:  %s\n", s.Kernel)
	fmt.Fprintf(w, "CPU:     %s\n", s.CPUModel)
	fmt.Fprintf(w, "Uptime:  %s\n", s.Uptime)
	fmt.Fprintf(w, "Tasks:   %d total, %d running, %d sleeping, %d blocked, %d zombie\n",
		s.Counts.Total, s.Counts.Running, s.Counts.Sleeping, s.Counts.Blocked, s.Counts.Zombie)

	if usage, ok := mon.Current(monitor.SignalCPU); ok {
		fmt.Fprintf(w, "\nCPU usage: %.1f%%\n", usage)
	}
	if temp, ok := mon.Current(monitor.SignalThermal); ok {
		fmt.Fprintf(w, "Temperature: %.1f°C\n", temp)
	}
	if rpm, ok := mon.Current(monitor.SignalFan); ok {
		fmt.Fprintf(w, "Fan: %.0f RPM\n", rpm)
	}

	mem := mon.Memory()
	fmt.Fprintf(w, "\nRAM:  %s / %s (%.1f%%)\n",
		stats.FormatBytes(mem.UsedRAM), stats.FormatBytes(mem.TotalRAM), mem.RAMPercent)
	fmt.Fprintf(w, "Swap: %s / %s (%.1f%%)\n",
		stats.FormatBytes(mem.UsedSwap), stats.FormatBytes(mem.TotalSwap), mem.SwapPercent)
	fmt.Fprintf(w, "Disk: %s / %s (%.1f%%)\n",
		stats.FormatBytes(mem.UsedDisk), stats.FormatBytes(mem.TotalDisk), mem.DiskPercent)

	fmt.Fprintf(w, "\n%-7s %-24s %-10s %6s %6s\n", "PID", "NAME", "STATE", "CPU%", "MEM%")
	rows := mon.Processes("", monitor.SortCPU, false)
	limit := 15
	if len(rows) < limit {
		limit = len(rows)
	}
	nameWidth := 24
	if width < 60 {
		nameWidth = 12
	}
	for _, row := range rows[:limit] {
		name := row.Name
		if len(name) > nameWidth {
			name = name[:nameWidth]
		}
		fmt.Fprintf(w, "%-7d %-24s %-10s %6.1f %6.1f\n",
			row.PID, name, row.StateLabel, row.CPUPercent, row.MemPercent)
	}

	fmt.Fprintf(w, "\n%-12s %-16s %12s %12s %12s %12s\n",
		"IFACE", "IPV4", "RX", "RX/S", "TX", "TX/S")
	for _, row := range mon.Interfaces() {
		fmt.Fprintf(w, "%-12s %-16s %12s %12s %12s %12s\n",
			row.Name, row.IPv4,
			stats.FormatBytes(row.RX.Bytes),
			stats.FormatBytes(uint64(row.RXRate))+"/s",
			stats.FormatBytes(row.TX.Bytes),
			stats.FormatBytes(uint64(row.TXRate))+"/s")
	}

	fmt.Fprintf(w, "\nCollectors:\n")
	for _, c := range mon.Registry().All() {
		fmt.Fprintf(w, "  %-10s %s\n", c.Name(), c.Description())
	}

	return nil
}

// terminalWidth detects the terminal width, falling back to COLUMNS
// and then to 80 columns.
func terminalWidth() int {
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		return w
	}
	if cols := os.Getenv("COLUMNS"); cols != "" {
		if w, err := strconv.Atoi(cols); err == nil && w > 0 {
			return w
		}
	}
	return 80
}
