package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/stkisengese/desktop-system-monitor/collectors/procs"
	"github.com/stkisengese/desktop-system-monitor/display/widgets"
	"github.com/stkisengese/desktop-system-monitor/monitor"
	"github.com/stkisengese/desktop-system-monitor/stats"
)

// graphHeight is the row count of each history graph.
const graphHeight = 4

// renderSystemContent renders the System tab: identity summary, the
// three history graphs, and the memory meters.
func (m Model) renderSystemContent(width, height int) string {
	s := m.mon.Summary()

	var sections []string

	sections = append(sections, styleTitle.Render("System"))
	sections = append(sections, "")

	rows := []struct {
		label string
		value string
	}{
		{"OS", s.OSName},
		{"Host", s.Hostname},
		{"User", s.Username},
		{"Kernel", s.Kernel},
		{"CPU", s.CPUModel},
		{"Uptime", formatUptime(s.Uptime)},
		{"Tasks", formatCounts(s.Counts)},
	}
	for _, r := range rows {
		sections = append(sections,
			styleLabel.Render(r.label+":")+" "+styleValue.Render(r.value))
	}

	sections = append(sections, "")
	for i, sig := range graphOrder {
		sections = append(sections, m.renderGraph(i, sig, width))
		sections = append(sections, "")
	}

	sections = append(sections, m.renderMemoryMeters(width)...)

	return strings.Join(sections, "\n")
}

// renderGraph renders one history graph with its header line. The
// header is a mouse zone: clicking it focuses the graph and toggles
// pause.
func (m Model) renderGraph(i int, sig monitor.Signal, width int) string {
	title := graphTitle(sig)

	marker := "  "
	if i == m.focusGraph {
		marker = "> "
	}

	badge := fmt.Sprintf("%.0f Hz", m.mon.Cadence(sig))
	if m.mon.Paused(sig) {
		badge = stylePausedBadge.Render("PAUSED")
	}

	cfg := widgets.GraphConfig{
		Data:    m.mon.History(sig),
		Width:   width,
		Height:  graphHeight,
		Color:   graphColor(sig),
		Overlay: m.graphOverlay(sig),
	}
	if max, fixed := graphScale(sig, m.scaleDouble[i]); fixed {
		cfg.Min, cfg.Max = 0, max
		badge += fmt.Sprintf("  %.0f%%", max)
	}

	headerLine := zone.Mark(graphZoneID(sig),
		marker+styleLabel.Render(title)+" "+badge)

	return headerLine + "\n" + widgets.RenderGraph(cfg)
}

// graphScale returns the fixed Y-axis ceiling for a graph. CPU and
// temperature draw against 100% by default and 200% when doubled; fan
// RPM always auto-scales to its own range.
func graphScale(sig monitor.Signal, doubled bool) (max float64, fixed bool) {
	if sig == monitor.SignalFan {
		return 0, false
	}
	if doubled {
		return 200, true
	}
	return 100, true
}

func graphTitle(sig monitor.Signal) string {
	switch sig {
	case monitor.SignalCPU:
		return "CPU"
	case monitor.SignalThermal:
		return "Temperature"
	case monitor.SignalFan:
		return "Fan"
	default:
		return sig.String()
	}
}

func graphColor(sig monitor.Signal) lipgloss.Color {
	switch sig {
	case monitor.SignalCPU:
		return colorPrimary
	case monitor.SignalThermal:
		return colorWarning
	default:
		return colorSuccess
	}
}

// graphOverlay builds the current-value text drawn over a graph. The
// value tracks live samples even while the graph is paused.
func (m Model) graphOverlay(sig monitor.Signal) string {
	cur, ok := m.mon.Current(sig)
	if !ok {
		return ""
	}
	switch sig {
	case monitor.SignalCPU:
		return fmt.Sprintf(" %.1f%% ", cur)
	case monitor.SignalThermal:
		return fmt.Sprintf(" %.1f°C ", cur)
	case monitor.SignalFan:
		sensors := m.mon.Sensors()
		if sensors.FanAvailable {
			return fmt.Sprintf(" %.0f RPM (level %d) ", cur, sensors.FanLevel)
		}
		return fmt.Sprintf(" %.0f RPM ", cur)
	default:
		return ""
	}
}

// renderMemoryMeters renders the RAM, swap and disk usage bars.
func (m Model) renderMemoryMeters(width int) []string {
	mem := m.mon.Memory()

	meterWidth := width - 8
	if meterWidth < 10 {
		meterWidth = 10
	}

	meter := func(label string, used, total uint64, percent float64) string {
		overlay := fmt.Sprintf("%s / %s", stats.FormatBytes(used), stats.FormatBytes(total))
		bar := widgets.RenderMeter(m.usageMeterConfig(percent, meterWidth, overlay))
		return styleLabel.Render(fmt.Sprintf("%-5s", label)) + " " + bar
	}

	return []string{
		meter("RAM", mem.UsedRAM, mem.TotalRAM, mem.RAMPercent),
		meter("Swap", mem.UsedSwap, mem.TotalSwap, mem.SwapPercent),
		meter("Disk", mem.UsedDisk, mem.TotalDisk, mem.DiskPercent),
	}
}

// usageMeterConfig builds the settings for one usage bar, applying the
// configured warning and danger thresholds.
func (m Model) usageMeterConfig(percent float64, width int, overlay string) widgets.MeterConfig {
	return widgets.MeterConfig{
		Fraction: percent / 100,
		Width:    width,
		Overlay:  overlay,
		WarnAt:   m.display.WarnPercent / 100,
		DangerAt: m.display.DangerPercent / 100,
	}
}

func formatUptime(d time.Duration) string {
	if d <= 0 {
		return "unknown"
	}
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

func formatCounts(c procs.Counts) string {
	return fmt.Sprintf("%d total, %d running, %d sleeping, %d blocked, %d zombie, %d stopped",
		c.Total, c.Running, c.Sleeping, c.Blocked, c.Zombie, c.Stopped)
}
