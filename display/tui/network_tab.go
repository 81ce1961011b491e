package tui

import (
	"fmt"
	"strings"

	"github.com/stkisengese/desktop-system-monitor/display/widgets"
	"github.com/stkisengese/desktop-system-monitor/stats"
)

// renderNetworkContent renders the Network tab: one block per
// interface with totals, live rates and cumulative-traffic meters.
func (m Model) renderNetworkContent(width, height int) string {
	rows := m.mon.Interfaces()

	var sections []string
	sections = append(sections, styleTitle.Render("Network"))
	sections = append(sections, "")

	if len(rows) == 0 {
		sections = append(sections, styleValue.Render("No interface data yet"))
		return strings.Join(sections, "\n")
	}

	meterWidth := width - 24
	if meterWidth < 10 {
		meterWidth = 10
	}

	for _, row := range rows {
		title := row.Name
		if row.IPv4 != "" {
			title += "  " + row.IPv4
		}
		sections = append(sections, styleLabel.Render(title))

		rx := fmt.Sprintf("RX %10s  %10s/s ",
			stats.FormatBytes(row.RX.Bytes), stats.FormatBytes(uint64(row.RXRate)))
		sections = append(sections, styleValue.Render(rx)+widgets.RenderMeter(widgets.MeterConfig{
			Fraction: row.RXProgress,
			Width:    meterWidth,
			Overlay:  stats.FormatBytes(row.RX.Bytes),
		}))

		tx := fmt.Sprintf("TX %10s  %10s/s ",
			stats.FormatBytes(row.TX.Bytes), stats.FormatBytes(uint64(row.TXRate)))
		sections = append(sections, styleValue.Render(tx)+widgets.RenderMeter(widgets.MeterConfig{
			Fraction: row.TXProgress,
			Width:    meterWidth,
			Overlay:  stats.FormatBytes(row.TX.Bytes),
		}))

		detail := fmt.Sprintf("   packets %d/%d  errs %d/%d  drop %d/%d",
			row.RX.Packets, row.TX.Packets,
			row.RX.Errs, row.TX.Errs,
			row.RX.Drop, row.TX.Drop)
		sections = append(sections, styleMuted.Render(detail))
		sections = append(sections, "")
	}

	return strings.Join(sections, "\n")
}
