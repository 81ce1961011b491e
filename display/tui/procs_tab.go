package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/stkisengese/desktop-system-monitor/monitor"
	"github.com/stkisengese/desktop-system-monitor/stats"
)

// Process table column layout.
var procColumns = []struct {
	title string
	width int
	right bool
}{
	{"PID", 7, true},
	{"NAME", 24, false},
	{"STATE", 10, false},
	{"CPU%", 6, true},
	{"MEM%", 6, true},
	{"VSZ", 10, true},
	{"RSS", 10, true},
}

// renderProcessContent renders the Processes tab: counts, the filter
// line, and the sortable process table.
func (m Model) renderProcessContent(width, height int) string {
	var sections []string

	sections = append(sections, styleTitle.Render("Processes"))

	counts := m.mon.Summary().Counts
	sections = append(sections, styleValue.Render(formatCounts(counts)))

	sections = append(sections, m.renderFilterLine())
	sections = append(sections, "")

	rows := m.mon.Processes(m.mon.Filter(), m.sortCol, m.sortAsc)

	sections = append(sections, m.renderProcHeader())

	visible := height - len(sections) - 1
	if visible < 1 {
		visible = 1
	}

	cursor := m.cursor
	if cursor >= len(rows) {
		cursor = len(rows) - 1
	}
	if cursor < 0 {
		cursor = 0
	}

	// Scroll just far enough to keep the cursor row visible.
	offset := 0
	if cursor >= visible {
		offset = cursor - visible + 1
	}

	end := offset + visible
	if end > len(rows) {
		end = len(rows)
	}
	for i, row := range rows[offset:end] {
		cells := []string{
			fmt.Sprintf("%d", row.PID),
			row.Name,
			row.StateLabel,
			fmt.Sprintf("%.1f", row.CPUPercent),
			fmt.Sprintf("%.1f", row.MemPercent),
			stats.FormatBytes(row.VSize),
			stats.FormatBytes(row.RSS),
		}
		sections = append(sections, renderProcRow(cells, procRowStyle(offset+i == cursor, row.State)))
	}

	if len(rows) == 0 {
		sections = append(sections, styleValue.Render("No matching processes"))
	}

	return strings.Join(sections, "\n")
}

// renderFilterLine shows the live filter input while editing, or the
// committed filter otherwise.
func (m Model) renderFilterLine() string {
	if m.filtering {
		return m.filterInput.View()
	}
	if filter := m.mon.Filter(); filter != "" {
		return styleLabel.Render("Filter:") + " " + styleValue.Render(filter)
	}
	return styleValue.Render("Press / to filter")
}

// renderProcHeader renders column titles with a sort indicator on the
// active column.
func (m Model) renderProcHeader() string {
	indicator := "▼"
	if m.sortAsc {
		indicator = "▲"
	}

	cells := make([]string, len(procColumns))
	for i, col := range procColumns {
		title := col.title
		if sortColumnIndex(m.sortCol) == i {
			title += indicator
		}
		cells[i] = padCell(title, col.width, col.right)
	}
	return styleTableHeader.Render(strings.Join(cells, " "))
}

func renderProcRow(cells []string, style lipgloss.Style) string {
	padded := make([]string, len(procColumns))
	for i, col := range procColumns {
		text := ""
		if i < len(cells) {
			text = cells[i]
		}
		padded[i] = padCell(text, col.width, col.right)
	}
	return style.Render(strings.Join(padded, " "))
}

// procRowStyle picks the row style: cursor highlight first, then a
// danger tint for zombies.
func procRowStyle(selected bool, state byte) lipgloss.Style {
	if selected {
		return styleSelectedRow
	}
	if stats.ClassifyState(state) == stats.StateZombie {
		return styleZombieRow
	}
	return styleValue
}

// sortColumnIndex maps a sort column to its table column index.
func sortColumnIndex(col monitor.SortColumn) int {
	switch col {
	case monitor.SortPID:
		return 0
	case monitor.SortName:
		return 1
	case monitor.SortState:
		return 2
	case monitor.SortCPU:
		return 3
	case monitor.SortMem:
		return 4
	default:
		return -1
	}
}

// padCell pads or truncates text to width, truncating with an
// ellipsis.
func padCell(text string, width int, right bool) string {
	runes := []rune(text)
	if len(runes) > width {
		if width <= 1 {
			return string(runes[:width])
		}
		return string(runes[:width-1]) + "…"
	}
	pad := strings.Repeat(" ", width-len(runes))
	if right {
		return pad + text
	}
	return text + pad
}
