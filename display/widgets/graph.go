// Package widgets renders the dashboard's text primitives: history
// graphs, sparklines and overlay meters. Widgets return plain strings
// styled with lipgloss so callers can compose them freely.
package widgets

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// blocks holds the eight partial block runes, lowest fill first.
var blocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// GraphConfig controls a multi-row history graph.
type GraphConfig struct {
	// Data points, oldest first. The last Width points are drawn.
	Data []float64
	// Width in columns. Fewer points than Width left-pads with blanks.
	Width int
	// Height in rows. Minimum 1.
	Height int
	// Min and Max fix the vertical scale. Equal values auto-scale to
	// the data's range.
	Min float64
	Max float64
	// Overlay is drawn over the top-left corner of the graph.
	Overlay string
	// Color styles the plotted blocks.
	Color lipgloss.Color
}

// RenderGraph draws a block-character chart, one column per sample.
// Each column stacks full blocks bottom-up with a partial block at the
// fill boundary.
func RenderGraph(cfg GraphConfig) string {
	width := cfg.Width
	if width <= 0 {
		width = len(cfg.Data)
	}
	height := cfg.Height
	if height < 1 {
		height = 1
	}
	if width == 0 {
		return ""
	}

	data := cfg.Data
	if len(data) > width {
		data = data[len(data)-width:]
	}

	lo, hi := cfg.Min, cfg.Max
	if lo == hi {
		lo, hi = dataRange(data)
	}

	// Eighths of fill per column.
	levels := make([]int, len(data))
	span := hi - lo
	for i, v := range data {
		if span <= 0 {
			levels[i] = height * len(blocks) / 2
			continue
		}
		norm := (v - lo) / span
		norm = math.Max(0, math.Min(1, norm))
		levels[i] = int(math.Round(norm * float64(height*len(blocks))))
	}

	pad := width - len(data)
	var style lipgloss.Style
	if cfg.Color != "" {
		style = lipgloss.NewStyle().Foreground(cfg.Color)
	}

	rows := make([]string, height)
	for row := 0; row < height; row++ {
		// Eighths already consumed by the rows below this one.
		floor := (height - 1 - row) * len(blocks)
		var sb strings.Builder
		sb.WriteString(strings.Repeat(" ", pad))
		for _, level := range levels {
			fill := level - floor
			switch {
			case fill <= 0:
				sb.WriteRune(' ')
			case fill >= len(blocks):
				sb.WriteRune(blocks[len(blocks)-1])
			default:
				sb.WriteRune(blocks[fill-1])
			}
		}
		line := sb.String()
		if cfg.Color != "" {
			line = style.Render(line)
		}
		rows[row] = line
	}

	if cfg.Overlay != "" {
		rows[0] = overlayText(rows[0], cfg.Overlay, width, cfg.Color)
	}

	return strings.Join(rows, "\n")
}

// Sparkline draws a single-row chart of the last width points, scaled
// to the data's own range.
func Sparkline(data []float64, width int, color lipgloss.Color) string {
	return RenderGraph(GraphConfig{
		Data:   data,
		Width:  width,
		Height: 1,
		Color:  color,
	})
}

// overlayText replaces the leading cells of a rendered row with text.
// The row may carry ANSI codes, so the remainder is re-rendered from
// scratch rather than sliced.
func overlayText(row, text string, width int, color lipgloss.Color) string {
	plain := []rune(stripANSI(row))
	label := []rune(text)
	if len(label) > width {
		label = label[:width]
	}
	rest := ""
	if len(label) < len(plain) {
		rest = string(plain[len(label):])
	}
	if color != "" {
		rest = lipgloss.NewStyle().Foreground(color).Render(rest)
	}
	return string(label) + rest
}

// stripANSI removes CSI escape sequences.
func stripANSI(s string) string {
	var sb strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func dataRange(data []float64) (lo, hi float64) {
	if len(data) == 0 {
		return 0, 0
	}
	lo, hi = data[0], data[0]
	for _, v := range data[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
