package widgets

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// MeterConfig controls a horizontal progress meter with centered
// overlay text, in the style of a desktop progress bar.
type MeterConfig struct {
	// Fraction is the fill level from 0 to 1.
	Fraction float64
	// Width is the bar width in characters.
	Width int
	// Overlay is centered over the bar, e.g. "3.2 GB / 7.6 GB".
	Overlay string
	// WarnAt and DangerAt switch the fill color as the fraction rises.
	// Zero values disable threshold coloring.
	WarnAt   float64
	DangerAt float64
}

var (
	meterOKColor     = lipgloss.Color("#22C55E")
	meterWarnColor   = lipgloss.Color("#EAB308")
	meterDangerColor = lipgloss.Color("#EF4444")

	meterFilledStyle = lipgloss.NewStyle().Reverse(true)
)

// RenderMeter draws the meter. The overlay text sits on top of the
// bar, with the filled portion shown in reverse video so the text
// stays readable across the boundary.
func RenderMeter(cfg MeterConfig) string {
	width := cfg.Width
	if width <= 0 {
		width = 20
	}
	fraction := math.Max(0, math.Min(1, cfg.Fraction))
	filled := int(math.Round(fraction * float64(width)))

	// Center the overlay within the bar.
	cells := []rune(strings.Repeat(" ", width))
	overlay := []rune(cfg.Overlay)
	if len(overlay) > width {
		overlay = overlay[:width]
	}
	start := (width - len(overlay)) / 2
	copy(cells[start:], overlay)

	color := meterColor(fraction, cfg.WarnAt, cfg.DangerAt)
	filledStyle := meterFilledStyle.Foreground(color)

	left := string(cells[:filled])
	right := string(cells[filled:])
	return filledStyle.Render(left) + right
}

func meterColor(fraction, warnAt, dangerAt float64) lipgloss.Color {
	switch {
	case dangerAt > 0 && fraction >= dangerAt:
		return meterDangerColor
	case warnAt > 0 && fraction >= warnAt:
		return meterWarnColor
	default:
		return meterOKColor
	}
}
