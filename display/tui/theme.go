package tui

import "github.com/charmbracelet/lipgloss"

// Color palette for the dashboard.
const (
	colorPrimary   = lipgloss.Color("#06B6D4") // Cyan
	colorSecondary = lipgloss.Color("#7C3AED") // Purple
	colorSuccess   = lipgloss.Color("#22C55E") // Green
	colorWarning   = lipgloss.Color("#EAB308") // Yellow
	colorDanger    = lipgloss.Color("#EF4444") // Red
	colorMuted     = lipgloss.Color("#6B7280") // Gray
	colorText      = lipgloss.Color("#E5E7EB") // Near-white
)

// Styles used throughout the TUI.
var (
	styleActiveTab = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(colorPrimary).
			Padding(0, 2)

	styleInactiveTab = lipgloss.NewStyle().
				Foreground(colorMuted).
				Padding(0, 2)

	styleHeader = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(colorMuted)

	styleFooter = lipgloss.NewStyle().
			Foreground(colorMuted).
			MarginTop(1)

	styleContent = lipgloss.NewStyle().
			Padding(1, 2)

	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	styleLabel = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorSecondary)

	styleValue = lipgloss.NewStyle().
			Foreground(colorText)

	styleTableHeader = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorPrimary)

	styleSelectedRow = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(colorSecondary)

	styleZombieRow = lipgloss.NewStyle().
			Foreground(colorDanger)

	stylePausedBadge = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorWarning)

	styleMuted = lipgloss.NewStyle().
			Foreground(colorMuted)
)
