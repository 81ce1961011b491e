// Package tui implements the interactive dashboard: a tab-based
// bubbletea application over the monitor's read-side API.
package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/stkisengese/desktop-system-monitor/config"
	"github.com/stkisengese/desktop-system-monitor/display/widgets"
	"github.com/stkisengese/desktop-system-monitor/monitor"
)

// Tab identifies which tab is currently active.
type Tab int

const (
	TabSystem Tab = iota
	TabProcesses
	TabNetwork
	tabCount // sentinel for wrapping
)

// tabNames maps each Tab value to its display label.
var tabNames = map[Tab]string{
	TabSystem:    "System",
	TabProcesses: "Processes",
	TabNetwork:   "Network",
}

// tickInterval drives the sampling scheduler. It must be at least as
// fast as the fastest graph cadence.
const tickInterval = 33 * time.Millisecond

// tickMsg carries the scheduler heartbeat.
type tickMsg time.Time

// graphOrder is the cycle order for graph focus on the System tab.
var graphOrder = []monitor.Signal{monitor.SignalCPU, monitor.SignalThermal, monitor.SignalFan}

// Model is the top-level bubbletea model for the dashboard.
type Model struct {
	mon     *monitor.Monitor
	display config.DisplayConfig

	activeTab Tab
	width     int
	height    int
	ready     bool

	// Process table state.
	sortCol     monitor.SortColumn
	sortAsc     bool
	cursor      int
	filtering   bool
	filterInput textinput.Model

	// Graph state on the System tab. scaleDouble widens the Y axis of
	// the graph at the matching graphOrder index to 200%.
	focusGraph  int
	scaleDouble [3]bool

	help help.Model
}

// NewModel returns an initialized Model bound to a monitor.
func NewModel(mon *monitor.Monitor, display config.DisplayConfig) Model {
	input := textinput.New()
	input.Placeholder = "process name"
	input.Prompt = "/"
	input.CharLimit = 64

	return Model{
		mon:         mon,
		display:     display,
		activeTab:   TabSystem,
		sortCol:     monitor.SortCPU,
		sortAsc:     false,
		filterInput: input,
		help:        help.New(),
	}
}

// Init implements tea.Model and starts the scheduler heartbeat.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.mon.Tick(time.Time(msg))
		return m, tickCmd()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg), nil

	case tea.KeyMsg:
		if m.filtering {
			return m.handleFilterKey(msg)
		}
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey processes key presses outside filter entry mode.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.NextTab):
		m.activeTab = (m.activeTab + 1) % tabCount
	case key.Matches(msg, keys.PrevTab):
		m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
	case key.Matches(msg, keys.Tab1):
		m.activeTab = TabSystem
	case key.Matches(msg, keys.Tab2):
		m.activeTab = TabProcesses
	case key.Matches(msg, keys.Tab3):
		m.activeTab = TabNetwork

	case key.Matches(msg, keys.ScrollUp):
		if m.activeTab == TabProcesses && m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.ScrollDown):
		if m.activeTab == TabProcesses {
			last := len(m.mon.Processes(m.mon.Filter(), m.sortCol, m.sortAsc)) - 1
			if m.cursor < last {
				m.cursor++
			}
		}

	case key.Matches(msg, keys.Filter):
		if m.activeTab == TabProcesses {
			m.filtering = true
			m.filterInput.Focus()
			return m, textinput.Blink
		}
	case key.Matches(msg, keys.SortNext):
		m.sortCol = nextSortColumn(m.sortCol)
		m.cursor = 0
	case key.Matches(msg, keys.SortFlip):
		m.sortAsc = !m.sortAsc

	case key.Matches(msg, keys.Pause):
		sig := graphOrder[m.focusGraph]
		m.mon.SetPaused(sig, !m.mon.Paused(sig))
	case key.Matches(msg, keys.CadenceUp):
		sig := graphOrder[m.focusGraph]
		m.mon.SetCadence(sig, m.mon.Cadence(sig)+1)
	case key.Matches(msg, keys.CadenceDown):
		sig := graphOrder[m.focusGraph]
		m.mon.SetCadence(sig, m.mon.Cadence(sig)-1)
	case key.Matches(msg, keys.NextGraph):
		m.focusGraph = (m.focusGraph + 1) % len(graphOrder)
	case key.Matches(msg, keys.ScaleToggle):
		if graphOrder[m.focusGraph] != monitor.SignalFan {
			m.scaleDouble[m.focusGraph] = !m.scaleDouble[m.focusGraph]
		}

	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

// handleFilterKey routes key presses to the filter input.
func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.filtering = false
		m.filterInput.Blur()
		return m, nil
	case "esc":
		m.filtering = false
		m.filterInput.Blur()
		m.filterInput.SetValue("")
		m.mon.SetFilter("")
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.mon.SetFilter(m.filterInput.Value())
	m.cursor = 0
	return m, cmd
}

// handleMouse resolves clicks against marked zones: tab headers and
// the graph pause badges.
func (m Model) handleMouse(msg tea.MouseMsg) Model {
	if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		return m
	}

	for i := Tab(0); i < tabCount; i++ {
		if zone.Get(tabZoneID(i)).InBounds(msg) {
			m.activeTab = i
			return m
		}
	}

	if m.activeTab == TabSystem {
		for i, sig := range graphOrder {
			if zone.Get(graphZoneID(sig)).InBounds(msg) {
				m.focusGraph = i
				m.mon.SetPaused(sig, !m.mon.Paused(sig))
				return m
			}
		}
	}

	return m
}

func tabZoneID(t Tab) string { return "tab_" + tabNames[t] }

func graphZoneID(sig monitor.Signal) string { return "graph_" + sig.String() }

func nextSortColumn(col monitor.SortColumn) monitor.SortColumn {
	switch col {
	case monitor.SortPID:
		return monitor.SortName
	case monitor.SortName:
		return monitor.SortState
	case monitor.SortState:
		return monitor.SortCPU
	case monitor.SortCPU:
		return monitor.SortMem
	default:
		return monitor.SortPID
	}
}

// View implements tea.Model. The full frame passes through zone.Scan
// so mouse zones track their rendered positions.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := m.renderHeader()
	content := m.renderTabContent()
	footer := m.renderFooter()

	return zone.Scan(lipgloss.JoinVertical(lipgloss.Left, header, content, footer))
}

// sparkWidth is the column count of the header's CPU trend.
const sparkWidth = 20

// renderHeader renders the tab bar with the active tab highlighted and
// a compact CPU trend at the right edge. Each tab is a mouse zone.
func (m Model) renderHeader() string {
	var tabs []string
	for i := Tab(0); i < tabCount; i++ {
		name := tabNames[i]
		var rendered string
		if i == m.activeTab {
			rendered = styleActiveTab.Render(name)
		} else {
			rendered = styleInactiveTab.Render(name)
		}
		tabs = append(tabs, zone.Mark(tabZoneID(i), rendered))
	}

	tabBar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	spark := cpuSparkline(m.mon.History(monitor.SignalCPU), sparkWidth)
	if gap := m.width - lipgloss.Width(tabBar) - sparkWidth - 1; gap > 0 {
		tabBar += strings.Repeat(" ", gap) + spark
	}

	return styleHeader.Width(m.width).Render(tabBar)
}

// cpuSparkline renders a one-row CPU usage trend.
func cpuSparkline(data []float64, width int) string {
	return widgets.Sparkline(data, width, colorPrimary)
}

// renderTabContent delegates to the active tab's renderer.
func (m Model) renderTabContent() string {
	contentHeight := m.height - 6
	if contentHeight < 1 {
		contentHeight = 1
	}
	contentWidth := m.width - 4
	if contentWidth < 20 {
		contentWidth = 20
	}

	var content string
	switch m.activeTab {
	case TabSystem:
		content = m.renderSystemContent(contentWidth, contentHeight)
	case TabProcesses:
		content = m.renderProcessContent(contentWidth, contentHeight)
	case TabNetwork:
		content = m.renderNetworkContent(contentWidth, contentHeight)
	}

	return styleContent.Width(m.width).Render(content)
}

// renderFooter renders the key help line.
func (m Model) renderFooter() string {
	return styleFooter.Width(m.width).Render(m.help.View(keys))
}
