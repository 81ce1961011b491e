package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all key bindings for the dashboard.
// It implements the help.KeyMap interface for bubbles/help integration.
type keyMap struct {
	Quit    key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Tab1    key.Binding
	Tab2    key.Binding
	Tab3    key.Binding

	ScrollUp   key.Binding
	ScrollDown key.Binding
	Filter     key.Binding
	SortNext   key.Binding
	SortFlip   key.Binding

	Pause       key.Binding
	CadenceUp   key.Binding
	CadenceDown key.Binding
	NextGraph   key.Binding
	ScaleToggle key.Binding

	Help key.Binding
}

// ShortHelp returns the compact set of keybindings shown in the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.NextTab, k.Pause, k.Quit}
}

// FullHelp returns the expanded keybinding groups shown when help is toggled.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextTab, k.PrevTab, k.Tab1, k.Tab2, k.Tab3},
		{k.ScrollUp, k.ScrollDown, k.Filter, k.SortNext, k.SortFlip},
		{k.Pause, k.CadenceUp, k.CadenceDown, k.NextGraph, k.ScaleToggle},
		{k.Help, k.Quit},
	}
}

// keys holds the default key bindings used by the application.
var keys = keyMap{
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	NextTab: key.NewBinding(key.WithKeys("tab", "right"), key.WithHelp("tab", "next tab")),
	PrevTab: key.NewBinding(key.WithKeys("shift+tab", "left"), key.WithHelp("shift+tab", "prev tab")),
	Tab1:    key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "system")),
	Tab2:    key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "processes")),
	Tab3:    key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "network")),

	ScrollUp:   key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/up", "move up")),
	ScrollDown: key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/dn", "move down")),
	Filter:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
	SortNext:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort column")),
	SortFlip:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reverse sort")),

	Pause:       key.NewBinding(key.WithKeys("p", " "), key.WithHelp("p", "pause graph")),
	CadenceUp:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "faster sampling")),
	CadenceDown: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "slower sampling")),
	NextGraph:   key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "next graph")),
	ScaleToggle: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "y-scale")),

	Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
}
