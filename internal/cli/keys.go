package cli

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the keyboard bindings of the browser.
type keyMap struct {
	Quit key.Binding
	Help key.Binding

	// Navigation
	Up         key.Binding
	Down       key.Binding
	Top        key.Binding
	Bottom     key.Binding
	NextColumn key.Binding
	PrevColumn key.Binding

	// Selection
	Select      key.Binding
	SelectAdd   key.Binding
	ClearSelect key.Binding

	// Structure
	Group    key.Binding
	GroupAdd key.Binding
	Sort     key.Binding
	Collapse key.Binding

	// Layout
	NextRuleSet key.Binding
	PrevRuleSet key.Binding
	Grow        key.Binding
	Shrink      key.Binding
}

// defaultKeyMap returns the default key bindings.
func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("home", "go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("end"),
			key.WithHelp("end", "go to bottom"),
		),
		NextColumn: key.NewBinding(
			key.WithKeys("l", "right", "tab"),
			key.WithHelp("l/→", "next column"),
		),
		PrevColumn: key.NewBinding(
			key.WithKeys("h", "left", "shift+tab"),
			key.WithHelp("h/←", "previous column"),
		),

		Select: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "select row"),
		),
		SelectAdd: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "toggle row in selection"),
		),
		ClearSelect: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear selection"),
		),

		Group: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "group/sort by column"),
		),
		GroupAdd: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "add column to grouping"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort by column"),
		),
		Collapse: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "collapse/expand group"),
		),

		NextRuleSet: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "next rule set"),
		),
		PrevRuleSet: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "previous rule set"),
		),
		Grow: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "taller viewport"),
		),
		Shrink: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "shorter viewport"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Group, k.Collapse, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.NextColumn, k.PrevColumn},
		{k.Select, k.SelectAdd, k.ClearSelect},
		{k.Group, k.GroupAdd, k.Sort, k.Collapse},
		{k.NextRuleSet, k.PrevRuleSet, k.Grow, k.Shrink},
		{k.Help, k.Quit},
	}
}
