package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the board key bindings.
type KeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding

	Grab   key.Binding // grab / drop the selected widget
	Cancel key.Binding

	Add     key.Binding
	Edit    key.Binding
	Remove  key.Binding
	Open    key.Binding
	Back    key.Binding
	Refresh key.Binding
	Rename  key.Binding
	Nodes   key.Binding
	YankID  key.Binding

	Help key.Binding
	Quit key.Binding
}

// DefaultKeyMap returns the vim-style bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "left column"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "right column"),
		),
		Grab: key.NewBinding(
			key.WithKeys("g", " "),
			key.WithHelp("g", "grab/drop widget"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add widget"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit settings"),
		),
		Remove: key.NewBinding(
			key.WithKeys("d", "x"),
			key.WithHelp("d", "remove widget"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open widget"),
		),
		Back: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("⌫", "back"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh node"),
		),
		Rename: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "rename node"),
		),
		Nodes: key.NewBinding(
			key.WithKeys("o", "p", "ctrl+p"),
			key.WithHelp("p", "switch node"),
		),
		YankID: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy widget id"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp is shown in the status line.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Grab, k.Add, k.Edit, k.Remove, k.Open, k.Help, k.Quit}
}

// FullHelp feeds the help overlay.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Grab, k.Add, k.Edit, k.Remove},
		{k.Open, k.Back, k.Refresh, k.Rename},
		{k.Nodes, k.YankID, k.Help, k.Quit},
	}
}
