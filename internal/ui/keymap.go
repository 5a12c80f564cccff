package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines keyboard shortcuts for the simulator
type KeyMap struct {
	Quit     key.Binding
	Help     key.Binding
	Enter    key.Binding
	Tab      key.Binding
	Lockdown key.Binding
	Refresh  key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "execute"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "buy/sell"),
		),
		Lockdown: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "lockdown"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "refresh"),
		),
	}
}

// ShortHelp returns bindings for the help bar
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Enter, k.Tab, k.Lockdown, k.Quit}
}

// FullHelp returns every binding
func (k KeyMap) FullHelp() []key.Binding {
	return []key.Binding{k.Enter, k.Tab, k.Lockdown, k.Refresh, k.Help, k.Quit}
}
