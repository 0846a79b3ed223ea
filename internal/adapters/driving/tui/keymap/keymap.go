// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help shows the help view.
	Help key.Binding

	// Back returns to the previous view or cancels the filter.
	Back key.Binding

	// Up navigates up in a list.
	Up key.Binding

	// Down navigates down in a list.
	Down key.Binding

	// Select opens the selected meeting or applies the filter.
	Select key.Binding

	// PrevPeriod switches to the period tab on the left.
	PrevPeriod key.Binding

	// NextPeriod switches to the period tab on the right.
	NextPeriod key.Binding

	// Period jumps directly to a tab by number.
	Period key.Binding

	// Filter starts editing the subject filter.
	Filter key.Binding

	// TogglePast shows or hides meetings that already ended.
	TogglePast key.Binding

	// Refresh queries the provider again.
	Refresh key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details"),
		),
		PrevPeriod: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev period"),
		),
		NextPeriod: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next period"),
		),
		Period: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5"),
			key.WithHelp("1-5", "period"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		TogglePast: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "past"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the status bar.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextPeriod, k.Filter, k.TogglePast, k.Refresh, k.Help, k.Quit}
}

// FilterHelp returns keybindings while the filter input has focus.
func (k *KeyMap) FilterHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
		k.Back,
	}
}

// DetailsHelp returns keybindings for the details view.
func (k *KeyMap) DetailsHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Back, k.Quit}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevPeriod, k.NextPeriod, k.Period},
		{k.Up, k.Down, k.Select},
		{k.Filter, k.TogglePast, k.Refresh},
		{k.Back, k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
