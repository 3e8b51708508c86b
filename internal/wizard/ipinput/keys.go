package ipinput

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the navigation keys of the address field.
// Digits and editing keys are handled by the cells themselves.
type KeyMap struct {
	Separator key.Binding
	Backspace key.Binding
	Left      key.Binding
	Right     key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Separator: key.NewBinding(
			key.WithKeys("."),
			key.WithHelp(".", "next octet"),
		),
		Backspace: key.NewBinding(
			key.WithKeys("backspace", "ctrl+h"),
			key.WithHelp("⌫", "delete"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "right"),
		),
	}
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Separator, k.Left, k.Right}
}

// FullHelp returns keybindings for the expanded help view
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Separator, k.Backspace},
		{k.Left, k.Right},
	}
}
