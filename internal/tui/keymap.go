package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the active bindings. The slot binding covers the three
// keyboard rows mapped onto the board grid and is disabled for spectators.
type keyMap struct {
	Slots key.Binding
	Hint  key.Binding
	Quit  key.Binding
}

func newKeyMap(human bool) keyMap {
	var slotKeys []string
	for _, row := range keyRows {
		for _, r := range row {
			slotKeys = append(slotKeys, string(r))
		}
	}

	km := keyMap{
		Slots: key.NewBinding(
			key.WithKeys(slotKeys...),
			key.WithHelp("q-r/a-f/z-v", "pick a slot"),
		),
		Hint: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "hint"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "quit"),
		),
	}
	if !human {
		km.Slots.SetEnabled(false)
	}
	return km
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Slots, k.Hint, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Slots, k.Hint, k.Quit}}
}
