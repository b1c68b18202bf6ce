package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines key bindings shared by every view. Views that do not
// play back only honour Quit.
type keyMap struct {
	Quit    key.Binding
	Play    key.Binding
	Forward key.Binding
	Back    key.Binding
	Start   key.Binding
	End     key.Binding
	Faster  key.Binding
	Slower  key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c", "esc"),
		key.WithHelp("q", "quit"),
	),
	Play: key.NewBinding(
		key.WithKeys(" ", "p"),
		key.WithHelp("space", "play/pause"),
	),
	Forward: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→", "step"),
	),
	Back: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←", "back"),
	),
	Start: key.NewBinding(
		key.WithKeys("home", "g"),
		key.WithHelp("home", "first"),
	),
	End: key.NewBinding(
		key.WithKeys("end", "G"),
		key.WithHelp("end", "last"),
	),
	Faster: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "faster"),
	),
	Slower: key.NewBinding(
		key.WithKeys("-", "_"),
		key.WithHelp("-", "slower"),
	),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Play, k.Back, k.Forward, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Play, k.Back, k.Forward},
		{k.Start, k.End},
		{k.Faster, k.Slower, k.Quit},
	}
}
