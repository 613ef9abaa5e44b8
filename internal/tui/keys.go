package tui

import "github.com/charmbracelet/bubbles/key"

// PrefsKeys are the bindings of the preferences form.
type PrefsKeys struct {
	Up       key.Binding
	Down     key.Binding
	Toggle   key.Binding
	Enter    key.Binding
	Decrease key.Binding
	Increase key.Binding
	Save     key.Binding
	Cancel   key.Binding
	Help     key.Binding
}

var prefsKeys = PrefsKeys{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("j/k", "navigate"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("j/k", "navigate"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("Space", "toggle"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "edit"),
	),
	Decrease: key.NewBinding(
		key.WithKeys("left", "h", "-"),
		key.WithHelp("←/→", "change"),
	),
	Increase: key.NewBinding(
		key.WithKeys("right", "l", "+"),
		key.WithHelp("←/→", "change"),
	),
	Save: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("Ctrl+s", "save"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc", "ctrl+c", "q"),
		key.WithHelp("Esc", "cancel"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "more keys"),
	),
}

// ShortHelp implements help.KeyMap.
func (k PrefsKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Enter, k.Save, k.Cancel, k.Help}
}

// FullHelp implements help.KeyMap.
func (k PrefsKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Enter, k.Toggle},
		{k.Increase, k.Save, k.Cancel},
	}
}
