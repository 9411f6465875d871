package widget

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next    key.Binding
	Prev    key.Binding
	Enter   key.Binding
	Submit  key.Binding
	Browse  key.Binding
	Up      key.Binding
	Down    key.Binding
	Copy    key.Binding
	Help    key.Binding
	Back    key.Binding
	Quit    key.Binding
	Dismiss key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous field"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "submit"),
		),
		Browse: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "browse files"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "previous chunk"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next chunk"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c", "y", "enter"),
			key.WithHelp("c/y/enter", "copy chunk"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1", "?"),
			key.WithHelp("?/f1", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("enter", "esc", " "),
			key.WithHelp("enter/esc", "dismiss"),
		),
	}
}

// shortHelp returns the bindings relevant to the current focus.
func (m Model) shortHelp() []key.Binding {
	if m.alert != nil {
		return []key.Binding{m.keys.Dismiss}
	}
	switch m.mode {
	case PickerView, HelpView:
		return []key.Binding{m.keys.Back, m.keys.Quit}
	}
	if m.focus == FocusChunks {
		return []key.Binding{m.keys.Up, m.keys.Down, m.keys.Copy, m.keys.Next, m.keys.Help, m.keys.Back}
	}
	return []key.Binding{m.keys.Next, m.keys.Enter, m.keys.Submit, m.keys.Browse, m.keys.Back}
}
