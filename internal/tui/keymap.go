package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	quit       key.Binding
	next       key.Binding
	prev       key.Binding
	open       key.Binding
	clear      key.Binding
	submit     key.Binding
	preview    key.Binding
	toggleHelp key.Binding
	back       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		quit:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		next:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		prev:       key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous field")),
		open:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "choose / add files")),
		clear:      key.NewBinding(key.WithKeys("backspace", "delete"), key.WithHelp("backspace", "clear selection")),
		submit:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "submit")),
		preview:    key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "preview description")),
		toggleHelp: key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "toggle help")),
		back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back / quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.next, k.open, k.submit, k.back, k.toggleHelp}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.next, k.prev, k.open, k.clear},
		{k.submit, k.preview, k.toggleHelp, k.back, k.quit},
	}
}
