// Package dialog renders the confirmation shown after a card is created.
package dialog

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	closeKey = key.NewBinding(key.WithKeys("enter", "esc", "c"), key.WithHelp("enter/esc", "close"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(1, 3)
	messageStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	buttonStyle  = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("12")).
			Padding(0, 2)
	hintStyle = lipgloss.NewStyle().Faint(true)
)

// Dialog shows Message and calls OnClose when the user dismisses it. It keeps
// no state of its own.
type Dialog struct {
	Message string
	OnClose func()
}

// HandleKey calls OnClose once for a dismiss key and reports whether it did.
func (d Dialog) HandleKey(msg tea.KeyMsg) bool {
	if !key.Matches(msg, closeKey) {
		return false
	}
	if d.OnClose != nil {
		d.OnClose()
	}
	return true
}

// View renders the dialog centred in a width x height area.
func (d Dialog) View(width, height int) string {
	inner := lipgloss.JoinVertical(lipgloss.Center,
		messageStyle.Render(d.Message),
		"",
		buttonStyle.Render("Close"),
		hintStyle.Render(closeKey.Help().Key+" to "+closeKey.Help().Desc),
	)
	box := boxStyle.Render(inner)
	if width <= 0 || height <= 0 {
		return box
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
