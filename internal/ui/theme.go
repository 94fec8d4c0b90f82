package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles palette, symbols and box borders for command output.
type Theme struct {
	Name string

	Title, Muted, Accent, Success, Error lipgloss.Style

	Border             lipgloss.Border
	SymOK, SymFail     string
	SymItem, SymSecret string
}

// Themes accepted by ThemeByName.
var ThemeNames = []string{"classic", "neon", "mono"}

// ThemeByName returns the named theme. An empty name selects classic.
func ThemeByName(name string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "classic":
		return Theme{
			Name:    "classic",
			Title:   lipgloss.NewStyle().Bold(true),
			Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
			Accent:  lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
			Success: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
			Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
			Border:  lipgloss.NormalBorder(),
			SymOK:   "✔", SymFail: "✖", SymItem: "•", SymSecret: "🔒",
		}, nil
	case "neon":
		return Theme{
			Name:    "neon",
			Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
			Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
			Accent:  lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
			Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
			Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
			Border:  lipgloss.RoundedBorder(),
			SymOK:   "✔", SymFail: "✖", SymItem: "◆", SymSecret: "🔒",
		}, nil
	case "mono":
		plain := lipgloss.NewStyle()
		return Theme{
			Name:  "mono",
			Title: plain, Muted: plain, Accent: plain, Success: plain, Error: plain,
			Border: lipgloss.Border{
				Top: "-", Bottom: "-", Left: "|", Right: "|",
				TopLeft: "+", TopRight: "+", BottomLeft: "+", BottomRight: "+",
			},
			SymOK: "ok", SymFail: "x", SymItem: "-", SymSecret: "*",
		}, nil
	}
	return Theme{}, fmt.Errorf("unknown theme %q (want one of %s)", name, strings.Join(ThemeNames, ", "))
}
