// Package ui prints themed command output: status lines and framed panels.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Printer writes themed output. Colors are dropped when out is not a terminal.
type Printer struct {
	out   io.Writer
	err   io.Writer
	theme Theme
	color bool
}

// NewPrinter builds a printer for the given streams.
func NewPrinter(out, errOut io.Writer, theme Theme) *Printer {
	return &Printer{out: out, err: errOut, theme: theme, color: isTerminal(out) && theme.Name != "mono"}
}

// Theme returns the active theme.
func (p *Printer) Theme() Theme { return p.theme }

// Style renders s with st when colors are on.
func (p *Printer) Style(st lipgloss.Style, s string) string {
	if !p.color {
		return s
	}
	return st.Render(s)
}

func (p *Printer) OK(msg string) {
	fmt.Fprintln(p.out, p.Style(p.theme.Success, p.theme.SymOK+" "+msg))
}

func (p *Printer) Fail(msg string) {
	fmt.Fprintln(p.err, p.Style(p.theme.Error, p.theme.SymFail+" "+msg))
}

// Panel draws title and lines inside a box using the theme's border.
func (p *Printer) Panel(title string, lines []string) {
	body := make([]string, 0, len(lines)+2)
	if title != "" {
		body = append(body, p.Style(p.theme.Title, title), "")
	}
	body = append(body, lines...)
	content := strings.Join(body, "\n")

	b := p.theme.Border
	width := lipgloss.Width(content)
	rows := strings.Split(content, "\n")

	var sb strings.Builder
	sb.WriteString(b.TopLeft + strings.Repeat(b.Top, width+2) + b.TopRight + "\n")
	for _, row := range rows {
		pad := width - lipgloss.Width(row)
		sb.WriteString(b.Left + " " + row + strings.Repeat(" ", pad) + " " + b.Right + "\n")
	}
	sb.WriteString(b.BottomLeft + strings.Repeat(b.Bottom, width+2) + b.BottomRight + "\n")
	fmt.Fprint(p.out, sb.String())
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
