package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/cardform/internal/model"
)

// optionItem adapts a selector option to bubbles/list.Item
type optionItem struct {
	opt model.Option
}

func (i optionItem) Title() string       { return i.opt.Label }
func (i optionItem) Description() string { return "" }
func (i optionItem) FilterValue() string { return i.opt.Label }

// Custom delegate to control how options render (single line)
type optionDelegate struct {
	current string
}

func (d optionDelegate) Height() int                               { return 1 }
func (d optionDelegate) Spacing() int                              { return 0 }
func (d optionDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d optionDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(optionItem)
	text := it.opt.Label
	if it.opt.Value == d.current {
		text = successStyle.Render(text + " ✔")
	}
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprint(w, prefix+text)
}

// newPicker builds a filterable list over opts with the current value
// preselected.
func newPicker(title string, opts []model.Option, current string, width, height int) list.Model {
	items := make([]list.Item, 0, len(opts))
	selected := 0
	for i, o := range opts {
		items = append(items, optionItem{opt: o})
		if o.Value == current {
			selected = i
		}
	}

	l := list.New(items, optionDelegate{current: current}, width, height)
	l.Title = title
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("option", "options")
	l.Select(selected)
	return l
}

// pickedOption returns the highlighted option, if any.
func pickedOption(l list.Model) (model.Option, bool) {
	it, ok := l.SelectedItem().(optionItem)
	if !ok {
		return model.Option{}, false
	}
	return it.opt, true
}
