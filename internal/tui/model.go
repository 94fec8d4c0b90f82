// Package tui is the terminal rendition of the card form.
package tui

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/cardform/internal/dialog"
	"github.com/idilsaglam/cardform/internal/form"
	"github.com/idilsaglam/cardform/internal/model"
)

type focusField int

const (
	focusEmail focusField = iota
	focusTitle
	focusDescription
	focusBoard
	focusList
	focusLabel
	focusLoom
	focusAttachments
	focusSubmit
	focusCount
)

type mode int

const (
	modeForm mode = iota
	modePicker
	modeFiles
)

// Options tune the form program.
type Options struct {
	// AllowedTypes filters the file picker, e.g. ".png". Empty allows everything.
	AllowedTypes []string
	// StartDir is where the file picker opens. Defaults to the working directory.
	StartDir string
}

// Model is the Bubble Tea model of the card form.
type Model struct {
	ctrl *form.Controller
	keys keyMap
	help help.Model

	width  int
	height int

	focus focusField
	mode  mode
	hint  string

	email       textinput.Model
	title       textinput.Model
	loom        textinput.Model
	description textarea.Model

	picker      list.Model
	pickerField model.Field
	files       filepicker.Model

	spinner      spinner.Model
	preview      bool
	md           *markdownRenderer
	allowedTypes []string
}

// NewModel builds the form around ctrl.
func NewModel(ctrl *form.Controller, opts Options) Model {
	m := Model{
		ctrl:         ctrl,
		keys:         newKeyMap(),
		help:         help.New(),
		width:        80,
		height:       24,
		md:           &markdownRenderer{},
		allowedTypes: append([]string(nil), opts.AllowedTypes...),
		spinner:      spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(accentStyle)),
	}
	m.help.Styles.ShortKey = accentStyle
	m.help.Styles.FullKey = accentStyle

	m.email = newInput("Enter your email", 254)
	m.title = newInput("Enter the card Title", 512)
	m.loom = newInput("Enter Loom video URL", 2048)

	m.description = textarea.New()
	m.description.Placeholder = "Enter a description"
	m.description.ShowLineNumbers = false
	m.description.CharLimit = 16384
	m.description.SetHeight(4)

	m.files = filepicker.New()
	m.files.AllowedTypes = m.allowedTypes
	m.files.CurrentDirectory = opts.StartDir
	if m.files.CurrentDirectory == "" {
		if wd, err := os.Getwd(); err == nil {
			m.files.CurrentDirectory = wd
		}
	}

	m.resize(m.width, m.height)
	m.setFocus(focusEmail)
	return m
}

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	return ti
}

// Init starts the boards fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.ctrl.Init(), textinput.Blink)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.ctrl.Update(msg) {
		if _, ok := msg.(form.SubmittedMsg); ok {
			m.syncInputs()
		}
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		var cmd tea.Cmd
		m.files, cmd = m.files.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		if !m.ctrl.Status().Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		if m.ctrl.Status().ModalVisible {
			m.confirmation().HandleKey(msg)
			return m, nil
		}
		switch m.mode {
		case modePicker:
			return m.updatePicker(msg)
		case modeFiles:
			return m.updateFiles(msg)
		}
		return m.updateForm(msg)
	}

	var cmd tea.Cmd
	switch m.mode {
	case modePicker:
		m.picker, cmd = m.picker.Update(msg)
	case modeFiles:
		m.files, cmd = m.files.Update(msg)
	default:
		cmd = m.updateFocused(msg)
	}
	return m, cmd
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Terminals deliver dropped files as a bracketed paste of their paths.
	if msg.Paste && msg.Type == tea.KeyRunes {
		if paths := droppedFiles(string(msg.Runes)); len(paths) > 0 {
			for _, p := range paths {
				m.ctrl.AddAttachments(model.NewAttachment(p))
			}
			m.hint = ""
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.back):
		return m, tea.Quit
	case key.Matches(msg, m.keys.submit):
		return m, m.submit()
	case key.Matches(msg, m.keys.next):
		return m, m.setFocus((m.focus + 1) % focusCount)
	case key.Matches(msg, m.keys.prev):
		return m, m.setFocus((m.focus + focusCount - 1) % focusCount)
	case key.Matches(msg, m.keys.preview):
		m.preview = !m.preview
		return m, nil
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	switch m.focus {
	case focusBoard, focusList, focusLabel:
		field := selectorField(m.focus)
		if key.Matches(msg, m.keys.open) {
			m.openPicker(field)
			return m, nil
		}
		if key.Matches(msg, m.keys.clear) {
			return m, m.ctrl.EditField(field, "")
		}
		return m, nil
	case focusAttachments:
		if key.Matches(msg, m.keys.open) {
			m.mode = modeFiles
			return m, m.files.Init()
		}
		return m, nil
	case focusSubmit:
		if key.Matches(msg, m.keys.open) {
			return m, m.submit()
		}
		return m, nil
	case focusEmail, focusTitle, focusLoom:
		if key.Matches(msg, m.keys.open) {
			return m, m.setFocus(m.focus + 1)
		}
	}
	return m, m.updateFocused(msg)
}

func (m Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.picker.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.back):
			m.mode = modeForm
			return m, nil
		case key.Matches(msg, m.keys.open):
			m.mode = modeForm
			if opt, ok := pickedOption(m.picker); ok {
				return m, m.ctrl.EditField(m.pickerField, opt.Value)
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m Model) updateFiles(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.back) {
		m.mode = modeForm
		return m, nil
	}
	var cmd tea.Cmd
	m.files, cmd = m.files.Update(msg)
	if ok, path := m.files.DidSelectFile(msg); ok {
		m.ctrl.AddAttachments(model.NewAttachment(path))
		m.hint = ""
		m.mode = modeForm
		return m, cmd
	}
	if ok, path := m.files.DidSelectDisabledFile(msg); ok {
		m.hint = filepath.Base(path) + " is not one of " + strings.Join(m.allowedTypes, ", ")
	}
	return m, cmd
}

// updateFocused forwards msg to the focused text widget and mirrors its value
// into the controller.
func (m *Model) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.focus {
	case focusEmail:
		m.email, cmd = m.email.Update(msg)
		m.ctrl.EditField(model.FieldUserEmail, m.email.Value())
	case focusTitle:
		m.title, cmd = m.title.Update(msg)
		m.ctrl.EditField(model.FieldCardName, m.title.Value())
	case focusDescription:
		m.description, cmd = m.description.Update(msg)
		m.ctrl.EditField(model.FieldCardDescription, m.description.Value())
	case focusLoom:
		m.loom, cmd = m.loom.Update(msg)
		m.ctrl.EditField(model.FieldLoomVideoURL, m.loom.Value())
	}
	return cmd
}

func (m *Model) submit() tea.Cmd {
	cmd := m.ctrl.Submit()
	if cmd == nil {
		return nil
	}
	m.hint = ""
	return tea.Batch(cmd, m.spinner.Tick)
}

func (m *Model) openPicker(field model.Field) {
	var opts []model.Option
	switch field {
	case model.FieldBoardID:
		opts = m.ctrl.Boards()
	case model.FieldListID:
		opts = m.ctrl.Lists()
	case model.FieldLabelID:
		opts = m.ctrl.Labels()
	}
	if len(opts) == 0 {
		m.hint = "No " + strings.ToLower(field.Label()) + "s to choose from"
		return
	}
	m.hint = ""
	m.pickerField = field
	m.picker = newPicker("Select a "+field.Label(), opts, m.ctrl.Form().Get(field), m.width-4, m.height-4)
	m.mode = modePicker
}

func (m *Model) setFocus(f focusField) tea.Cmd {
	m.focus = f
	m.email.Blur()
	m.title.Blur()
	m.loom.Blur()
	m.description.Blur()
	switch f {
	case focusEmail:
		return m.email.Focus()
	case focusTitle:
		return m.title.Focus()
	case focusDescription:
		return m.description.Focus()
	case focusLoom:
		return m.loom.Focus()
	}
	return nil
}

// syncInputs copies the controller's field values back into the widgets.
func (m *Model) syncInputs() {
	f := m.ctrl.Form()
	m.email.SetValue(f.UserEmail)
	m.title.SetValue(f.CardName)
	m.description.SetValue(f.CardDescription)
	m.loom.SetValue(f.LoomVideoURL)
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	inner := w - 8
	if inner < 20 {
		inner = 20
	}
	m.email.Width = inner
	m.title.Width = inner
	m.loom.Width = inner
	m.description.SetWidth(inner)
	m.help.Width = inner
	if m.mode == modePicker {
		m.picker.SetSize(w-4, h-4)
	}
}

func (m Model) confirmation() dialog.Dialog {
	return dialog.Dialog{Message: m.ctrl.Status().Notification, OnClose: m.ctrl.DismissDialog}
}

func selectorField(f focusField) model.Field {
	switch f {
	case focusList:
		return model.FieldListID
	case focusLabel:
		return model.FieldLabelID
	}
	return model.FieldBoardID
}

// droppedFiles returns the paths in a paste when every line names an existing
// file, nil otherwise.
func droppedFiles(text string) []string {
	lines := strings.FieldsFunc(text, func(r rune) bool { return r == '\n' || r == '\r' })
	var paths []string
	for _, line := range lines {
		p := strings.TrimSpace(line)
		p = strings.Trim(p, "\"'")
		p = strings.TrimPrefix(p, "file://")
		p = strings.ReplaceAll(p, "\\ ", " ")
		if p == "" {
			continue
		}
		if strings.HasPrefix(p, "~/") {
			if home, err := os.UserHomeDir(); err == nil {
				p = filepath.Join(home, p[2:])
			}
		}
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			return nil
		}
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		paths = append(paths, p)
	}
	return paths
}
