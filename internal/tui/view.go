package tui

import (
	"strings"

	"github.com/idilsaglam/cardform/internal/model"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.ctrl.Status().ModalVisible {
		return m.confirmation().View(m.width, m.height)
	}
	switch m.mode {
	case modePicker:
		return panelString(m.picker.View())
	case modeFiles:
		return panelString(m.filesView())
	}
	return panelString(m.formView())
}

func (m Model) formView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Create a Card In Trello"))
	b.WriteString("\n\n")

	if text, isErr := m.ctrl.Banner(); text != "" {
		if isErr {
			b.WriteString(errorBanner.Render(text))
		} else {
			b.WriteString(successBanner.Render(text))
		}
		b.WriteString("\n\n")
	}

	f := m.ctrl.Form()
	m.row(&b, focusEmail, model.FieldUserEmail, m.email.View())
	m.row(&b, focusTitle, model.FieldCardName, m.title.View())

	desc := m.description.View()
	if m.preview && strings.TrimSpace(f.CardDescription) != "" {
		desc = m.md.render(f.CardDescription, m.width-8)
	}
	m.row(&b, focusDescription, model.FieldCardDescription, desc)

	m.row(&b, focusBoard, model.FieldBoardID, selectorView(m.ctrl.Boards(), f.BoardID, "Select a Trello board", false))
	m.row(&b, focusList, model.FieldListID, selectorView(m.ctrl.Lists(), f.ListID, "Select a Trello list", true))
	m.row(&b, focusLabel, model.FieldLabelID, selectorView(m.ctrl.Labels(), f.LabelID, "Select a label", false))
	m.row(&b, focusLoom, model.FieldLoomVideoURL, m.loom.View())

	b.WriteString(m.cursor(focusAttachments) + labelStyle.Render("Attachments") + "\n")
	b.WriteString("  " + mutedStyle.Render("Drag & drop files here, or press enter to select files") + "\n")
	for _, a := range m.ctrl.Attachments() {
		b.WriteString("    " + accentStyle.Render("• "+a.Name) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(m.cursor(focusSubmit) + m.submitButton() + "\n")
	if m.hint != "" {
		b.WriteString("\n" + errorStyle.Render(m.hint) + "\n")
	}
	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

func (m Model) row(b *strings.Builder, f focusField, field model.Field, body string) {
	label := labelStyle.Render(field.Label())
	if field.Required() {
		label += " " + requiredMark
	}
	b.WriteString(m.cursor(f) + label + "\n")
	b.WriteString(indent(body, "  ") + "\n\n")
}

func (m Model) cursor(f focusField) string {
	if m.focus == f && m.mode == modeForm {
		return accentStyle.Render(cursorMark) + " "
	}
	return "  "
}

func (m Model) submitButton() string {
	if m.ctrl.Status().Loading {
		return buttonDisabledStyle.Render(m.spinner.View() + " Submitting...")
	}
	return buttonStyle.Render("Submit")
}

func (m Model) filesView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Add attachment"))
	if len(m.allowedTypes) > 0 {
		b.WriteString("  " + mutedStyle.Render("("+strings.Join(m.allowedTypes, ", ")+")"))
	}
	b.WriteString("\n" + mutedStyle.Render(m.files.CurrentDirectory) + "\n\n")
	b.WriteString(m.files.View())
	if m.hint != "" {
		b.WriteString("\n" + errorStyle.Render(m.hint))
	}
	b.WriteString("\n" + helpStyle.Render("enter select • esc back"))
	return b.String()
}

// selectorView shows the chosen option's name. With firstAsDefault the first
// option is shown while nothing is chosen.
func selectorView(opts []model.Option, value, placeholder string, firstAsDefault bool) string {
	if o, ok := model.FindOption(opts, value); ok {
		return "[ " + o.Label + " ▾ ]"
	}
	if firstAsDefault && value == "" && len(opts) > 0 {
		return "[ " + opts[0].Label + " ▾ ]"
	}
	return mutedStyle.Render("[ " + placeholder + " ▾ ]")
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, ln := range lines {
		lines[i] = prefix + ln
	}
	return strings.Join(lines, "\n")
}
