package model

import "path/filepath"

// Board is a Trello board visible to the configured account.
type Board struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// List is an ordered column on a board.
type List struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Label is a board-scoped tag.
type Label struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Option is what a selector shows: the id as value, the name as label.
type Option struct {
	Value string
	Label string
}

// Named is anything with an id and a display name.
type Named interface {
	Board | List | Label
}

// OptionsOf projects reference records into selector options, keeping order.
func OptionsOf[T Named](items []T) []Option {
	out := make([]Option, 0, len(items))
	for _, it := range items {
		switch v := any(it).(type) {
		case Board:
			out = append(out, Option{Value: v.ID, Label: v.Name})
		case List:
			out = append(out, Option{Value: v.ID, Label: v.Name})
		case Label:
			out = append(out, Option{Value: v.ID, Label: v.Name})
		}
	}
	return out
}

// FindOption returns the option with the given value.
func FindOption(opts []Option, value string) (Option, bool) {
	for _, o := range opts {
		if o.Value == value {
			return o, true
		}
	}
	return Option{}, false
}

// Attachment is a local file bundled into the card request.
type Attachment struct {
	Path string
	Name string
}

// NewAttachment builds an attachment whose name is the file's base name.
func NewAttachment(path string) Attachment {
	return Attachment{Path: path, Name: filepath.Base(path)}
}

// Status holds the transient UI flags of the form.
type Status struct {
	Loading      bool
	Err          string
	Notification string
	ModalVisible bool
}
