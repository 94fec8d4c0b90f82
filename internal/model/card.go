package model

import (
	"errors"
	"strings"
)

// Field names one input of the card form.
type Field int

const (
	FieldUserEmail Field = iota
	FieldCardName
	FieldCardDescription
	FieldBoardID
	FieldListID
	FieldLabelID
	FieldLoomVideoURL
)

// AllFields lists the form fields in the order they are sent to the backend.
var AllFields = []Field{
	FieldUserEmail,
	FieldCardName,
	FieldCardDescription,
	FieldBoardID,
	FieldListID,
	FieldLabelID,
	FieldLoomVideoURL,
}

// WireName is the multipart field name the backend expects.
func (f Field) WireName() string {
	switch f {
	case FieldUserEmail:
		return "userEmail"
	case FieldCardName:
		return "cardName"
	case FieldCardDescription:
		return "cardDescription"
	case FieldBoardID:
		return "boardId"
	case FieldListID:
		return "listId"
	case FieldLabelID:
		return "labelId"
	case FieldLoomVideoURL:
		return "loomVideoUrl"
	}
	return ""
}

// Label is the human-facing name of the field.
func (f Field) Label() string {
	switch f {
	case FieldUserEmail:
		return "Email"
	case FieldCardName:
		return "Card Title"
	case FieldCardDescription:
		return "Card Description"
	case FieldBoardID:
		return "Board"
	case FieldListID:
		return "List"
	case FieldLabelID:
		return "Label"
	case FieldLoomVideoURL:
		return "Loom Video URL"
	}
	return ""
}

// Required reports whether the field must be filled before submitting.
func (f Field) Required() bool {
	switch f {
	case FieldCardName, FieldCardDescription, FieldBoardID, FieldLabelID:
		return true
	}
	return false
}

// CardForm is the state of the card creation form.
type CardForm struct {
	UserEmail       string `json:"userEmail" yaml:"userEmail"`
	CardName        string `json:"cardName" yaml:"cardName"`
	CardDescription string `json:"cardDescription" yaml:"cardDescription"`
	BoardID         string `json:"boardId" yaml:"boardId"`
	ListID          string `json:"listId" yaml:"listId"`
	LabelID         string `json:"labelId" yaml:"labelId"`
	LoomVideoURL    string `json:"loomVideoUrl" yaml:"loomVideoUrl"`
}

// Get returns the value of one field.
func (c CardForm) Get(f Field) string {
	switch f {
	case FieldUserEmail:
		return c.UserEmail
	case FieldCardName:
		return c.CardName
	case FieldCardDescription:
		return c.CardDescription
	case FieldBoardID:
		return c.BoardID
	case FieldListID:
		return c.ListID
	case FieldLabelID:
		return c.LabelID
	case FieldLoomVideoURL:
		return c.LoomVideoURL
	}
	return ""
}

// Set assigns the value of one field.
func (c *CardForm) Set(f Field, value string) {
	switch f {
	case FieldUserEmail:
		c.UserEmail = value
	case FieldCardName:
		c.CardName = value
	case FieldCardDescription:
		c.CardDescription = value
	case FieldBoardID:
		c.BoardID = value
	case FieldListID:
		c.ListID = value
	case FieldLabelID:
		c.LabelID = value
	case FieldLoomVideoURL:
		c.LoomVideoURL = value
	}
}

// Reset empties every field.
func (c *CardForm) Reset() { *c = CardForm{} }

// IsZero reports whether every field is empty.
func (c CardForm) IsZero() bool { return c == CardForm{} }

// FieldValue is one (wire name, value) pair of the submitted form.
type FieldValue struct {
	Name  string
	Value string
}

// Fields returns every field in wire order, empty ones included.
func (c CardForm) Fields() []FieldValue {
	out := make([]FieldValue, 0, len(AllFields))
	for _, f := range AllFields {
		out = append(out, FieldValue{Name: f.WireName(), Value: c.Get(f)})
	}
	return out
}

// FieldError reports a required field left empty.
type FieldError struct {
	Field Field
}

func (e *FieldError) Error() string {
	return e.Field.Label() + " is required"
}

// Validate checks the required fields. All missing fields are reported.
func (c CardForm) Validate() error {
	var errs []error
	for _, f := range AllFields {
		if f.Required() && strings.TrimSpace(c.Get(f)) == "" {
			errs = append(errs, &FieldError{Field: f})
		}
	}
	return errors.Join(errs...)
}
