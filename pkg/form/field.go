package form

import (
	"fmt"
	"net/mail"
	"strconv"
	"strings"
)

// FieldType enumerates the input kinds the renderer understands.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldTextArea FieldType = "textarea"
	FieldEmail    FieldType = "email"
	FieldNumber   FieldType = "number"
	FieldPassword FieldType = "password"
	FieldCheckbox FieldType = "checkbox"
	FieldSelect   FieldType = "select"
	FieldHidden   FieldType = "hidden"
	FieldSubmit   FieldType = "submit"
)

// Component is anything attached to a form under a name. Only *Field values
// are field controls; markup blocks and other components are not.
type Component interface {
	ComponentName() string
}

// Option is a select choice.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Field is a single form control.
type Field struct {
	Name        string
	Label       string
	Type        FieldType
	Description string
	Placeholder string
	Required    bool
	// RequiredMessage overrides the default "This field is required." error.
	RequiredMessage string
	Options         []Option
	Attributes      map[string]string

	value  any
	errors []string
	group  *Group
}

// ComponentName implements Component.
func (f *Field) ComponentName() string { return f.Name }

// Value returns the current value (default or submitted).
func (f *Field) Value() any { return f.value }

// SetValue replaces the current value.
func (f *Field) SetValue(value any) { f.value = value }

// StringValue renders the value as text; nil becomes "".
func (f *Field) StringValue() string {
	switch v := f.value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []string:
		if len(v) == 0 {
			return ""
		}
		return v[0]
	default:
		return fmt.Sprint(v)
	}
}

// Checked interprets the value as a checkbox state.
func (f *Field) Checked() bool {
	switch v := f.value.(type) {
	case bool:
		return v
	case nil:
		return false
	default:
		s := strings.ToLower(strings.TrimSpace(f.StringValue()))
		return s != "" && s != "0" && s != "false" && s != "off"
	}
}

// AddError attaches a validation message to the field.
func (f *Field) AddError(message string) {
	message = strings.TrimSpace(message)
	if message == "" {
		return
	}
	for _, existing := range f.errors {
		if existing == message {
			return
		}
	}
	f.errors = append(f.errors, message)
}

// Errors returns the field's validation messages.
func (f *Field) Errors() []string {
	return append([]string(nil), f.errors...)
}

// HasErrors reports whether any message is attached.
func (f *Field) HasErrors() bool { return len(f.errors) > 0 }

// Group returns the group the field was added under, if any.
func (f *Field) Group() *Group { return f.group }

func (f *Field) clearErrors() { f.errors = nil }

func (f *Field) isEmpty() bool {
	if f.Type == FieldCheckbox {
		return !f.Checked()
	}
	return strings.TrimSpace(f.StringValue()) == ""
}

func (f *Field) validate() {
	if f.Type == FieldSubmit {
		return
	}
	if f.isEmpty() {
		if f.Required {
			msg := f.RequiredMessage
			if msg == "" {
				msg = "This field is required."
			}
			f.AddError(msg)
		}
		return
	}

	raw := strings.TrimSpace(f.StringValue())
	switch f.Type {
	case FieldEmail:
		if _, err := mail.ParseAddress(raw); err != nil {
			f.AddError("Please enter a valid email address.")
		}
	case FieldNumber:
		if _, err := strconv.ParseFloat(raw, 64); err != nil {
			f.AddError("Please enter a valid number.")
		}
	case FieldSelect:
		if len(f.Options) > 0 && !f.hasOption(raw) {
			f.AddError("Please select a valid option.")
		}
	}
}

func (f *Field) hasOption(value string) bool {
	for _, opt := range f.Options {
		if opt.Value == value {
			return true
		}
	}
	return false
}

// Group clusters fields under a label and description.
type Group struct {
	Label       string
	Description string
	fields      []*Field
}

// Fields returns the fields added to the group in order.
func (g *Group) Fields() []*Field {
	return append([]*Field(nil), g.fields...)
}

// Markup is a raw HTML block placed between fields. It is a component but not
// a field control.
type Markup struct {
	Name string
	HTML string
}

// ComponentName implements Component.
func (m *Markup) ComponentName() string { return m.Name }
