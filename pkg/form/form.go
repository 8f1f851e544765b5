package form

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Values holds field values keyed by field name.
type Values map[string]any

// Handler reacts to a form lifecycle event. Returning an error aborts the
// remaining pipeline and surfaces the error to the caller of Fire.
type Handler func(ctx context.Context, form *Form) error

// FormOption customises a form at construction time.
type FormOption func(*Form)

// WithAction sets the form action URL.
func WithAction(action string) FormOption {
	return func(f *Form) {
		f.action = strings.TrimSpace(action)
	}
}

// WithMethod sets the HTTP method. Defaults to POST.
func WithMethod(method string) FormOption {
	return func(f *Form) {
		if m := strings.ToUpper(strings.TrimSpace(method)); m != "" {
			f.method = m
		}
	}
}

// WithRenderer replaces the default WrapperRenderer.
func WithRenderer(renderer Renderer) FormOption {
	return func(f *Form) {
		if renderer != nil {
			f.renderer = renderer
		}
	}
}

// Form is an ordered set of components with lifecycle hooks.
type Form struct {
	OnError    []Handler
	OnValidate []Handler
	OnSubmit   []Handler
	OnSuccess  []Handler

	name       string
	action     string
	method     string
	element    *Element
	renderer   Renderer
	components []Component
	index      map[string]Component
	groups     []*Group
	current    *Group
	errors     []string
	submitted  bool
}

// New constructs an empty form.
func New(name string, options ...FormOption) *Form {
	f := &Form{
		name:     strings.TrimSpace(name),
		method:   "POST",
		element:  NewElement("form"),
		renderer: NewWrapperRenderer(DefaultWrappers()),
		index:    make(map[string]Component),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}
	return f
}

// Name returns the form name.
func (f *Form) Name() string { return f.name }

// Action returns the action URL.
func (f *Form) Action() string { return f.action }

// Method returns the HTTP method.
func (f *Form) Method() string { return f.method }

// Element exposes the <form> element prototype so callers can add classes or
// attributes (for example the "ajax" class).
func (f *Form) Element() *Element { return f.element }

// Renderer returns the renderer used by Render.
func (f *Form) Renderer() Renderer { return f.renderer }

// SetRenderer replaces the renderer.
func (f *Form) SetRenderer(renderer Renderer) {
	if renderer != nil {
		f.renderer = renderer
	}
}

// AddGroup starts a new group; subsequently added fields join it.
func (f *Form) AddGroup(label, description string) *Group {
	g := &Group{Label: label, Description: description}
	f.groups = append(f.groups, g)
	f.current = g
	return g
}

// EndGroup stops assigning new fields to the current group.
func (f *Form) EndGroup() { f.current = nil }

// Groups returns the declared groups.
func (f *Form) Groups() []*Group {
	return append([]*Group(nil), f.groups...)
}

// Add attaches a component. Names must be unique.
func (f *Form) Add(component Component) error {
	if component == nil {
		return fmt.Errorf("form: component is required")
	}
	name := strings.TrimSpace(component.ComponentName())
	if name == "" {
		return fmt.Errorf("form: component name is required")
	}
	if _, exists := f.index[name]; exists {
		return fmt.Errorf("form: component %q already exists", name)
	}
	if field, ok := component.(*Field); ok {
		if field.Type == "" {
			field.Type = FieldText
		}
		if f.current != nil && field.Type != FieldHidden {
			field.group = f.current
			f.current.fields = append(f.current.fields, field)
		}
	}
	f.components = append(f.components, component)
	f.index[name] = component
	return nil
}

// AddField attaches a field and returns it for chaining.
func (f *Form) AddField(field *Field) (*Field, error) {
	if err := f.Add(field); err != nil {
		return nil, err
	}
	return field, nil
}

// AddText is a shorthand for a text input.
func (f *Form) AddText(name, label string) (*Field, error) {
	return f.AddField(&Field{Name: name, Label: label, Type: FieldText})
}

// AddSubmit is a shorthand for a submit button.
func (f *Form) AddSubmit(name, caption string) (*Field, error) {
	return f.AddField(&Field{Name: name, Label: caption, Type: FieldSubmit})
}

// AddHidden is a shorthand for a hidden input.
func (f *Form) AddHidden(name string, value any) (*Field, error) {
	field := &Field{Name: name, Type: FieldHidden}
	field.SetValue(value)
	return f.AddField(field)
}

// AddMarkup attaches a raw HTML block.
func (f *Form) AddMarkup(name, markup string) error {
	return f.Add(&Markup{Name: name, HTML: markup})
}

// Component looks up a component by name.
func (f *Form) Component(name string) (Component, bool) {
	c, ok := f.index[strings.TrimSpace(name)]
	return c, ok
}

// Field looks up a field control by name. Non-field components report false.
func (f *Form) Field(name string) (*Field, bool) {
	c, ok := f.Component(name)
	if !ok {
		return nil, false
	}
	field, ok := c.(*Field)
	return field, ok
}

// Components returns every attached component in insertion order.
func (f *Form) Components() []Component {
	return append([]Component(nil), f.components...)
}

// Fields returns the field controls in insertion order.
func (f *Form) Fields() []*Field {
	out := make([]*Field, 0, len(f.components))
	for _, c := range f.components {
		if field, ok := c.(*Field); ok {
			out = append(out, field)
		}
	}
	return out
}

// IsSubmitted reports whether Fire has run since the last Reset.
func (f *Form) IsSubmitted() bool { return f.submitted }

// SetDefaults assigns values to matching fields. Defaults never overwrite
// submitted data.
func (f *Form) SetDefaults(values Values) {
	if f.submitted {
		return
	}
	f.SetValues(values)
}

// SetValues assigns values to matching fields unconditionally. Unknown keys are
// ignored.
func (f *Form) SetValues(values Values) {
	for name, value := range values {
		if field, ok := f.Field(name); ok && field.Type != FieldSubmit {
			field.SetValue(value)
		}
	}
}

// Values returns the current field values, skipping submit buttons.
func (f *Form) Values() Values {
	out := make(Values)
	for _, field := range f.Fields() {
		if field.Type == FieldSubmit {
			continue
		}
		if field.Type == FieldCheckbox {
			out[field.Name] = field.Checked()
			continue
		}
		out[field.Name] = field.Value()
	}
	return out
}

// Reset clears values, errors and the submitted flag.
func (f *Form) Reset() {
	for _, field := range f.Fields() {
		if field.Type == FieldSubmit {
			continue
		}
		field.SetValue(nil)
		field.clearErrors()
	}
	f.errors = nil
	f.submitted = false
}

// AddError records a form level error.
func (f *Form) AddError(message string) {
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

// OwnErrors returns the form level errors only.
func (f *Form) OwnErrors() []string {
	return append([]string(nil), f.errors...)
}

// Errors returns form level errors followed by every field error.
func (f *Form) Errors() []string {
	out := f.OwnErrors()
	for _, field := range f.Fields() {
		out = append(out, field.errors...)
	}
	return out
}

// HasErrors reports whether the form or any field carries an error.
func (f *Form) HasErrors() bool {
	if len(f.errors) > 0 {
		return true
	}
	for _, field := range f.Fields() {
		if field.HasErrors() {
			return true
		}
	}
	return false
}

// IsValid is the inverse of HasErrors.
func (f *Form) IsValid() bool { return !f.HasErrors() }

// Fire processes a submission: values are assigned, field rules and
// OnValidate run, then OnSuccess (valid) or OnError (invalid), and finally
// OnSubmit. A success handler that adds errors diverts the remaining flow to
// OnError.
func (f *Form) Fire(ctx context.Context, submitted Values) error {
	f.submitted = true
	f.errors = nil
	for _, field := range f.Fields() {
		field.clearErrors()
		if field.Type == FieldSubmit {
			continue
		}
		value, ok := submitted[field.Name]
		switch {
		case ok:
			field.SetValue(value)
		case field.Type == FieldCheckbox:
			field.SetValue(false)
		default:
			field.SetValue(nil)
		}
	}

	for _, field := range f.Fields() {
		field.validate()
	}
	if err := runHandlers(ctx, f, f.OnValidate, false); err != nil {
		return err
	}

	if f.IsValid() {
		if err := runHandlers(ctx, f, f.OnSuccess, true); err != nil {
			return err
		}
	}
	if !f.IsValid() {
		if err := runHandlers(ctx, f, f.OnError, false); err != nil {
			return err
		}
	}
	return runHandlers(ctx, f, f.OnSubmit, false)
}

func runHandlers(ctx context.Context, f *Form, handlers []Handler, stopOnInvalid bool) error {
	for _, handler := range handlers {
		if handler == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := handler(ctx, f); err != nil {
			return err
		}
		if stopOnInvalid && !f.IsValid() {
			return nil
		}
	}
	return nil
}

// Render writes the form using its renderer.
func (f *Form) Render(w io.Writer) error {
	if f.renderer == nil {
		return fmt.Errorf("form: renderer is nil")
	}
	return f.renderer.Render(w, f)
}

// HTML renders the form into a string.
func (f *Form) HTML() (string, error) {
	var b strings.Builder
	if err := f.Render(&b); err != nil {
		return "", err
	}
	return b.String(), nil
}
