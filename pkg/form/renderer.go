package form

import (
	"fmt"
	"html"
	"io"
	"sort"
	"strings"

	"github.com/goliatone/go-formcontrol/pkg/render/template"
)

// ShellTemplate is the template name WrapperRenderer uses for the form shell
// once an engine is attached with SetShell.
const ShellTemplate = "form_shell.tpl"

// Renderer writes a form as markup.
type Renderer interface {
	Render(w io.Writer, form *Form) error
}

// WrapperAware is implemented by renderers whose layout is driven by wrapper
// hints. The control only styles renderers that implement it.
type WrapperAware interface {
	Wrappers() Wrappers
	SetWrappers(Wrappers)
}

// ShellAware is implemented by renderers that can hand the outer form markup
// to a template engine while still building the field pairs themselves.
type ShellAware interface {
	SetShell(engine template.TemplateRenderer, name string)
}

// WrapperRenderer lays a form out using Wrappers. Without a shell engine the
// whole form is assembled in Go.
type WrapperRenderer struct {
	wrappers  Wrappers
	shell     template.TemplateRenderer
	shellName string
}

var (
	_ WrapperAware = (*WrapperRenderer)(nil)
	_ ShellAware   = (*WrapperRenderer)(nil)
)

// NewWrapperRenderer creates a renderer using the supplied wrappers (defaults
// when nil).
func NewWrapperRenderer(wrappers Wrappers) *WrapperRenderer {
	if wrappers == nil {
		wrappers = DefaultWrappers()
	}
	return &WrapperRenderer{wrappers: wrappers}
}

// Wrappers returns the active wrapper map.
func (r *WrapperRenderer) Wrappers() Wrappers { return r.wrappers }

// SetWrappers replaces the wrapper map.
func (r *WrapperRenderer) SetWrappers(w Wrappers) { r.wrappers = w }

// SetShell renders the form shell through engine using the named template
// (ShellTemplate when empty). A nil engine restores the built-in layout.
func (r *WrapperRenderer) SetShell(engine template.TemplateRenderer, name string) {
	r.shell = engine
	r.shellName = strings.TrimSpace(name)
	if r.shellName == "" {
		r.shellName = ShellTemplate
	}
}

// Render implements Renderer.
func (r *WrapperRenderer) Render(w io.Writer, f *Form) error {
	if f == nil {
		return fmt.Errorf("form renderer: form is nil")
	}
	if r.shell != nil {
		if _, err := r.shell.RenderTemplate(r.shellName, r.shellContext(f), w); err != nil {
			return fmt.Errorf("form renderer: shell %q: %w", r.shellName, err)
		}
		return nil
	}

	body := r.layout(f)
	var b strings.Builder
	b.WriteString(r.begin(f))
	b.WriteString(r.renderErrors(f.OwnErrors()))
	b.WriteString(body.container.StartTag())
	for _, g := range body.groups {
		b.WriteString(g.html)
	}
	b.WriteString(body.controls)
	b.WriteString(body.hidden)
	b.WriteString(body.container.EndTag())
	b.WriteString(f.element.EndTag())
	_, err := io.WriteString(w, b.String())
	return err
}

// shellContext exposes the pre-rendered pieces. Top-level markup is
// template.Safe; nested group markup is a plain string for the "safe" filter.
func (r *WrapperRenderer) shellContext(f *Form) map[string]any {
	body := r.layout(f)
	groups := make([]map[string]any, 0, len(body.groups))
	for _, g := range body.groups {
		groups = append(groups, map[string]any{
			"label":       g.label,
			"description": g.description,
			"html":        g.html,
		})
	}
	return map[string]any{
		"name":        f.name,
		"action":      f.action,
		"method":      strings.ToLower(f.method),
		"form_start":  template.Safe(r.begin(f)),
		"form_end":    template.Safe(f.element.EndTag()),
		"errors":      template.Safe(r.renderErrors(f.OwnErrors())),
		"error_list":  f.OwnErrors(),
		"body_start":  template.Safe(body.container.StartTag()),
		"body_end":    template.Safe(body.container.EndTag()),
		"groups":      groups,
		"controls":    template.Safe(body.controls),
		"hidden":      template.Safe(body.hidden),
		"has_errors":  f.HasErrors(),
		"field_count": len(f.Fields()),
	}
}

func (r *WrapperRenderer) el(section, key string) *Element {
	return ParseElement(r.wrappers.Get(section, key))
}

func (r *WrapperRenderer) begin(f *Form) string {
	el := f.element.Clone()
	if f.action != "" {
		el.SetAttr("action", f.action)
	}
	el.SetAttr("method", strings.ToLower(f.method))
	if f.name != "" {
		el.SetAttr("id", "frm-"+f.name)
	}
	return el.StartTag()
}

func (r *WrapperRenderer) renderErrors(errors []string) string {
	if len(errors) == 0 {
		return ""
	}
	var b strings.Builder
	item := r.el(SectionError, "item")
	for _, message := range errors {
		b.WriteString(wrapOrDefault(item, "div", html.EscapeString(message)))
	}
	return r.el(SectionError, "container").Wrap(b.String())
}

type groupLayout struct {
	label       string
	description string
	html        string
}

type bodyLayout struct {
	container *Element
	groups    []groupLayout
	controls  string
	hidden    string
}

// layout renders groups, ungrouped components and hidden inputs. Groups come
// first, in declaration order.
func (r *WrapperRenderer) layout(f *Form) bodyLayout {
	body := bodyLayout{container: r.el(SectionForm, "container")}

	for _, g := range f.groups {
		if len(g.fields) == 0 {
			continue
		}
		var gb strings.Builder
		if g.Label != "" {
			gb.WriteString(wrapOrDefault(r.el(SectionGroup, "label"), "legend", html.EscapeString(g.Label)))
		}
		if g.Description != "" {
			gb.WriteString(wrapOrDefault(r.el(SectionGroup, "description"), "p", html.EscapeString(g.Description)))
		}
		gb.WriteString(r.renderControls(g.fields))
		body.groups = append(body.groups, groupLayout{
			label:       g.Label,
			description: g.Description,
			html:        r.el(SectionGroup, "container").Wrap(gb.String()),
		})
	}

	var remaining []Component
	var hidden []*Field
	for _, c := range f.components {
		field, ok := c.(*Field)
		if !ok {
			remaining = append(remaining, c)
			continue
		}
		if field.Type == FieldHidden {
			hidden = append(hidden, field)
			continue
		}
		if field.group == nil {
			remaining = append(remaining, c)
		}
	}
	body.controls = r.renderComponents(remaining)

	if len(hidden) > 0 {
		var hb strings.Builder
		for _, field := range hidden {
			hb.WriteString(renderInput(field))
		}
		body.hidden = r.el(SectionHidden, "container").Wrap(hb.String())
	}
	return body
}

func (r *WrapperRenderer) renderControls(fields []*Field) string {
	components := make([]Component, 0, len(fields))
	for _, field := range fields {
		components = append(components, field)
	}
	return r.renderComponents(components)
}

func (r *WrapperRenderer) renderComponents(components []Component) string {
	if len(components) == 0 {
		return ""
	}
	var b strings.Builder
	odd := false
	for _, c := range components {
		switch v := c.(type) {
		case *Field:
			odd = !odd
			b.WriteString(r.renderPair(v, odd))
		case *Markup:
			b.WriteString(v.HTML)
		}
	}
	return r.el(SectionControls, "container").Wrap(b.String())
}

func (r *WrapperRenderer) renderPair(field *Field, odd bool) string {
	pair := r.el(SectionPair, "container")
	if pair != nil {
		if field.Required {
			pair.AddClass(r.wrappers.Get(SectionPair, ".required"))
		} else {
			pair.AddClass(r.wrappers.Get(SectionPair, ".optional"))
		}
		if odd {
			pair.AddClass(r.wrappers.Get(SectionPair, ".odd"))
		}
		if field.HasErrors() {
			pair.AddClass(r.wrappers.Get(SectionPair, ".error"))
		}
	}
	return pair.Wrap(r.renderLabel(field) + r.renderControl(field, odd))
}

func (r *WrapperRenderer) renderLabel(field *Field) string {
	container := r.el(SectionLabel, "container")
	if field.Type == FieldSubmit || field.Type == FieldCheckbox || field.Label == "" {
		return container.Wrap("")
	}
	text := html.EscapeString(field.Label)
	if field.Required {
		text += r.wrappers.Get(SectionLabel, "requiredsuffix")
	}
	text += r.wrappers.Get(SectionLabel, "suffix")
	label := NewElement("label").SetAttr("for", controlID(field))
	return container.Wrap(label.Wrap(text))
}

func (r *WrapperRenderer) renderControl(field *Field, odd bool) string {
	container := r.el(SectionControl, "container")
	if container != nil {
		if field.Required {
			container.AddClass(r.wrappers.Get(SectionControl, ".required"))
		}
		if odd {
			container.AddClass(r.wrappers.Get(SectionControl, ".odd"))
		}
		container.AddClass(r.wrappers.Get(SectionControl, "."+string(field.Type)))
	}

	var b strings.Builder
	b.WriteString(renderInput(field))
	if field.Required {
		b.WriteString(r.wrappers.Get(SectionControl, "requiredsuffix"))
	}
	if field.Description != "" {
		b.WriteString(wrapOrDefault(r.el(SectionControl, "description"), "small", html.EscapeString(field.Description)))
	}
	if field.HasErrors() {
		var eb strings.Builder
		item := r.el(SectionControl, "erroritem")
		for _, message := range field.errors {
			eb.WriteString(item.Wrap(html.EscapeString(message)))
		}
		b.WriteString(wrapOrDefault(r.el(SectionControl, "errorcontainer"), "span", eb.String()))
	}
	return container.Wrap(b.String())
}

func wrapOrDefault(el *Element, fallback, content string) string {
	if el == nil {
		el = NewElement(fallback)
	}
	return el.Wrap(content)
}

func controlID(field *Field) string {
	return "frm-" + field.Name
}

func renderInput(field *Field) string {
	switch field.Type {
	case FieldTextArea:
		el := baseInput(NewElement("textarea"), field, "form-control")
		return el.Wrap(html.EscapeString(field.StringValue()))
	case FieldSelect:
		el := baseInput(NewElement("select"), field, "form-control")
		var b strings.Builder
		if field.Placeholder != "" {
			b.WriteString(`<option value="">` + html.EscapeString(field.Placeholder) + `</option>`)
		}
		current := field.StringValue()
		for _, opt := range field.Options {
			option := NewElement("option").SetAttr("value", opt.Value)
			if opt.Value == current {
				option.SetAttr("selected", "selected")
			}
			b.WriteString(option.Wrap(html.EscapeString(opt.Label)))
		}
		return el.Wrap(b.String())
	case FieldCheckbox:
		el := baseInput(NewElement("input"), field, "form-check-input")
		el.SetAttr("type", "checkbox").SetAttr("value", "1")
		if field.Checked() {
			el.SetAttr("checked", "checked")
		}
		label := NewElement("label").SetAttr("for", controlID(field)).AddClass("form-check-label")
		return NewElement("div").AddClass("form-check").Wrap(el.StartTag() + label.Wrap(html.EscapeString(field.Label)))
	case FieldSubmit:
		el := NewElement("input").AddClass("btn", "btn-primary")
		el.SetAttr("type", "submit").SetAttr("name", field.Name).SetAttr("value", field.Label)
		applyAttributes(el, field)
		return el.StartTag()
	case FieldHidden:
		el := NewElement("input").SetAttr("type", "hidden").SetAttr("name", field.Name)
		el.SetAttr("value", field.StringValue())
		return el.StartTag()
	default:
		el := baseInput(NewElement("input"), field, "form-control")
		el.SetAttr("type", string(field.Type))
		if field.Type != FieldPassword {
			if value := field.StringValue(); value != "" {
				el.SetAttr("value", value)
			}
		}
		if field.Placeholder != "" {
			el.SetAttr("placeholder", field.Placeholder)
		}
		return el.StartTag()
	}
}

func baseInput(el *Element, field *Field, class string) *Element {
	el.AddClass(class)
	if field.HasErrors() {
		el.AddClass("is-invalid")
	}
	el.SetAttr("name", field.Name).SetAttr("id", controlID(field))
	if field.Required {
		el.SetAttr("required", "required")
	}
	applyAttributes(el, field)
	return el
}

func applyAttributes(el *Element, field *Field) {
	if len(field.Attributes) == 0 {
		return
	}
	keys := make([]string, 0, len(field.Attributes))
	for key := range field.Attributes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if key == "class" {
			el.AddClass(strings.Fields(field.Attributes[key])...)
			continue
		}
		el.SetAttr(key, field.Attributes[key])
	}
}
