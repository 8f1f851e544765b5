package form

import (
	"html"
	"regexp"
	"strings"
)

var attrPattern = regexp.MustCompile(`([A-Za-z_:][-A-Za-z0-9_:.]*)\s*=\s*"([^"]*)"`)

// Element is a lightweight HTML element prototype. Attribute order is kept so
// rendered markup is deterministic.
type Element struct {
	tag     string
	keys    []string
	attrs   map[string]string
	classes []string
}

// NewElement creates an element for the given tag name.
func NewElement(tag string) *Element {
	return &Element{
		tag:   strings.TrimSpace(tag),
		attrs: make(map[string]string),
	}
}

// ParseElement builds an element from a wrapper hint such as
// `div class="row mb-3"`. Empty hints return nil.
func ParseElement(spec string) *Element {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil
	}
	tag, rest, _ := strings.Cut(spec, " ")
	el := NewElement(tag)
	for _, match := range attrPattern.FindAllStringSubmatch(rest, -1) {
		if match[1] == "class" {
			el.AddClass(strings.Fields(match[2])...)
			continue
		}
		el.SetAttr(match[1], match[2])
	}
	return el
}

// Tag returns the element name.
func (e *Element) Tag() string {
	if e == nil {
		return ""
	}
	return e.tag
}

// SetAttr sets an attribute value, keeping first-set order.
func (e *Element) SetAttr(name, value string) *Element {
	name = strings.TrimSpace(name)
	if name == "" {
		return e
	}
	if name == "class" {
		e.classes = nil
		return e.AddClass(strings.Fields(value)...)
	}
	if _, exists := e.attrs[name]; !exists {
		e.keys = append(e.keys, name)
	}
	e.attrs[name] = value
	return e
}

// Attr returns an attribute value.
func (e *Element) Attr(name string) (string, bool) {
	if e == nil {
		return "", false
	}
	if name == "class" {
		return strings.Join(e.classes, " "), len(e.classes) > 0
	}
	value, ok := e.attrs[name]
	return value, ok
}

// AddClass appends class names, skipping blanks and duplicates.
func (e *Element) AddClass(names ...string) *Element {
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || e.HasClass(name) {
			continue
		}
		e.classes = append(e.classes, name)
	}
	return e
}

// HasClass reports whether the class list contains name.
func (e *Element) HasClass(name string) bool {
	if e == nil {
		return false
	}
	for _, existing := range e.classes {
		if existing == name {
			return true
		}
	}
	return false
}

// Classes returns a copy of the class list.
func (e *Element) Classes() []string {
	if e == nil {
		return nil
	}
	return append([]string(nil), e.classes...)
}

// Clone returns an independent copy of the element.
func (e *Element) Clone() *Element {
	if e == nil {
		return nil
	}
	out := NewElement(e.tag)
	for _, key := range e.keys {
		out.SetAttr(key, e.attrs[key])
	}
	out.AddClass(e.classes...)
	return out
}

// StartTag renders the opening tag. Class comes first, then attributes in the
// order they were set.
func (e *Element) StartTag() string {
	if e == nil || e.tag == "" {
		return ""
	}
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(e.tag)
	if len(e.classes) > 0 {
		b.WriteString(` class="`)
		b.WriteString(html.EscapeString(strings.Join(e.classes, " ")))
		b.WriteByte('"')
	}
	for _, key := range e.keys {
		b.WriteByte(' ')
		b.WriteString(key)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(e.attrs[key]))
		b.WriteByte('"')
	}
	b.WriteByte('>')
	return b.String()
}

// EndTag renders the closing tag.
func (e *Element) EndTag() string {
	if e == nil || e.tag == "" {
		return ""
	}
	return "</" + e.tag + ">"
}

// Wrap surrounds content with the element's tags. A nil element returns the
// content unchanged.
func (e *Element) Wrap(content string) string {
	if e == nil || e.tag == "" {
		return content
	}
	return e.StartTag() + content + e.EndTag()
}
