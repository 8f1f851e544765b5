package template

import (
	"io"
)

// TemplateRenderer renders named templates or inline template strings. The
// rendered markup is returned and, when writers are supplied, copied to each.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(content string, data any, out ...io.Writer) (string, error)
}

// FilterRegistrar is implemented by renderers that accept custom filters.
type FilterRegistrar interface {
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
}

// Safe marks markup that must not be escaped by the renderer.
type Safe string
