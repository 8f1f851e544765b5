// Package builder populates forms from declarative sources. A control hands
// its builder a Source describing the owning object, the translator and any
// option loaders; the builder adds the matching field controls to the form.
package builder

import (
	"context"

	"github.com/goliatone/go-formcontrol/pkg/form"
	"github.com/goliatone/go-formcontrol/pkg/i18n"
)

// OptionsLoader returns the choices for a select field.
type OptionsLoader func(ctx context.Context) ([]form.Option, error)

// Source is everything a builder may read while populating a form.
type Source struct {
	// Object carries the declarative field metadata (struct tags for
	// StructBuilder).
	Object     any
	Translator i18n.Translator
	Locale     string
	// Options maps a field name to the loader providing its choices.
	Options map[string]OptionsLoader
}

// Builder populates a form.
type Builder interface {
	Build(ctx context.Context, f *form.Form, src Source) error
}

// Func adapts a function into a Builder.
type Func func(ctx context.Context, f *form.Form, src Source) error

// Build calls the underlying function.
func (fn Func) Build(ctx context.Context, f *form.Form, src Source) error {
	return fn(ctx, f, src)
}

func (s Source) translate(key string) string {
	return i18n.Translate(s.Translator, s.Locale, key)
}

func (s Source) loadOptions(ctx context.Context, name string) ([]form.Option, bool, error) {
	loader, ok := s.Options[name]
	if !ok || loader == nil {
		return nil, false, nil
	}
	opts, err := loader(ctx)
	if err != nil {
		return nil, true, err
	}
	return opts, true, nil
}

func (s Source) translateOptions(opts []form.Option) []form.Option {
	if len(opts) == 0 {
		return nil
	}
	out := make([]form.Option, 0, len(opts))
	for _, opt := range opts {
		out = append(out, form.Option{Value: opt.Value, Label: s.translate(opt.Label)})
	}
	return out
}
