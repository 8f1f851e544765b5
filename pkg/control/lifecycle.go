package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/goliatone/go-formcontrol/pkg/builder"
	"github.com/goliatone/go-formcontrol/pkg/config"
	"github.com/goliatone/go-formcontrol/pkg/form"
)

// Form returns the wrapped form, creating it on first use.
func (c *FormControl) Form(ctx context.Context) (*form.Form, error) {
	if c.form != nil {
		return c.form, nil
	}
	f, err := c.CreateForm(ctx)
	if err != nil {
		return nil, err
	}
	c.form = f
	return f, nil
}

// CreateForm builds a new form: the configured ajax flag is applied, the
// factory creates the form, wrappers and the ajax class are applied, the
// builder populates it and the four event categories are wired.
func (c *FormControl) CreateForm(ctx context.Context) (*form.Form, error) {
	if c.config.Ajax != nil {
		c.SetAjax(*c.config.Ajax)
	}

	if c.formFactory == nil {
		return nil, errors.New("control: form factory is nil")
	}
	f, err := c.formFactory.Create(ctx)
	if err != nil {
		return nil, fmt.Errorf("control: create form: %w", err)
	}
	if f == nil {
		return nil, errors.New("control: form factory returned nil form")
	}

	if aware, ok := f.Renderer().(form.WrapperAware); ok {
		aware.SetWrappers(c.RendererWrappers().Clone())
	}
	if aware, ok := f.Renderer().(form.ShellAware); ok && c.shellPath != "" {
		engine, err := c.TemplateRenderer()
		if err != nil {
			return nil, fmt.Errorf("control: template renderer: %w", err)
		}
		aware.SetShell(engine, c.shellPath)
	}
	if c.Ajax() {
		f.Element().AddClass("ajax")
	}

	f, err = c.SetupForm(ctx, f)
	if err != nil {
		return nil, err
	}
	c.setupEvents(f)

	c.logger.Debug("form created",
		slog.String("control", c.name),
		slog.Int("components", len(f.Components())),
		slog.Bool("ajax", c.Ajax()),
	)
	return f, nil
}

// SetupForm populates f with the registered builder. Without one, a
// StructBuilder is created unless the builder is disabled, in which case f is
// returned untouched.
func (c *FormControl) SetupForm(ctx context.Context, f *form.Form) (*form.Form, error) {
	b := c.builder
	if b == nil {
		if !c.BuilderEnabled() {
			return f, nil
		}
		b = builder.NewStructBuilder(builder.WithSpecCache(c.cache))
		c.builder = b
	}

	src := builder.Source{
		Object:     c.object,
		Translator: c.translator,
		Locale:     c.locale,
		Options:    c.optionSources(),
	}
	if err := b.Build(ctx, f, src); err != nil {
		return nil, fmt.Errorf("control: build form: %w", err)
	}
	return f, nil
}

func (c *FormControl) optionSources() map[string]builder.OptionsLoader {
	if len(c.optionsLoaders) == 0 {
		return nil
	}
	out := make(map[string]builder.OptionsLoader, len(c.optionsLoaders))
	for column := range c.optionsLoaders {
		column := column
		out[column] = func(ctx context.Context) ([]form.Option, error) {
			return c.LoadOptions(ctx, column)
		}
	}
	return out
}

func (c *FormControl) setupEvents(f *form.Form) {
	f.OnError = c.bindEvent(config.KeyOnError, f.OnError, c.OnError)
	f.OnValidate = c.bindEvent(config.KeyOnValidate, f.OnValidate, c.OnValidate)
	f.OnSubmit = c.bindEvent(config.KeyOnSubmit, f.OnSubmit, c.OnSubmit)
	f.OnSuccess = c.bindEvent(config.KeyOnSuccess, f.OnSuccess, c.OnSuccess)
}

// bindEvent routes one category: a configured event name appends a single
// dispatching handler, otherwise a non-empty local list replaces the form's
// handlers.
func (c *FormControl) bindEvent(key string, current, local []form.Handler) []form.Handler {
	if event := c.config.Event(key); event != "" {
		return append(current, c.dispatchHandler(event))
	}
	if len(local) > 0 {
		return append([]form.Handler(nil), local...)
	}
	return current
}

func (c *FormControl) dispatchHandler(event string) form.Handler {
	return func(ctx context.Context, f *form.Form) error {
		if c.dispatcher == nil {
			return fmt.Errorf("control: event %q configured without dispatcher", event)
		}
		data := c.eventData.Create(f, c, event)
		if err := c.dispatcher.Dispatch(ctx, event, data); err != nil {
			c.logger.Warn("form event failed",
				slog.String("control", c.name),
				slog.String("event", event),
				slog.Any("error", err),
			)
			return fmt.Errorf("control: dispatch %q: %w", event, err)
		}
		return nil
	}
}

// Submit processes submitted values through the form lifecycle. Ajax forms
// are invalidated so the caller can return the redrawn snippet.
func (c *FormControl) Submit(ctx context.Context, values form.Values) error {
	f, err := c.Form(ctx)
	if err != nil {
		return err
	}
	err = f.Fire(ctx, values)
	if c.Ajax() {
		c.Reload()
	}
	if err != nil {
		return err
	}
	c.logger.Debug("form submitted",
		slog.String("control", c.name),
		slog.Bool("valid", f.IsValid()),
	)
	return nil
}

// LoadValues fetches the values for id through the values loader and applies
// them as form defaults.
func (c *FormControl) LoadValues(ctx context.Context, id any) error {
	if c.valuesLoader == nil {
		return ErrNoValuesLoader
	}
	values, err := c.valuesLoader(ctx, id)
	if err != nil {
		return fmt.Errorf("control: load values: %w", err)
	}
	c.values = values
	if len(values) == 0 {
		return fmt.Errorf("%w: %v", ErrEmptyValues, id)
	}
	return c.SetDefaults(ctx, values)
}

// SetDefaults applies values as form defaults.
func (c *FormControl) SetDefaults(ctx context.Context, values form.Values) error {
	f, err := c.Form(ctx)
	if err != nil {
		return err
	}
	f.SetDefaults(values)
	return nil
}

// ClearValues resets the form.
func (c *FormControl) ClearValues(ctx context.Context) error {
	f, err := c.Form(ctx)
	if err != nil {
		return err
	}
	f.Reset()
	return nil
}

// ThrowError attaches message to the named field and invalidates the form
// snippet. Unknown names and non-field components are ignored.
func (c *FormControl) ThrowError(ctx context.Context, element, message string) error {
	f, err := c.Form(ctx)
	if err != nil {
		return err
	}
	field, ok := f.Field(element)
	if !ok {
		return nil
	}
	field.AddError(c.translate(message))
	c.Reload()
	return nil
}

// Column returns the named field control.
func (c *FormControl) Column(ctx context.Context, name string) (*form.Field, error) {
	f, err := c.Form(ctx)
	if err != nil {
		return nil, err
	}
	field, ok := f.Field(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFieldControl, name)
	}
	return field, nil
}

// Item returns the named field control.
//
// Deprecated: use Column.
func (c *FormControl) Item(ctx context.Context, name string) (*form.Field, error) {
	return c.Column(ctx, name)
}

// LoadOptions returns the choices for column. Results are kept in the
// control's cache namespace for the options TTL.
func (c *FormControl) LoadOptions(ctx context.Context, column string) ([]form.Option, error) {
	loader := c.optionsLoaders[column]
	if loader == nil {
		return nil, fmt.Errorf("control: no options loader for %q", column)
	}

	key := "options:" + column
	if cached, ok := c.cache.Get(key); ok {
		if opts, ok := cached.([]form.Option); ok {
			return opts, nil
		}
	}

	opts, err := loader(ctx)
	if err != nil {
		return nil, fmt.Errorf("control: load options %q: %w", column, err)
	}
	c.cache.Set(key, opts, c.optionsTTL)
	return opts, nil
}

// Reload invalidates the form snippet.
func (c *FormControl) Reload() { c.invalidate(SnippetForm) }

// Invalidated lists the snippets that need redrawing.
func (c *FormControl) Invalidated() []string {
	return append([]string(nil), c.invalidated...)
}

// IsInvalidated reports whether snippet needs redrawing.
func (c *FormControl) IsInvalidated(snippet string) bool {
	for _, name := range c.invalidated {
		if name == snippet {
			return true
		}
	}
	return false
}

func (c *FormControl) invalidate(snippet string) {
	if !c.IsInvalidated(snippet) {
		c.invalidated = append(c.invalidated, snippet)
	}
}
