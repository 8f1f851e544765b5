// Package formcontrol wires the collaborators a control needs (form factory,
// event dispatcher, cache factory, configurator and translator) once, so
// applications can create many controls that share them.
package formcontrol

import (
	"io/fs"
	"log/slog"
	"strings"

	"github.com/goliatone/go-formcontrol/pkg/cache"
	"github.com/goliatone/go-formcontrol/pkg/config"
	"github.com/goliatone/go-formcontrol/pkg/control"
	"github.com/goliatone/go-formcontrol/pkg/events"
	"github.com/goliatone/go-formcontrol/pkg/form"
	"github.com/goliatone/go-formcontrol/pkg/i18n"
	"github.com/goliatone/go-formcontrol/pkg/render/template"
)

// Option customises a Runtime.
type Option func(*Runtime)

// WithFormFactory replaces the default form factory.
func WithFormFactory(factory form.Factory) Option {
	return func(r *Runtime) {
		if factory != nil {
			r.forms = factory
		}
	}
}

// WithDispatcher replaces the dispatcher created by New.
func WithDispatcher(dispatcher *events.Dispatcher) Option {
	return func(r *Runtime) {
		if dispatcher != nil {
			r.dispatcher = dispatcher
		}
	}
}

// WithCacheFactory replaces the in-memory cache factory.
func WithCacheFactory(factory cache.Factory) Option {
	return func(r *Runtime) {
		if factory != nil {
			r.caches = factory
		}
	}
}

// WithConfigurator sets the configuration source shared by all controls.
func WithConfigurator(configurator config.Configurator) Option {
	return func(r *Runtime) {
		r.configurator = configurator
	}
}

// WithTranslator sets the translator and locale handed to every control.
func WithTranslator(translator i18n.Translator, locale string) Option {
	return func(r *Runtime) {
		r.translator = translator
		r.locale = strings.TrimSpace(locale)
	}
}

// WithLogger sets the logger shared by the runtime, its dispatcher and its
// controls.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithTemplateRenderer shares one template engine across controls.
func WithTemplateRenderer(renderer template.TemplateRenderer) Option {
	return func(r *Runtime) {
		r.renderer = renderer
	}
}

// WithControlOptions appends options applied to every control before the
// per-call options.
func WithControlOptions(options ...control.Option) Option {
	return func(r *Runtime) {
		r.controlOptions = append(r.controlOptions, options...)
	}
}

// Runtime holds the shared collaborators. It is safe for concurrent use as
// long as the collaborators are; controls it creates are not shared.
type Runtime struct {
	forms          form.Factory
	dispatcher     *events.Dispatcher
	caches         cache.Factory
	configurator   config.Configurator
	translator     i18n.Translator
	locale         string
	logger         *slog.Logger
	renderer       template.TemplateRenderer
	controlOptions []control.Option
}

// New builds a Runtime. Missing collaborators get defaults: a plain form
// factory, an in-memory cache factory and a dispatcher logging through the
// runtime logger.
func New(options ...Option) *Runtime {
	r := &Runtime{logger: slog.Default()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.forms == nil {
		r.forms = form.NewFactory()
	}
	if r.caches == nil {
		r.caches = cache.NewMemoryFactory()
	}
	if r.dispatcher == nil {
		r.dispatcher = events.NewDispatcher(events.WithLogger(r.logger))
	}
	return r
}

// Dispatcher returns the shared dispatcher.
func (r *Runtime) Dispatcher() *events.Dispatcher { return r.dispatcher }

// Configurator returns the shared configuration source, possibly nil.
func (r *Runtime) Configurator() config.Configurator { return r.configurator }

// Subscribe registers listener for a configured event name.
func (r *Runtime) Subscribe(event string, listener events.Listener) error {
	return r.dispatcher.Subscribe(event, listener)
}

// Control creates a control named name wired to the shared collaborators.
func (r *Runtime) Control(name string, options ...control.Option) *control.FormControl {
	opts := []control.Option{
		control.WithName(name),
		control.WithLogger(r.logger),
		control.WithConfigurator(r.configurator),
		control.WithTranslator(r.translator),
		control.WithLocale(r.locale),
		control.WithTemplateRenderer(r.renderer),
	}
	opts = append(opts, r.controlOptions...)
	opts = append(opts, options...)
	return control.New(r.forms, r.dispatcher, r.caches, opts...)
}

// EmbeddedTemplates exposes the built-in card templates so callers can layer
// their own overrides on top of them.
func EmbeddedTemplates() fs.FS {
	return control.Templates()
}
