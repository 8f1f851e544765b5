package control

import (
	"log/slog"
	"strings"
	"time"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formcontrol/pkg/builder"
	"github.com/goliatone/go-formcontrol/pkg/config"
	"github.com/goliatone/go-formcontrol/pkg/events"
	"github.com/goliatone/go-formcontrol/pkg/i18n"
	"github.com/goliatone/go-formcontrol/pkg/render/template"
)

// Option customises a FormControl at construction time.
type Option func(*FormControl)

// WithName sets the control name. The name keys the configuration lookup, the
// cache namespace and the rendered element ids.
func WithName(name string) Option {
	return func(c *FormControl) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			c.name = trimmed
		}
	}
}

// WithTranslator sets the translator used for captions and builder labels.
func WithTranslator(t i18n.Translator) Option {
	return func(c *FormControl) {
		c.translator = t
	}
}

// WithLocale sets the locale handed to the translator.
func WithLocale(locale string) Option {
	return func(c *FormControl) {
		c.locale = strings.TrimSpace(locale)
	}
}

// WithEventDataFactory replaces the default events.FormEventFactory.
func WithEventDataFactory(factory events.DataFactory) Option {
	return func(c *FormControl) {
		if factory != nil {
			c.eventData = factory
		}
	}
}

// WithConfigurator sets the source of the control configuration.
func WithConfigurator(configurator config.Configurator) Option {
	return func(c *FormControl) {
		c.configurator = configurator
	}
}

// WithObject sets the object the builder reads field metadata from.
func WithObject(object any) Option {
	return func(c *FormControl) {
		c.object = object
	}
}

// WithBuilder registers the builder used by SetupForm.
func WithBuilder(b builder.Builder) Option {
	return func(c *FormControl) {
		c.builder = b
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *FormControl) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTemplateRenderer replaces the embedded card template engine. The engine
// also renders the form shell, so layer Templates() under custom templates.
func WithTemplateRenderer(renderer template.TemplateRenderer) Option {
	return func(c *FormControl) {
		if renderer != nil {
			c.renderer = renderer
		}
	}
}

// WithTheme resolves design tokens through selector at render time. The
// tokens are exposed to the template as CSS custom properties.
func WithTheme(selector theme.ThemeSelector, name, variant string) Option {
	return func(c *FormControl) {
		c.themeSelector = selector
		c.themeName = strings.TrimSpace(name)
		c.themeVariant = strings.TrimSpace(variant)
	}
}

// WithOptionsTTL sets how long LoadOptions results are cached. Zero keeps
// them until the cache is cleared.
func WithOptionsTTL(ttl time.Duration) Option {
	return func(c *FormControl) {
		if ttl >= 0 {
			c.optionsTTL = ttl
		}
	}
}
