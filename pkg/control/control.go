package control

import (
	"context"
	"log/slog"
	"strings"
	"time"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formcontrol/pkg/builder"
	"github.com/goliatone/go-formcontrol/pkg/cache"
	"github.com/goliatone/go-formcontrol/pkg/config"
	"github.com/goliatone/go-formcontrol/pkg/events"
	"github.com/goliatone/go-formcontrol/pkg/form"
	"github.com/goliatone/go-formcontrol/pkg/i18n"
	"github.com/goliatone/go-formcontrol/pkg/render/template"
)

const (
	// SnippetForm names the partial reload region holding the form.
	SnippetForm = "form"
	// DefaultIconPrefix is prepended to link icon names.
	DefaultIconPrefix = "fas fa-"
	// DefaultTemplatePath is the card template shipped with the package.
	DefaultTemplatePath = "form.tpl"
	// DefaultName is used when no name is configured.
	DefaultName = "form"
	// DefaultOptionsTTL bounds how long loaded select options are reused.
	DefaultOptionsTTL = time.Minute
)

// Dispatcher routes named events to their listeners. *events.Dispatcher
// satisfies it.
type Dispatcher interface {
	Dispatch(ctx context.Context, name string, event any) error
}

// ValuesLoader fetches the stored values of the record identified by id.
type ValuesLoader func(ctx context.Context, id any) (form.Values, error)

var _ Dispatcher = (*events.Dispatcher)(nil)

// FormControl wraps a form with configuration, event routing and rendering.
// The exported handler lists are used for event categories that have no
// configured dispatcher event.
type FormControl struct {
	OnError    []form.Handler
	OnValidate []form.Handler
	OnSubmit   []form.Handler
	OnSuccess  []form.Handler

	name          string
	formFactory   form.Factory
	dispatcher    Dispatcher
	cacheFactory  cache.Factory
	cache         cache.Cache
	translator    i18n.Translator
	locale        string
	eventData     events.DataFactory
	configurator  config.Configurator
	config        config.Config
	logger        *slog.Logger
	renderer      template.TemplateRenderer
	themeSelector theme.ThemeSelector
	themeName     string
	themeVariant  string

	iconPrefix      string
	wrappers        form.Wrappers
	simple          bool
	templatePath    string
	shellPath       string
	ajax            *bool
	title           string
	comment         string
	footer          string
	styles          config.Styles
	links           []config.Link
	object          any
	builder         builder.Builder
	builderDisabled bool
	optionsLoaders  map[string]builder.OptionsLoader
	valuesLoader    ValuesLoader
	optionsTTL      time.Duration
	values          form.Values

	form        *form.Form
	invalidated []string
	flashes     []Flash
}

// New creates a control around the given collaborators. The configuration is
// resolved once, after options are applied.
func New(formFactory form.Factory, dispatcher Dispatcher, cacheFactory cache.Factory, options ...Option) *FormControl {
	c := &FormControl{
		name:         DefaultName,
		formFactory:  formFactory,
		dispatcher:   dispatcher,
		cacheFactory: cacheFactory,
		eventData:    events.FormEventFactory{},
		logger:       slog.Default(),
		optionsTTL:   DefaultOptionsTTL,
	}
	c.SetIconPrefix(DefaultIconPrefix)
	c.SetRendererWrappers(form.DefaultWrappers())
	c.SetSimple(false)
	c.SetTemplatePath(DefaultTemplatePath)
	c.SetShellTemplatePath(form.ShellTemplate)

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}

	if c.formFactory == nil {
		c.formFactory = form.NewFactory()
	}
	if c.cacheFactory == nil {
		c.cacheFactory = cache.NewMemoryFactory()
	}
	c.cache = c.cacheFactory.Create("formcontrol." + c.name)
	c.config = config.Resolve(c.configurator, c.name)
	c.SetLinks(c.config.Links)
	return c
}

// Name returns the control name.
func (c *FormControl) Name() string { return c.name }

// SetName renames the control. The configuration resolved at construction is
// kept.
func (c *FormControl) SetName(name string) {
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		c.name = trimmed
	}
}

// Config returns the resolved configuration.
func (c *FormControl) Config() config.Config { return c.config }

// Configurator returns the configurator the control was created with.
func (c *FormControl) Configurator() config.Configurator { return c.configurator }

// FormFactory returns the factory that creates the wrapped form.
func (c *FormControl) FormFactory() form.Factory { return c.formFactory }

// Dispatcher returns the event dispatcher.
func (c *FormControl) Dispatcher() Dispatcher { return c.dispatcher }

// Translator returns the translator, which may be nil.
func (c *FormControl) Translator() i18n.Translator { return c.translator }

// Locale returns the translation locale.
func (c *FormControl) Locale() string { return c.locale }

// EventDataFactory returns the factory building dispatched event payloads.
func (c *FormControl) EventDataFactory() events.DataFactory { return c.eventData }

// Ajax reports whether the form submits over ajax. Unset means true.
func (c *FormControl) Ajax() bool {
	if c.ajax == nil {
		return true
	}
	return *c.ajax
}

// SetAjax toggles ajax submission.
func (c *FormControl) SetAjax(ajax bool) { c.ajax = &ajax }

// Title returns the override set with SetTitle or the configured title.
func (c *FormControl) Title() string { return pick(c.title, c.config.Title) }

// SetTitle overrides the title with its translation.
func (c *FormControl) SetTitle(text string) { c.title = c.translate(text) }

// Comment returns the override set with SetComment or the configured comment.
func (c *FormControl) Comment() string { return pick(c.comment, c.config.Comment) }

// SetComment overrides the comment with its translation.
func (c *FormControl) SetComment(text string) { c.comment = c.translate(text) }

// Footer returns the override set with SetFooter or the configured footer.
func (c *FormControl) Footer() string { return pick(c.footer, c.config.Footer) }

// SetFooter overrides the footer with its translation.
func (c *FormControl) SetFooter(text string) { c.footer = c.translate(text) }

// Styles returns the styles set with SetStyles, else the configured styles.
func (c *FormControl) Styles() config.Styles {
	if c.styles != nil {
		return c.styles
	}
	return c.config.Styles
}

// SetStyles overrides the card styles.
func (c *FormControl) SetStyles(styles config.Styles) { c.styles = styles.Clone() }

// Links returns the header links, never nil.
func (c *FormControl) Links() []config.Link {
	if len(c.links) == 0 {
		return []config.Link{}
	}
	return append([]config.Link(nil), c.links...)
}

// SetLinks replaces the header links.
func (c *FormControl) SetLinks(links []config.Link) {
	c.links = append([]config.Link(nil), links...)
}

// IconPrefix returns the class prefix for link icons.
func (c *FormControl) IconPrefix() string { return c.iconPrefix }

// SetIconPrefix sets the class prefix for link icons.
func (c *FormControl) SetIconPrefix(prefix string) { c.iconPrefix = prefix }

// Simple reports whether the form renders without the card chrome.
func (c *FormControl) Simple() bool { return c.simple }

// SetSimple toggles the card chrome.
func (c *FormControl) SetSimple(simple bool) { c.simple = simple }

// TemplatePath returns the template rendered by Render.
func (c *FormControl) TemplatePath() string { return c.templatePath }

// SetTemplatePath sets the template rendered by Render.
func (c *FormControl) SetTemplatePath(path string) { c.templatePath = strings.TrimSpace(path) }

// ShellTemplatePath returns the template used for the outer form markup.
func (c *FormControl) ShellTemplatePath() string { return c.shellPath }

// SetShellTemplatePath sets the form shell template. An empty path keeps the
// renderer's built-in layout.
func (c *FormControl) SetShellTemplatePath(path string) { c.shellPath = strings.TrimSpace(path) }

// RendererWrappers returns the wrapper map applied to created forms.
func (c *FormControl) RendererWrappers() form.Wrappers {
	if c.wrappers == nil {
		return form.Wrappers{}
	}
	return c.wrappers
}

// SetRendererWrappers replaces the wrapper map applied to created forms.
func (c *FormControl) SetRendererWrappers(wrappers form.Wrappers) {
	c.wrappers = wrappers.Clone()
}

// Object returns the object handed to the builder.
func (c *FormControl) Object() any { return c.object }

// SetObject sets the object handed to the builder.
func (c *FormControl) SetObject(object any) { c.object = object }

// Builder returns the registered builder, which may be nil.
func (c *FormControl) Builder() builder.Builder { return c.builder }

// SetBuilder registers the builder used by SetupForm.
func (c *FormControl) SetBuilder(b builder.Builder) { c.builder = b }

// DisableBuilder stops SetupForm from creating a default builder.
func (c *FormControl) DisableBuilder() { c.builderDisabled = true }

// BuilderEnabled reports whether a default builder may be created.
func (c *FormControl) BuilderEnabled() bool { return !c.builderDisabled }

// SetOptionsLoader registers the loader providing choices for column.
func (c *FormControl) SetOptionsLoader(column string, loader builder.OptionsLoader) {
	if c.optionsLoaders == nil {
		c.optionsLoaders = make(map[string]builder.OptionsLoader)
	}
	c.optionsLoaders[strings.TrimSpace(column)] = loader
}

// OptionsLoaders returns the registered option loaders keyed by column.
func (c *FormControl) OptionsLoaders() map[string]builder.OptionsLoader {
	out := make(map[string]builder.OptionsLoader, len(c.optionsLoaders))
	for column, loader := range c.optionsLoaders {
		out[column] = loader
	}
	return out
}

// SetValuesLoader registers the loader used by LoadValues.
func (c *FormControl) SetValuesLoader(loader ValuesLoader) { c.valuesLoader = loader }

// ValuesLoader returns the registered values loader, which may be nil.
func (c *FormControl) ValuesLoader() ValuesLoader { return c.valuesLoader }

// Values returns the values fetched by the last LoadValues call.
func (c *FormControl) Values() form.Values { return c.values }

// SetValues replaces the stored values without touching the form.
func (c *FormControl) SetValues(values form.Values) { c.values = values }

func (c *FormControl) translate(text string, args ...any) string {
	return i18n.Translate(c.translator, c.locale, text, args...)
}

func pick(override, configured string) string {
	if strings.TrimSpace(override) != "" {
		return override
	}
	return configured
}
