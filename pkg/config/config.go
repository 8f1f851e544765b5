// Package config holds the declarative per-control settings (captions, links,
// ajax flag, styles and event names) and the configurators that resolve them.
package config

import "strings"

// Keys understood by Config.Get.
const (
	KeyLinks      = "links"
	KeyAjax       = "ajax"
	KeyStyles     = "styles"
	KeyTitle      = "title"
	KeyComment    = "comment"
	KeyFooter     = "footer"
	KeyOnError    = "onError"
	KeyOnValidate = "onValidate"
	KeyOnSubmit   = "onSubmit"
	KeyOnSuccess  = "onSuccess"
)

// Link is an action link rendered in the control header.
type Link struct {
	Name  string `json:"name" yaml:"name"`
	Href  string `json:"href" yaml:"href"`
	Icon  string `json:"icon,omitempty" yaml:"icon,omitempty"`
	Class string `json:"class,omitempty" yaml:"class,omitempty"`
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
}

// Styles maps a card slot (card, header, body, footer, title, ...) to CSS
// classes.
type Styles map[string]string

// Clone copies the map.
func (s Styles) Clone() Styles {
	if s == nil {
		return nil
	}
	out := make(Styles, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Config is the typed configuration for one control.
type Config struct {
	Title   string `json:"title,omitempty" yaml:"title,omitempty"`
	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`
	Footer  string `json:"footer,omitempty" yaml:"footer,omitempty"`
	// Ajax is nil when the configuration does not decide; controls then keep
	// their own setting (true by default).
	Ajax   *bool  `json:"ajax,omitempty" yaml:"ajax,omitempty"`
	Links  []Link `json:"links,omitempty" yaml:"links,omitempty"`
	Styles Styles `json:"styles,omitempty" yaml:"styles,omitempty"`

	OnError    string `json:"onError,omitempty" yaml:"onError,omitempty"`
	OnValidate string `json:"onValidate,omitempty" yaml:"onValidate,omitempty"`
	OnSubmit   string `json:"onSubmit,omitempty" yaml:"onSubmit,omitempty"`
	OnSuccess  string `json:"onSuccess,omitempty" yaml:"onSuccess,omitempty"`
}

// Get returns the value for key, applying defaults: ajax is true unless set,
// links is an empty slice, unknown keys return nil.
func (c Config) Get(key string) any {
	switch key {
	case KeyLinks:
		if c.Links == nil {
			return []Link{}
		}
		return c.Links
	case KeyAjax:
		if c.Ajax == nil {
			return true
		}
		return *c.Ajax
	case KeyStyles:
		return c.Styles
	case KeyTitle:
		return c.Title
	case KeyComment:
		return c.Comment
	case KeyFooter:
		return c.Footer
	case KeyOnError, KeyOnValidate, KeyOnSubmit, KeyOnSuccess:
		return c.Event(key)
	default:
		return nil
	}
}

// Event returns the trimmed event name bound to an event key. Empty means the
// category is not routed through the dispatcher.
func (c Config) Event(key string) string {
	switch key {
	case KeyOnError:
		return strings.TrimSpace(c.OnError)
	case KeyOnValidate:
		return strings.TrimSpace(c.OnValidate)
	case KeyOnSubmit:
		return strings.TrimSpace(c.OnSubmit)
	case KeyOnSuccess:
		return strings.TrimSpace(c.OnSuccess)
	default:
		return ""
	}
}

// Bool returns a pointer to v, handy for Config.Ajax literals.
func Bool(v bool) *bool { return &v }

// Configurator resolves the configuration for a control by name.
type Configurator interface {
	Lookup(name string) (Config, bool)
}

// Static always resolves to the same configuration.
type Static Config

// Lookup implements Configurator.
func (s Static) Lookup(string) (Config, bool) {
	return Config(s), true
}

// Resolve looks name up in c, returning the zero Config (all defaults) when
// the configurator is nil or has no entry.
func Resolve(c Configurator, name string) Config {
	if c == nil {
		return Config{}
	}
	cfg, ok := c.Lookup(name)
	if !ok {
		return Config{}
	}
	return cfg
}
