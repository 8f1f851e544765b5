// Package gotemplate renders form control templates with pongo2.
package gotemplate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"reflect"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-formcontrol/pkg/render/template"
)

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	baseDir   string
	layers    []fs.FS
	extension string
	funcs     map[string]any
	globals   map[string]any
	reload    bool
}

// WithBaseDir loads templates from a directory on disk. Disk templates take
// precedence over every fs.FS layer.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS adds a template layer. Earlier layers win when names collide, so
// application overrides should be passed before the embedded defaults.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.layers = append(cfg.layers, files)
		}
	}
}

// WithExtension overrides the ".tpl" suffix appended to template names.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		cfg.extension = trimmed
	}
}

// WithFunc exposes a callable to every template, e.g. {{ asset("app.css") }}.
func WithFunc(name string, fn any) Option {
	return func(cfg *config) {
		name = strings.TrimSpace(name)
		if name == "" || !isCallable(fn) {
			return
		}
		if cfg.funcs == nil {
			cfg.funcs = make(map[string]any)
		}
		cfg.funcs[name] = fn
	}
}

// WithTranslator exposes fn as the `_` function: {{ _("Save") }}.
func WithTranslator(fn func(key string, args ...any) string) Option {
	return WithFunc("_", fn)
}

// WithGlobalData seeds values available to every template.
func WithGlobalData(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.globals == nil {
			cfg.globals = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globals[strings.TrimSpace(key)] = value
		}
	}
}

// WithReload disables the compiled template cache. Useful while editing
// templates on disk.
func WithReload(enabled bool) Option {
	return func(cfg *config) {
		cfg.reload = enabled
	}
}

// Engine is a pongo2 backed template.TemplateRenderer.
type Engine struct {
	mu sync.RWMutex

	set       *pongo2.TemplateSet
	compiled  map[string]*pongo2.Template
	extension string
	reload    bool
}

var (
	_ template.TemplateRenderer = (*Engine)(nil)
	_ template.FilterRegistrar  = (*Engine)(nil)
)

// New constructs an Engine. At least one template source is required.
func New(options ...Option) (*Engine, error) {
	cfg := &config{extension: ".tpl"}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	if cfg.baseDir == "" && len(cfg.layers) == 0 {
		return nil, errors.New("gotemplate: need to provide either base dir or fs.FS")
	}

	var loaders []pongo2.TemplateLoader
	if cfg.baseDir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("gotemplate: create local loader: %w", err)
		}
		loaders = append(loaders, loader)
	}
	for _, layer := range cfg.layers {
		loaders = append(loaders, pongo2.NewFSLoader(layer))
	}

	engine := &Engine{
		set:       pongo2.NewSet("formcontrol", loaders...),
		compiled:  make(map[string]*pongo2.Template),
		extension: cfg.extension,
		reload:    cfg.reload,
	}
	engine.set.Globals = make(pongo2.Context)
	registerDefaultFilters()

	for key, value := range cfg.globals {
		engine.set.Globals[key] = value
	}
	for name, fn := range cfg.funcs {
		engine.set.Globals[name] = fn
	}
	return engine, nil
}

// RenderTemplate renders the named template. The extension is appended when
// missing.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("gotemplate: engine is nil")
	}
	path := strings.TrimSpace(name)
	if path == "" {
		return "", errors.New("gotemplate: template name is required")
	}
	if !strings.HasSuffix(path, e.extension) {
		path += e.extension
	}

	tmpl, err := e.lookup(path)
	if err != nil {
		return "", err
	}
	return e.execute(tmpl, data, fmt.Sprintf("template %q", path), out)
}

// RenderString renders inline template content.
func (e *Engine) RenderString(content string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("gotemplate: engine is nil")
	}
	tmpl, err := e.set.FromString(content)
	if err != nil {
		return "", fmt.Errorf("gotemplate: parse template string: %w", err)
	}
	return e.execute(tmpl, data, "template string", out)
}

// RegisterFilter registers a pongo2 filter. Filters are process wide, so a
// name can only be registered once.
func (e *Engine) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	name = strings.TrimSpace(name)
	if name == "" || fn == nil {
		return errors.New("gotemplate: filter name and function required")
	}
	if pongo2.FilterExists(name) {
		return fmt.Errorf("gotemplate: filter %q already exists", name)
	}
	return pongo2.RegisterFilter(name, func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var paramVal any
		if param != nil {
			paramVal = param.Interface()
		}
		result, err := fn(in.Interface(), paramVal)
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		return toValue(result), nil
	})
}

// GlobalContext merges data into the values shared by every template.
func (e *Engine) GlobalContext(data map[string]any) {
	if e == nil || len(data) == 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for key, value := range data {
		e.set.Globals[strings.TrimSpace(key)] = value
	}
}

func (e *Engine) execute(tmpl *pongo2.Template, data any, what string, out []io.Writer) (string, error) {
	ctx, err := toContext(data)
	if err != nil {
		return "", fmt.Errorf("gotemplate: convert data: %w", err)
	}

	var buf bytes.Buffer
	e.mu.RLock()
	err = tmpl.ExecuteWriter(ctx, &buf)
	e.mu.RUnlock()
	if err != nil {
		return "", fmt.Errorf("gotemplate: execute %s: %w", what, err)
	}

	rendered := buf.String()
	for _, w := range out {
		if w == nil {
			continue
		}
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", err
		}
	}
	return rendered, nil
}

func (e *Engine) lookup(path string) (*pongo2.Template, error) {
	if e.reload {
		tmpl, err := e.set.FromFile(path)
		if err != nil {
			return nil, fmt.Errorf("gotemplate: load template %q: %w", path, err)
		}
		return tmpl, nil
	}

	e.mu.RLock()
	tmpl, ok := e.compiled[path]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := e.compiled[path]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: load template %q: %w", path, err)
	}
	e.compiled[path] = tmpl
	return tmpl, nil
}

// toContext turns data into a pongo2 context. Maps are used as is; other
// values round trip through JSON so struct tags decide the key names.
func toContext(data any) (pongo2.Context, error) {
	var raw map[string]any
	switch v := data.(type) {
	case nil:
		return pongo2.Context{}, nil
	case pongo2.Context:
		raw = v
	case map[string]any:
		raw = v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(b, &raw); err != nil {
			return nil, err
		}
	}

	out := make(pongo2.Context, len(raw))
	for key, value := range raw {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if safe, ok := value.(template.Safe); ok {
			out[key] = pongo2.AsSafeValue(string(safe))
			continue
		}
		out[key] = value
	}
	return out, nil
}

func toValue(v any) *pongo2.Value {
	if safe, ok := v.(template.Safe); ok {
		return pongo2.AsSafeValue(string(safe))
	}
	return pongo2.AsValue(v)
}

func isCallable(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	return rv.IsValid() && rv.Kind() == reflect.Func
}
