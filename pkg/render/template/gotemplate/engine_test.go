package gotemplate_test

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-formcontrol/pkg/render/template"
	"github.com/goliatone/go-formcontrol/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formcontrol/pkg/testsupport"
)

func newEngine(t *testing.T, options ...gotemplate.Option) *gotemplate.Engine {
	t.Helper()

	files := fstest.MapFS{
		"hello.tpl":   {Data: []byte("Hello {{ name }}!")},
		"markup.tpl":  {Data: []byte("<div>{{ body }}</div>")},
		"global.tpl":  {Data: []byte("env={{ env }}")},
		"filters.tpl": {Data: []byte(`[{{ "  x  "|trim }}] [{{ "btn"|classlist:extra }}]`)},
		"t.tpl":       {Data: []byte(`{{ _("Save") }}`)},
	}
	engine, err := gotemplate.New(append([]gotemplate.Option{gotemplate.WithFS(files)}, options...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngine_RenderTemplateWritesToOutputs(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})

	testsupport.AssertGolden(t, filepath.Join("testdata", "hello.golden"), result)
	if written != result {
		t.Fatalf("writer mismatch\nwant: %q\n got: %q", result, written)
	}
}

func TestEngine_EscapesUnlessSafe(t *testing.T) {
	engine := newEngine(t)

	escaped, err := engine.RenderTemplate("markup.tpl", map[string]any{"body": "<b>x</b>"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if escaped != "<div>&lt;b&gt;x&lt;/b&gt;</div>" {
		t.Fatalf("expected escaped markup, got %q", escaped)
	}

	safe, err := engine.RenderTemplate("markup.tpl", map[string]any{"body": template.Safe("<b>x</b>")})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if safe != "<div><b>x</b></div>" {
		t.Fatalf("expected raw markup, got %q", safe)
	}
}

func TestEngine_GlobalsAndFuncs(t *testing.T) {
	engine := newEngine(t,
		gotemplate.WithGlobalData(map[string]any{"env": "staging"}),
		gotemplate.WithTranslator(func(key string, _ ...any) string { return strings.ToUpper(key) }),
	)

	got, err := engine.RenderTemplate("global", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "env=staging" {
		t.Fatalf("unexpected global render %q", got)
	}

	engine.GlobalContext(map[string]any{"env": "prod"})
	got, _ = engine.RenderTemplate("global", nil)
	if got != "env=prod" {
		t.Fatalf("expected updated global, got %q", got)
	}

	got, err = engine.RenderTemplate("t", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "SAVE" {
		t.Fatalf("expected translated text, got %q", got)
	}
}

func TestEngine_DefaultFilters(t *testing.T) {
	engine := newEngine(t)
	got, err := engine.RenderTemplate("filters", map[string]any{"extra": " ajax "})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "[x] [btn ajax]" {
		t.Fatalf("unexpected filter output %q", got)
	}
}

func TestEngine_RegisterFilter(t *testing.T) {
	engine := newEngine(t)
	err := engine.RegisterFilter("engine_test_shout", func(input any, _ any) (any, error) {
		return fmt.Sprintf("%s!", strings.ToUpper(fmt.Sprint(input))), nil
	})
	if err != nil {
		t.Fatalf("register filter: %v", err)
	}
	if err := engine.RegisterFilter("engine_test_shout", func(any, any) (any, error) { return nil, nil }); err == nil {
		t.Fatal("expected duplicate filter error")
	}

	got, err := engine.RenderString(`{{ name|engine_test_shout }}`, map[string]any{"name": "ada"})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if got != "ADA!" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngine_StructDataUsesJSONNames(t *testing.T) {
	engine := newEngine(t)
	data := struct {
		Name string `json:"name"`
	}{Name: "Grace"}
	got, err := engine.RenderTemplate("hello", data)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "Hello Grace!" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngine_Errors(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatal("expected error without template source")
	}
	engine := newEngine(t)
	if _, err := engine.RenderTemplate("missing", nil); err == nil {
		t.Fatal("expected missing template error")
	}
	if _, err := engine.RenderTemplate("  ", nil); err == nil {
		t.Fatal("expected empty name error")
	}
}

func TestEngine_EarlierLayerWins(t *testing.T) {
	override := fstest.MapFS{"hello.tpl": {Data: []byte("Hi {{ name }}")}}
	base := fstest.MapFS{"hello.tpl": {Data: []byte("Hello {{ name }}")}}
	engine, err := gotemplate.New(gotemplate.WithFS(override), gotemplate.WithFS(base))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	got, err := engine.RenderTemplate("hello", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "Hi Ada" {
		t.Fatalf("expected override layer, got %q", got)
	}
}
