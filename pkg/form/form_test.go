package form_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formcontrol/pkg/form"
	"github.com/goliatone/go-formcontrol/pkg/render/template"
)

func TestDefaultWrappers_BootstrapMap(t *testing.T) {
	got := form.DefaultWrappers()

	want := form.Wrappers{
		"form":     {"container": ""},
		"error":    {"container": `div class="row mb-3"`, "item": `div class="col-12 text-danger"`},
		"group":    {"container": "", "label": `p class="h3 modal-header"`, "description": `p class="pl-3 lead"`},
		"controls": {"container": ""},
		"pair": {
			"container": `div class="form-group row"`,
			".required": "", ".optional": "", ".odd": "", ".error": "",
		},
		"control": {
			"container":      `div class="col-lg-7 col-md-9 col-sm-12"`,
			".odd":           "",
			"description":    `small class="form-text text-muted"`,
			"requiredsuffix": "",
			"errorcontainer": `div class="col-12 badge badge-danger"`,
			"erroritem":      "",
			".required":      "", ".text": "", ".password": "", ".file": "", ".email": "",
			".number": "", ".submit": "", ".image": "", ".button": "",
		},
		"label":  {"container": `div class="col-lg-5 col-md-3 text-md-right col-sm-12"`, "suffix": "", "requiredsuffix": "*"},
		"hidden": {"container": ""},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("default wrappers mismatch (-want +got):\n%s", diff)
	}

	got["pair"]["container"] = "section"
	if again := form.DefaultWrappers(); again["pair"]["container"] != `div class="form-group row"` {
		t.Fatalf("expected DefaultWrappers to return an independent copy, got %q", again["pair"]["container"])
	}
}

func TestParseElement(t *testing.T) {
	el := form.ParseElement(`div class="col-12  text-danger" data-role="item"`)
	if el == nil {
		t.Fatalf("expected element")
	}
	if el.Tag() != "div" {
		t.Fatalf("expected div tag, got %q", el.Tag())
	}
	if diff := cmp.Diff([]string{"col-12", "text-danger"}, el.Classes()); diff != "" {
		t.Fatalf("classes mismatch (-want +got):\n%s", diff)
	}
	if got := el.StartTag(); got != `<div class="col-12 text-danger" data-role="item">` {
		t.Fatalf("unexpected start tag %q", got)
	}
	if form.ParseElement("   ") != nil {
		t.Fatalf("expected nil element for empty hint")
	}
	if got := form.ParseElement("").Wrap("x"); got != "x" {
		t.Fatalf("expected nil element to pass content through, got %q", got)
	}
}

func TestForm_FirePipelineOrder(t *testing.T) {
	cases := []struct {
		name      string
		submitted form.Values
		success   func(*form.Form)
		want      []string
	}{
		{
			name:      "valid submission",
			submitted: form.Values{"email": "ada@example.com"},
			want:      []string{"validate", "success", "submit"},
		},
		{
			name:      "invalid submission",
			submitted: form.Values{"email": ""},
			want:      []string{"validate", "error", "submit"},
		},
		{
			name:      "success handler rejects",
			submitted: form.Values{"email": "ada@example.com"},
			success:   func(f *form.Form) { f.AddError("duplicate account") },
			want:      []string{"validate", "success", "error", "submit"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := form.New("signup")
			if _, err := f.AddField(&form.Field{Name: "email", Type: form.FieldEmail, Required: true}); err != nil {
				t.Fatalf("add field: %v", err)
			}

			var calls []string
			record := func(name string, extra func(*form.Form)) form.Handler {
				return func(_ context.Context, f *form.Form) error {
					calls = append(calls, name)
					if extra != nil {
						extra(f)
					}
					return nil
				}
			}
			f.OnValidate = []form.Handler{record("validate", nil)}
			f.OnSuccess = []form.Handler{record("success", tc.success)}
			f.OnError = []form.Handler{record("error", nil)}
			f.OnSubmit = []form.Handler{record("submit", nil)}

			if err := f.Fire(context.Background(), tc.submitted); err != nil {
				t.Fatalf("fire: %v", err)
			}
			if diff := cmp.Diff(tc.want, calls); diff != "" {
				t.Fatalf("handler order mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestForm_FireStopsOnHandlerError(t *testing.T) {
	f := form.New("form")
	boom := errors.New("boom")
	submitted := false
	f.OnSuccess = []form.Handler{func(context.Context, *form.Form) error { return boom }}
	f.OnSubmit = []form.Handler{func(context.Context, *form.Form) error { submitted = true; return nil }}

	err := f.Fire(context.Background(), nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected handler error, got %v", err)
	}
	if submitted {
		t.Fatalf("expected pipeline to stop after failing handler")
	}
}

func TestForm_FieldValidation(t *testing.T) {
	f := form.New("form")
	mustAdd(t, f, &form.Field{Name: "age", Type: form.FieldNumber})
	mustAdd(t, f, &form.Field{Name: "role", Type: form.FieldSelect, Options: []form.Option{{Value: "admin", Label: "Admin"}}})
	mustAdd(t, f, &form.Field{Name: "terms", Type: form.FieldCheckbox, Required: true, RequiredMessage: "Accept the terms."})

	if err := f.Fire(context.Background(), form.Values{"age": "abc", "role": "root"}); err != nil {
		t.Fatalf("fire: %v", err)
	}

	want := []string{"Please enter a valid number.", "Please select a valid option.", "Accept the terms."}
	if diff := cmp.Diff(want, f.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if got := f.Values()["terms"]; got != false {
		t.Fatalf("expected unchecked checkbox to be false, got %#v", got)
	}
}

func TestForm_DefaultsAndReset(t *testing.T) {
	f := form.New("form")
	mustAdd(t, f, &form.Field{Name: "name"})
	mustAdd(t, f, &form.Field{Name: "save", Type: form.FieldSubmit, Label: "Save"})

	f.SetDefaults(form.Values{"name": "Ada", "unknown": 1})
	if diff := cmp.Diff(form.Values{"name": "Ada"}, f.Values()); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}

	if err := f.Fire(context.Background(), form.Values{"name": "Grace"}); err != nil {
		t.Fatalf("fire: %v", err)
	}
	f.SetDefaults(form.Values{"name": "Ada"})
	if got := f.Values()["name"]; got != "Grace" {
		t.Fatalf("expected defaults to leave submitted value, got %#v", got)
	}

	f.Reset()
	if f.IsSubmitted() {
		t.Fatalf("expected reset to clear submitted flag")
	}
	if got := f.Values()["name"]; got != nil {
		t.Fatalf("expected reset to clear value, got %#v", got)
	}
}

func TestForm_ComponentLookup(t *testing.T) {
	f := form.New("form")
	mustAdd(t, f, &form.Field{Name: "name"})
	if err := f.AddMarkup("intro", "<p>Hello</p>"); err != nil {
		t.Fatalf("add markup: %v", err)
	}
	if err := f.AddMarkup("intro", "<p>Again</p>"); err == nil {
		t.Fatalf("expected duplicate component error")
	}

	if _, ok := f.Field("intro"); ok {
		t.Fatalf("markup must not be reported as a field control")
	}
	if _, ok := f.Component("intro"); !ok {
		t.Fatalf("expected markup component")
	}
	if field, ok := f.Field("name"); !ok || field.Type != form.FieldText {
		t.Fatalf("expected text field default type, got %+v", field)
	}
}

func TestWrapperRenderer_Render(t *testing.T) {
	f := form.New("form", form.WithAction("/users"))
	f.Element().AddClass("ajax")
	mustAdd(t, f, &form.Field{Name: "name", Label: "Name", Required: true, Description: "Full name"})
	mustAdd(t, f, &form.Field{Name: "token", Type: form.FieldHidden})
	f.AddGroup("Account", "Login details")
	mustAdd(t, f, &form.Field{Name: "email", Label: "Email", Type: form.FieldEmail})
	f.EndGroup()
	mustAdd(t, f, &form.Field{Name: "save", Type: form.FieldSubmit, Label: "Save"})

	field, _ := f.Field("name")
	field.AddError("Too short")
	f.AddError("Please fix the errors below")

	out, err := f.HTML()
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, fragment := range []string{
		`<form class="ajax" action="/users" method="post" id="frm-form">`,
		`<div class="row mb-3"><div class="col-12 text-danger">Please fix the errors below</div></div>`,
		`<p class="h3 modal-header">Account</p><p class="pl-3 lead">Login details</p>`,
		`<div class="form-group row"><div class="col-lg-5 col-md-3 text-md-right col-sm-12"><label for="frm-name">Name*</label></div>`,
		`<input class="form-control is-invalid" name="name" id="frm-name" required="required" type="text">`,
		`<small class="form-text text-muted">Full name</small>`,
		`<div class="col-12 badge badge-danger">Too short</div>`,
		`<input type="hidden" name="token" value="">`,
		`<input class="btn btn-primary" type="submit" name="save" value="Save">`,
	} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected output to contain %q\noutput: %s", fragment, out)
		}
	}
	if !strings.HasSuffix(out, "</form>") {
		t.Fatalf("expected closing form tag, got %s", out)
	}
	if strings.Index(out, "frm-email") > strings.Index(out, "frm-name") {
		t.Fatalf("expected grouped fields to render before ungrouped ones")
	}
}

func TestNewFactory_AppliesFormOptions(t *testing.T) {
	factory := form.NewFactory(form.WithAction("/search"), form.WithMethod("get"), nil)
	f, err := factory.Create(context.Background())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if f.Action() != "/search" || f.Method() != "GET" {
		t.Fatalf("unexpected action/method %q %q", f.Action(), f.Method())
	}

	mustAdd(t, f, &form.Field{
		Name:    "sort",
		Label:   "Sort",
		Type:    form.FieldSelect,
		Options: []form.Option{{Value: "asc", Label: "Ascending"}, {Value: "desc", Label: "Descending"}},
	})
	out, err := f.HTML()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, fragment := range []string{`action="/search" method="get"`, "Ascending", "Descending"} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected output to contain %q\noutput: %s", fragment, out)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := factory.Create(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}

type recordingEngine struct {
	name string
	data map[string]any
	err  error
}

func (e *recordingEngine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	e.name = name
	e.data, _ = data.(map[string]any)
	if e.err != nil {
		return "", e.err
	}
	rendered := fmt.Sprintf("%s%s%s", e.data["form_start"], e.data["controls"], e.data["form_end"])
	for _, w := range out {
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", err
		}
	}
	return rendered, nil
}

func (e *recordingEngine) RenderString(content string, data any, out ...io.Writer) (string, error) {
	return "", errors.New("not supported")
}

func TestWrapperRenderer_Shell(t *testing.T) {
	f := form.New("form", form.WithAction("/users"))
	mustAdd(t, f, &form.Field{Name: "name", Label: "Name"})
	mustAdd(t, f, &form.Field{Name: "token", Type: form.FieldHidden})
	f.AddGroup("Account", "Login details")
	mustAdd(t, f, &form.Field{Name: "email", Label: "Email", Type: form.FieldEmail})
	f.EndGroup()
	f.AddError("Please fix the errors below")

	engine := &recordingEngine{}
	aware, ok := f.Renderer().(form.ShellAware)
	if !ok {
		t.Fatal("expected default renderer to accept a shell engine")
	}
	aware.SetShell(engine, "")

	out, err := f.HTML()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if engine.name != form.ShellTemplate {
		t.Fatalf("expected default shell template, got %q", engine.name)
	}
	if !strings.HasPrefix(out, `<form action="/users" method="post" id="frm-form">`) || !strings.HasSuffix(out, "</form>") {
		t.Fatalf("unexpected shell output %s", out)
	}

	groups, _ := engine.data["groups"].([]map[string]any)
	gotGroups := make([]string, 0, len(groups))
	for _, g := range groups {
		gotGroups = append(gotGroups, fmt.Sprint(g["label"], "|", g["description"]))
	}
	if diff := cmp.Diff([]string{"Account|Login details"}, gotGroups); diff != "" {
		t.Fatalf("groups mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Please fix the errors below"}, engine.data["error_list"]); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	hidden, _ := engine.data["hidden"].(template.Safe)
	if !strings.Contains(string(hidden), `name="token"`) {
		t.Fatalf("expected hidden inputs in shell context, got %q", hidden)
	}
	if controls, _ := engine.data["controls"].(template.Safe); strings.Contains(string(controls), "frm-email") {
		t.Fatalf("grouped fields must not repeat in controls: %s", controls)
	}

	engine.err = errors.New("boom")
	if _, err := f.HTML(); err == nil || !strings.Contains(err.Error(), form.ShellTemplate) {
		t.Fatalf("expected wrapped shell error, got %v", err)
	}
}

func mustAdd(t *testing.T, f *form.Form, field *form.Field) {
	t.Helper()
	if _, err := f.AddField(field); err != nil {
		t.Fatalf("add field %q: %v", field.Name, err)
	}
}
