package builder_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formcontrol/pkg/builder"
	"github.com/goliatone/go-formcontrol/pkg/cache"
	"github.com/goliatone/go-formcontrol/pkg/form"
	"github.com/goliatone/go-formcontrol/pkg/i18n"
)

type fieldSummary struct {
	Name        string
	Label       string
	Type        form.FieldType
	Required    bool
	Description string
	Placeholder string
	Group       string
	Options     []form.Option
	Value       any
}

func summarize(f *form.Form) []fieldSummary {
	var out []fieldSummary
	for _, field := range f.Fields() {
		s := fieldSummary{
			Name:        field.Name,
			Label:       field.Label,
			Type:        field.Type,
			Required:    field.Required,
			Description: field.Description,
			Placeholder: field.Placeholder,
			Options:     field.Options,
			Value:       field.Value(),
		}
		if g := field.Group(); g != nil {
			s.Group = g.Label
		}
		out = append(out, s)
	}
	return out
}

type Base struct {
	ID int `form:"id" type:"hidden" label:"Id"`
}

type userForm struct {
	Base
	FirstName string `form:"first_name,required" placeholder:"Ada"`
	Email     string `form:"email,required" type:"email" group:"Account"`
	Role      string `form:"role" options:"admin:Administrator,user:User" group:"Account"`
	Country   string `form:"country"`
	Age       int
	Active    bool   `label:"Is active"`
	Secret    string `form:"-"`
	internal  string
}

func TestStructBuilderBuildsTaggedFields(t *testing.T) {
	f := form.New("user")
	obj := &userForm{Email: "ada@example.com", Active: true}

	err := builder.NewStructBuilder().Build(context.Background(), f, builder.Source{Object: obj})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	want := []fieldSummary{
		{Name: "id", Label: "Id", Type: form.FieldHidden},
		{Name: "first_name", Label: "First name", Type: form.FieldText, Required: true, Placeholder: "Ada"},
		{Name: "email", Label: "Email", Type: form.FieldEmail, Required: true, Group: "Account", Value: "ada@example.com"},
		{Name: "role", Label: "Role", Type: form.FieldSelect, Group: "Account", Options: []form.Option{
			{Value: "admin", Label: "Administrator"},
			{Value: "user", Label: "User"},
		}},
		{Name: "country", Label: "Country", Type: form.FieldText},
		{Name: "age", Label: "Age", Type: form.FieldNumber},
		{Name: "active", Label: "Is active", Type: form.FieldCheckbox, Value: true},
		{Name: "save", Label: "Save", Type: form.FieldSubmit},
	}
	if diff := cmp.Diff(want, summarize(f)); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestStructBuilderTranslatesAndLoadsOptions(t *testing.T) {
	f := form.New("user")
	catalog := i18n.Catalog{"de": {
		"First name": "Vorname",
		"Save":       "Speichern",
		"Spain":      "Spanien",
	}}
	src := builder.Source{
		Object:     userForm{},
		Translator: catalog,
		Locale:     "de",
		Options: map[string]builder.OptionsLoader{
			"country": func(context.Context) ([]form.Option, error) {
				return []form.Option{{Value: "es", Label: "Spain"}}, nil
			},
		},
	}

	if err := builder.NewStructBuilder(builder.WithSubmit("send", "Save")).Build(context.Background(), f, src); err != nil {
		t.Fatalf("build: %v", err)
	}

	first, _ := f.Field("first_name")
	if first.Label != "Vorname" {
		t.Fatalf("expected translated label, got %q", first.Label)
	}
	country, _ := f.Field("country")
	if country.Type != form.FieldSelect {
		t.Fatalf("expected loader to turn country into select, got %q", country.Type)
	}
	if diff := cmp.Diff([]form.Option{{Value: "es", Label: "Spanien"}}, country.Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	send, ok := f.Field("send")
	if !ok || send.Label != "Speichern" {
		t.Fatalf("expected translated submit button, got %+v", send)
	}
}

func TestStructBuilderPropagatesLoaderErrors(t *testing.T) {
	boom := errors.New("boom")
	src := builder.Source{
		Object: userForm{},
		Options: map[string]builder.OptionsLoader{
			"country": func(context.Context) ([]form.Option, error) { return nil, boom },
		},
	}
	err := builder.NewStructBuilder().Build(context.Background(), form.New("user"), src)
	if !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}
}

func TestStructBuilderNilObjectAddsSubmitOnly(t *testing.T) {
	f := form.New("empty")
	if err := builder.NewStructBuilder().Build(context.Background(), f, builder.Source{}); err != nil {
		t.Fatalf("build: %v", err)
	}
	want := []fieldSummary{{Name: "save", Label: "Save", Type: form.FieldSubmit}}
	if diff := cmp.Diff(want, summarize(f)); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestStructBuilderRejectsNonStruct(t *testing.T) {
	err := builder.NewStructBuilder().Build(context.Background(), form.New("bad"), builder.Source{Object: 42})
	if err == nil {
		t.Fatal("expected error for non-struct object")
	}
}

func contactRecord() any {
	type Record struct {
		Name  string `form:"name"`
		Email string `form:"email"`
		Age   int    `form:"age"`
	}
	return &Record{Name: "Ada", Email: "ada@example.com", Age: 36}
}

func noteRecord() any {
	type Record struct {
		Title string `form:"title"`
	}
	return &Record{Title: "Hello"}
}

func TestStructBuilderSharedCacheSeparatesSameNamedTypes(t *testing.T) {
	ctx := context.Background()
	specs := cache.NewMemoryFactory().Create("formcontrol.edit")

	first := form.New("edit")
	if err := builder.NewStructBuilder(builder.WithSpecCache(specs)).Build(ctx, first, builder.Source{Object: contactRecord()}); err != nil {
		t.Fatalf("build contact: %v", err)
	}
	second := form.New("edit")
	if err := builder.NewStructBuilder(builder.WithSpecCache(specs)).Build(ctx, second, builder.Source{Object: noteRecord()}); err != nil {
		t.Fatalf("build note: %v", err)
	}
	again := form.New("edit")
	if err := builder.NewStructBuilder(builder.WithSpecCache(specs)).Build(ctx, again, builder.Source{Object: contactRecord()}); err != nil {
		t.Fatalf("rebuild contact: %v", err)
	}

	names := func(f *form.Form) []string {
		var out []string
		for _, field := range f.Fields() {
			out = append(out, field.Name)
		}
		return out
	}
	if diff := cmp.Diff([]string{"title", "save"}, names(second)); diff != "" {
		t.Fatalf("note fields mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"name", "email", "age", "save"}, names(again)); diff != "" {
		t.Fatalf("contact fields mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(names(first), names(again)); diff != "" {
		t.Fatalf("rebuilt contact differs (-want +got):\n%s", diff)
	}
	title, _ := second.Field("title")
	if title.Value() != "Hello" {
		t.Fatalf("unexpected title value %v", title.Value())
	}
}

func TestDefaultLabeler(t *testing.T) {
	cases := map[string]string{
		"FirstName":  "First name",
		"first_name": "First name",
		"user-email": "User email",
		"":           "",
	}
	for in, want := range cases {
		if got := builder.DefaultLabeler(in); got != want {
			t.Errorf("DefaultLabeler(%q) = %q, want %q", in, got, want)
		}
	}
}

const contactDocument = `{
  "openapi": "3.0.3",
  "info": {"title": "Contact", "version": "1.0.0"},
  "paths": {
    "/contact": {
      "post": {
        "operationId": "createContact",
        "summary": "Send message",
        "requestBody": {
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["email", "message"],
                "properties": {
                  "email": {"type": "string", "format": "email", "x-formcontrol": {"order": 1}},
                  "message": {"type": "string", "maxLength": 2000, "title": "Your message", "x-formcontrol": {"order": 2, "placeholder": "Say hi"}},
                  "topic": {"type": "string", "enum": ["sales", "support"], "default": "support"},
                  "newsletter": {"type": "boolean", "description": "Monthly digest"},
                  "id": {"type": "integer", "readOnly": true}
                }
              }
            }
          }
        },
        "responses": {"204": {"description": "sent"}}
      }
    }
  }
}`

func TestOpenAPIBuilderBuildsFromRequestBody(t *testing.T) {
	f := form.New("contact")
	b := builder.NewOpenAPIBuilder([]byte(contactDocument), "createContact")
	if err := b.Build(context.Background(), f, builder.Source{}); err != nil {
		t.Fatalf("build: %v", err)
	}

	want := []fieldSummary{
		{Name: "email", Label: "Email", Type: form.FieldEmail, Required: true},
		{Name: "message", Label: "Your message", Type: form.FieldTextArea, Required: true, Placeholder: "Say hi"},
		{Name: "newsletter", Label: "Newsletter", Type: form.FieldCheckbox, Description: "Monthly digest"},
		{Name: "topic", Label: "Topic", Type: form.FieldSelect, Value: "support", Options: []form.Option{
			{Value: "sales", Label: "sales"},
			{Value: "support", Label: "support"},
		}},
		{Name: "save", Label: "Send message", Type: form.FieldSubmit},
	}
	if diff := cmp.Diff(want, summarize(f)); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestOpenAPIBuilderErrors(t *testing.T) {
	cases := []struct {
		name      string
		document  string
		operation string
	}{
		{name: "empty document", document: "", operation: "createContact"},
		{name: "missing operation id", document: contactDocument, operation: " "},
		{name: "unknown operation", document: contactDocument, operation: "deleteContact"},
		{name: "invalid document", document: "{", operation: "createContact"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := builder.NewOpenAPIBuilder([]byte(tc.document), tc.operation)
			if err := b.Build(context.Background(), form.New("contact"), builder.Source{}); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
