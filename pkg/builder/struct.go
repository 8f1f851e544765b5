package builder

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/goliatone/go-formcontrol/pkg/cache"
	"github.com/goliatone/go-formcontrol/pkg/form"
)

// StructOption configures a StructBuilder.
type StructOption func(*StructBuilder)

// WithLabeler overrides the label derived for untagged fields.
func WithLabeler(labeler func(string) string) StructOption {
	return func(b *StructBuilder) {
		if labeler != nil {
			b.labeler = labeler
		}
	}
}

// WithSubmit sets the submit button appended after the fields. An empty name
// disables the button.
func WithSubmit(name, caption string) StructOption {
	return func(b *StructBuilder) {
		b.submitName = strings.TrimSpace(name)
		b.submitCaption = caption
	}
}

// WithSpecCache stores parsed struct layouts in c instead of a private cache.
func WithSpecCache(c cache.Cache) StructOption {
	return func(b *StructBuilder) {
		if c != nil {
			b.specs = c
		}
	}
}

// StructBuilder reads field definitions from struct tags:
//
//	type UserForm struct {
//	    Name  string `form:"name,required" label:"Full name" placeholder:"Ada Lovelace"`
//	    Email string `form:"email,required" type:"email" group:"Account"`
//	    Role  string `form:"role" type:"select" options:"admin:Administrator,user:User"`
//	    Notes string `form:"notes" type:"textarea" description:"Shown to admins"`
//	    Token string `form:"-"`
//	}
//
// Non-zero field values become form defaults.
type StructBuilder struct {
	labeler       func(string) string
	submitName    string
	submitCaption string
	specs         cache.Cache
}

var _ Builder = (*StructBuilder)(nil)

// NewStructBuilder creates a builder with a "save" submit button.
func NewStructBuilder(options ...StructOption) *StructBuilder {
	b := &StructBuilder{
		labeler:       DefaultLabeler,
		submitName:    "save",
		submitCaption: "Save",
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(b)
	}
	if b.specs == nil {
		b.specs = cache.NewMemoryFactory().Create("builder.struct")
	}
	return b
}

type fieldSpec struct {
	index       []int
	name        string
	label       string
	kind        form.FieldType
	required    bool
	description string
	placeholder string
	group       string
	options     []form.Option
}

// Build implements Builder. A nil object only adds the submit button.
func (b *StructBuilder) Build(ctx context.Context, f *form.Form, src Source) error {
	if f == nil {
		return fmt.Errorf("struct builder: form is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	value := reflect.ValueOf(src.Object)
	for value.IsValid() && value.Kind() == reflect.Pointer {
		if value.IsNil() {
			value = reflect.Value{}
			break
		}
		value = value.Elem()
	}

	if value.IsValid() {
		if value.Kind() != reflect.Struct {
			return fmt.Errorf("struct builder: object must be a struct, got %s", value.Kind())
		}
		specs, err := b.specsFor(value.Type())
		if err != nil {
			return err
		}
		if err := b.addFields(ctx, f, src, value, specs); err != nil {
			return err
		}
	}

	if b.submitName != "" {
		if _, err := f.AddSubmit(b.submitName, src.translate(b.submitCaption)); err != nil {
			return fmt.Errorf("struct builder: %w", err)
		}
	}
	return nil
}

func (b *StructBuilder) addFields(ctx context.Context, f *form.Form, src Source, value reflect.Value, specs []fieldSpec) error {
	currentGroup := ""
	for _, spec := range specs {
		if spec.group != currentGroup {
			if spec.group == "" {
				f.EndGroup()
			} else {
				f.AddGroup(src.translate(spec.group), "")
			}
			currentGroup = spec.group
		}

		field := &form.Field{
			Name:        spec.name,
			Label:       src.translate(spec.label),
			Type:        spec.kind,
			Required:    spec.required,
			Description: src.translate(spec.description),
			Placeholder: src.translate(spec.placeholder),
			Options:     src.translateOptions(spec.options),
		}

		loaded, ok, err := src.loadOptions(ctx, spec.name)
		if err != nil {
			return fmt.Errorf("struct builder: load options for %q: %w", spec.name, err)
		}
		if ok {
			field.Options = src.translateOptions(loaded)
			if field.Type == form.FieldText {
				field.Type = form.FieldSelect
			}
		}

		if fv := value.FieldByIndex(spec.index); !fv.IsZero() {
			field.SetValue(fv.Interface())
		}

		if _, err := f.AddField(field); err != nil {
			return fmt.Errorf("struct builder: %w", err)
		}
	}
	if currentGroup != "" {
		f.EndGroup()
	}
	return nil
}

// structLayout pairs parsed specs with their type. Type names are not unique
// (function-local types share PkgPath and Name), so a hit is only reused when
// the type matches.
type structLayout struct {
	typ   reflect.Type
	specs []fieldSpec
}

func (b *StructBuilder) specsFor(t reflect.Type) ([]fieldSpec, error) {
	key := "struct:" + t.String()
	if cached, ok := b.specs.Get(key); ok {
		if layout, ok := cached.(structLayout); ok && layout.typ == t {
			return layout.specs, nil
		}
	}
	specs, err := b.parse(t, nil)
	if err != nil {
		return nil, err
	}
	b.specs.Set(key, structLayout{typ: t, specs: specs}, 0)
	return specs, nil
}

func (b *StructBuilder) parse(t reflect.Type, parent []int) ([]fieldSpec, error) {
	var specs []fieldSpec
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		index := append(append([]int(nil), parent...), i)

		tag := sf.Tag.Get("form")
		if tag == "-" {
			continue
		}
		if sf.Anonymous && tag == "" && sf.Type.Kind() == reflect.Struct {
			nested, err := b.parse(sf.Type, index)
			if err != nil {
				return nil, err
			}
			specs = append(specs, nested...)
			continue
		}

		name, flags, _ := strings.Cut(tag, ",")
		name = strings.TrimSpace(name)
		if name == "" {
			name = lowerFirst(sf.Name)
		}

		spec := fieldSpec{
			index:       index,
			name:        name,
			label:       sf.Tag.Get("label"),
			kind:        form.FieldType(strings.TrimSpace(sf.Tag.Get("type"))),
			description: sf.Tag.Get("description"),
			placeholder: sf.Tag.Get("placeholder"),
			group:       strings.TrimSpace(sf.Tag.Get("group")),
		}
		for _, flag := range strings.Split(flags, ",") {
			if strings.TrimSpace(flag) == "required" {
				spec.required = true
			}
		}
		if spec.label == "" {
			spec.label = b.labeler(sf.Name)
		}
		if spec.kind == "" {
			spec.kind = inferType(sf.Type)
		}
		if raw := sf.Tag.Get("options"); raw != "" {
			opts, err := parseOptions(raw)
			if err != nil {
				return nil, fmt.Errorf("struct builder: field %s: %w", sf.Name, err)
			}
			spec.options = opts
			if sf.Tag.Get("type") == "" {
				spec.kind = form.FieldSelect
			}
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func inferType(t reflect.Type) form.FieldType {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Bool:
		return form.FieldCheckbox
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return form.FieldNumber
	default:
		return form.FieldText
	}
}

// parseOptions reads "value:Label,value2:Label 2". A bare value is its own label.
func parseOptions(raw string) ([]form.Option, error) {
	var out []form.Option
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		value, label, found := strings.Cut(part, ":")
		value = strings.TrimSpace(value)
		if value == "" {
			return nil, fmt.Errorf("invalid option %q", part)
		}
		if !found {
			label = value
		}
		out = append(out, form.Option{Value: value, Label: strings.TrimSpace(label)})
	}
	return out, nil
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
