package builder

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formcontrol/pkg/form"
)

const openAPIExtension = "x-formcontrol"

// OpenAPIBuilder builds fields from the request body schema of an OpenAPI 3
// operation. Properties are emitted in `x-formcontrol.order` order, then
// alphabetically. The extension may also carry `widget`, `placeholder` and
// `group` hints.
type OpenAPIBuilder struct {
	document    []byte
	operationID string
	labeler     func(string) string
	submitName  string
	submitLabel string
}

var _ Builder = (*OpenAPIBuilder)(nil)

// OpenAPIOption configures an OpenAPIBuilder.
type OpenAPIOption func(*OpenAPIBuilder)

// WithOpenAPILabeler overrides the label derived for properties without a title.
func WithOpenAPILabeler(labeler func(string) string) OpenAPIOption {
	return func(b *OpenAPIBuilder) {
		if labeler != nil {
			b.labeler = labeler
		}
	}
}

// WithOpenAPISubmit sets the submit button. The operation summary, when
// present, replaces the caption. An empty name disables the button.
func WithOpenAPISubmit(name, caption string) OpenAPIOption {
	return func(b *OpenAPIBuilder) {
		b.submitName = strings.TrimSpace(name)
		b.submitLabel = caption
	}
}

// NewOpenAPIBuilder creates a builder for operationID inside the raw
// JSON/YAML document. Operations without an id are addressed as
// "<method>:<path>", e.g. "post:/users".
func NewOpenAPIBuilder(document []byte, operationID string, options ...OpenAPIOption) *OpenAPIBuilder {
	b := &OpenAPIBuilder{
		document:    document,
		operationID: strings.TrimSpace(operationID),
		labeler:     DefaultLabeler,
		submitName:  "save",
		submitLabel: "Save",
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(b)
	}
	return b
}

// Build implements Builder. Source.Object is ignored; translator and options
// loaders apply as for StructBuilder.
func (b *OpenAPIBuilder) Build(ctx context.Context, f *form.Form, src Source) error {
	if f == nil {
		return errors.New("openapi builder: form is nil")
	}
	if len(b.document) == 0 {
		return errors.New("openapi builder: document payload is empty")
	}
	if b.operationID == "" {
		return errors.New("openapi builder: operation id is required")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(b.document)
	if err != nil {
		return fmt.Errorf("openapi builder: load document: %w", err)
	}

	op := findOperation(spec, b.operationID)
	if op == nil {
		return fmt.Errorf("openapi builder: operation %q not found", b.operationID)
	}

	schema := requestSchema(op)
	if schema == nil {
		return fmt.Errorf("openapi builder: operation %q has no request body schema", b.operationID)
	}

	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	currentGroup := ""
	for _, name := range orderedProperties(schema.Properties) {
		ref := schema.Properties[name]
		if ref == nil || ref.Value == nil || ref.Value.ReadOnly {
			continue
		}
		prop := ref.Value
		hints := extensionHints(prop.Extensions)

		if group := hints["group"]; group != currentGroup {
			if group == "" {
				f.EndGroup()
			} else {
				f.AddGroup(src.translate(group), "")
			}
			currentGroup = group
		}

		label := prop.Title
		if label == "" {
			label = b.labeler(name)
		}
		field := &form.Field{
			Name:        name,
			Label:       src.translate(label),
			Type:        schemaFieldType(prop, hints["widget"]),
			Required:    required[name],
			Description: src.translate(prop.Description),
			Placeholder: src.translate(hints["placeholder"]),
		}
		if len(prop.Enum) > 0 {
			field.Options = src.translateOptions(enumOptions(prop.Enum))
		}
		loaded, ok, err := src.loadOptions(ctx, name)
		if err != nil {
			return fmt.Errorf("openapi builder: load options for %q: %w", name, err)
		}
		if ok {
			field.Type = form.FieldSelect
			field.Options = src.translateOptions(loaded)
		}
		if prop.Default != nil {
			field.SetValue(prop.Default)
		}
		if _, err := f.AddField(field); err != nil {
			return fmt.Errorf("openapi builder: %w", err)
		}
	}
	if currentGroup != "" {
		f.EndGroup()
	}

	if b.submitName != "" {
		caption := b.submitLabel
		if op.Summary != "" {
			caption = op.Summary
		}
		if _, err := f.AddSubmit(b.submitName, src.translate(caption)); err != nil {
			return fmt.Errorf("openapi builder: %w", err)
		}
	}
	return nil
}

func findOperation(spec *openapi3.T, id string) *openapi3.Operation {
	if spec == nil || spec.Paths == nil {
		return nil
	}
	paths := spec.Paths.Map()
	keys := make([]string, 0, len(paths))
	for path := range paths {
		keys = append(keys, path)
	}
	sort.Strings(keys)
	for _, path := range keys {
		item := paths[path]
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil {
				continue
			}
			opID := op.OperationID
			if opID == "" {
				opID = strings.ToLower(method) + ":" + path
			}
			if opID == id {
				return op
			}
		}
	}
	return nil
}

func requestSchema(op *openapi3.Operation) *openapi3.Schema {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	content := op.RequestBody.Value.Content
	for _, mediaType := range []string{"application/x-www-form-urlencoded", "multipart/form-data", "application/json"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil && mt.Schema.Value != nil {
			return mt.Schema.Value
		}
	}
	for _, mt := range content {
		if mt != nil && mt.Schema != nil && mt.Schema.Value != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func orderedProperties(props openapi3.Schemas) []string {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	order := func(name string) int {
		ref := props[name]
		if ref == nil || ref.Value == nil {
			return 1 << 30
		}
		if raw, ok := extensionHints(ref.Value.Extensions)["order"]; ok {
			if n, err := strconv.Atoi(raw); err == nil {
				return n
			}
		}
		return 1 << 30
	}
	sort.SliceStable(names, func(i, j int) bool {
		oi, oj := order(names[i]), order(names[j])
		if oi != oj {
			return oi < oj
		}
		return names[i] < names[j]
	})
	return names
}

func extensionHints(ext map[string]any) map[string]string {
	raw, ok := ext[openAPIExtension].(map[string]any)
	if !ok {
		return map[string]string{}
	}
	out := make(map[string]string, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case string:
			out[key] = strings.TrimSpace(v)
		case float64:
			out[key] = strconv.FormatFloat(v, 'f', -1, 64)
		case int:
			out[key] = strconv.Itoa(v)
		case bool:
			out[key] = strconv.FormatBool(v)
		}
	}
	return out
}

func schemaFieldType(schema *openapi3.Schema, widget string) form.FieldType {
	if widget != "" {
		return form.FieldType(widget)
	}
	if len(schema.Enum) > 0 {
		return form.FieldSelect
	}
	switch {
	case schema.Type == nil:
		return form.FieldText
	case schema.Type.Is("boolean"):
		return form.FieldCheckbox
	case schema.Type.Is("integer"), schema.Type.Is("number"):
		return form.FieldNumber
	}
	switch schema.Format {
	case "email":
		return form.FieldEmail
	case "password":
		return form.FieldPassword
	}
	if schema.MaxLength != nil && *schema.MaxLength > 255 {
		return form.FieldTextArea
	}
	return form.FieldText
}

func enumOptions(values []any) []form.Option {
	out := make([]form.Option, 0, len(values))
	for _, value := range values {
		s := fmt.Sprint(value)
		out = append(out, form.Option{Value: s, Label: s})
	}
	return out
}
