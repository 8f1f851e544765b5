package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-formcontrol/pkg/form"
)

// OutputFormat controls how collected values are serialised by Encode.
type OutputFormat string

const (
	// OutputFormatJSON emits a JSON object.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits application/x-www-form-urlencoded.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits one "label: value" line per field.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Option configures a Filler.
type Option func(*Filler)

// WithPromptDriver overrides the survey driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(f *Filler) {
		if driver != nil {
			f.driver = driver
		}
	}
}

// WithRequiredMessage sets the message shown when a required answer is blank.
func WithRequiredMessage(message string) Option {
	return func(f *Filler) {
		if strings.TrimSpace(message) != "" {
			f.requiredMessage = message
		}
	}
}

// Filler asks one question per field and returns the answers as submitted
// values.
type Filler struct {
	driver          PromptDriver
	requiredMessage string
}

// NewFiller creates a Filler backed by a SurveyDriver unless overridden.
func NewFiller(options ...Option) *Filler {
	f := &Filler{requiredMessage: "This field is required."}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}
	if f.driver == nil {
		f.driver = NewSurveyDriver(nil)
	}
	return f
}

// Fill prompts for every visible field of target. Hidden fields keep their
// current value and submit buttons are skipped. Existing errors are shown
// before the prompts so a second pass can correct them.
func (fl *Filler) Fill(ctx context.Context, target *form.Form) (form.Values, error) {
	if target == nil {
		return nil, errors.New("tui: form is nil")
	}
	for _, message := range target.OwnErrors() {
		if err := fl.driver.Info(ctx, "! "+message); err != nil {
			return nil, err
		}
	}

	values := form.Values{}
	for _, field := range target.Fields() {
		switch field.Type {
		case form.FieldSubmit:
			continue
		case form.FieldHidden:
			values[field.Name] = field.Value()
			continue
		}
		for _, message := range field.Errors() {
			if err := fl.driver.Info(ctx, fmt.Sprintf("! %s: %s", field.Label, message)); err != nil {
				return nil, err
			}
		}
		value, err := fl.ask(ctx, field)
		if err != nil {
			return nil, fmt.Errorf("tui: field %q: %w", field.Name, err)
		}
		values[field.Name] = value
	}
	return values, nil
}

func (fl *Filler) ask(ctx context.Context, field *form.Field) (any, error) {
	message := field.Label
	if message == "" {
		message = field.Name
	}
	if field.Required {
		message += " *"
	}

	switch field.Type {
	case form.FieldCheckbox:
		return fl.driver.Confirm(ctx, ConfirmConfig{
			Message: message,
			Default: field.Checked(),
			Help:    field.Description,
		})
	case form.FieldSelect:
		if len(field.Options) == 0 {
			return "", nil
		}
		labels := make([]string, 0, len(field.Options))
		current := 0
		for i, opt := range field.Options {
			labels = append(labels, opt.Label)
			if opt.Value == field.StringValue() {
				current = i
			}
		}
		idx, err := fl.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      labels,
			DefaultIndex: current,
			Help:         field.Description,
		})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(field.Options) {
			return nil, fmt.Errorf("selection %d out of range", idx)
		}
		return field.Options[idx].Value, nil
	case form.FieldTextArea:
		return fl.driver.TextArea(ctx, TextAreaConfig{
			Message: message,
			Default: field.StringValue(),
			Help:    field.Description,
		})
	case form.FieldPassword:
		return fl.driver.Password(ctx, InputConfig{
			Message:   message,
			Help:      field.Description,
			Validator: fl.validator(field),
		})
	default:
		return fl.driver.Input(ctx, InputConfig{
			Message:   message,
			Default:   field.StringValue(),
			Help:      field.Description,
			Validator: fl.validator(field),
		})
	}
}

func (fl *Filler) validator(field *form.Field) func(string) error {
	return func(answer string) error {
		answer = strings.TrimSpace(answer)
		if answer == "" {
			if field.Required {
				return errors.New(fl.requiredMessage)
			}
			return nil
		}
		if field.Type == form.FieldNumber {
			if _, err := strconv.ParseFloat(answer, 64); err != nil {
				return errors.New("Please enter a valid number.")
			}
		}
		return nil
	}
}

// Encode serialises values for output. Keys are sorted for stable output.
func Encode(values form.Values, format OutputFormat) ([]byte, error) {
	switch format {
	case "", OutputFormatJSON:
		return json.MarshalIndent(values, "", "  ")
	case OutputFormatFormURLEncoded:
		encoded := url.Values{}
		for key, value := range values {
			encoded.Set(key, stringify(value))
		}
		return []byte(encoded.Encode()), nil
	case OutputFormatPrettyText:
		keys := make([]string, 0, len(values))
		for key := range values {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		var b strings.Builder
		for _, key := range keys {
			fmt.Fprintf(&b, "%s: %s\n", key, stringify(values[key]))
		}
		return []byte(b.String()), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
