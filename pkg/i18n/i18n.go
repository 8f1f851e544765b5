// Package i18n defines the translator seam used for control captions and
// builder labels.
package i18n

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingTranslation is returned by Catalog when a key has no entry.
var ErrMissingTranslation = errors.New("i18n: missing translation")

// Translator resolves a message key for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// TranslatorFunc adapts a function into a Translator.
type TranslatorFunc func(locale, key string, args ...any) (string, error)

// Translate calls the underlying function.
func (fn TranslatorFunc) Translate(locale, key string, args ...any) (string, error) {
	return fn(locale, key, args...)
}

// Catalog is an in-memory translator keyed by locale then message key.
// Messages are fmt format strings when args are supplied.
type Catalog map[string]map[string]string

// Translate implements Translator.
func (c Catalog) Translate(locale, key string, args ...any) (string, error) {
	messages, ok := c[locale]
	if !ok {
		return "", fmt.Errorf("%w: locale %q", ErrMissingTranslation, locale)
	}
	msg, ok := messages[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrMissingTranslation, key)
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...), nil
	}
	return msg, nil
}

// Translate resolves key through t, falling back to the key itself when the
// translator is nil, fails, or returns a blank string.
func Translate(t Translator, locale, key string, args ...any) string {
	if strings.TrimSpace(key) == "" || t == nil {
		return key
	}
	msg, err := t.Translate(locale, key, args...)
	if err != nil || strings.TrimSpace(msg) == "" {
		return key
	}
	return msg
}
