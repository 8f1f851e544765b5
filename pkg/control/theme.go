package control

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-formcontrol/pkg/config"
)

// styleTokenPrefix marks theme tokens that provide card styles, e.g. a
// "formcontrol.card" token becomes the "card" style slot.
const styleTokenPrefix = "formcontrol."

type themeView struct {
	Name    string
	Variant string
	Tokens  map[string]string
	CSSVars string
	Styles  config.Styles
}

// resolveTheme selects the configured theme and merges its variant tokens
// over the base manifest tokens.
func (c *FormControl) resolveTheme() (themeView, error) {
	if c.themeSelector == nil {
		return themeView{}, nil
	}
	selection, err := c.themeSelector.Select(c.themeName, c.themeVariant)
	if err != nil {
		return themeView{}, fmt.Errorf("control: select theme %q: %w", c.themeName, err)
	}
	if selection == nil {
		return themeView{}, nil
	}

	view := themeView{
		Name:    selection.Theme,
		Variant: selection.Variant,
		Tokens:  map[string]string{},
		Styles:  config.Styles{},
	}
	if manifest := selection.Manifest; manifest != nil {
		for key, value := range manifest.Tokens {
			view.Tokens[key] = value
		}
		if variant, ok := manifest.Variants[selection.Variant]; ok {
			for key, value := range variant.Tokens {
				view.Tokens[key] = value
			}
		}
	}

	vars := make(map[string]string, len(view.Tokens))
	for key, value := range view.Tokens {
		if slot, ok := strings.CutPrefix(key, styleTokenPrefix); ok {
			view.Styles[slot] = value
			continue
		}
		vars["--"+strings.ReplaceAll(key, ".", "-")] = value
	}
	view.CSSVars = cssVarsStyle(vars)
	return view, nil
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+vars[key])
	}
	return strings.Join(parts, "; ")
}
