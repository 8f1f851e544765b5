package gotemplate

import (
	"strings"

	"github.com/flosch/pongo2/v6"
)

func registerDefaultFilters() {
	if !pongo2.FilterExists("trim") {
		_ = pongo2.RegisterFilter("trim", filterTrim)
	}
	if !pongo2.FilterExists("classlist") {
		_ = pongo2.RegisterFilter("classlist", filterClassList)
	}
}

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

// filterClassList joins a base class with an optional extra class, collapsing
// blanks: {{ "btn"|classlist:link.class }}.
func filterClassList(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	parts := strings.Fields(in.String())
	if param != nil && !param.IsNil() {
		parts = append(parts, strings.Fields(param.String())...)
	}
	return pongo2.AsValue(strings.Join(parts, " ")), nil
}
