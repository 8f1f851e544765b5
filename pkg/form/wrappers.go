package form

// Wrappers maps a form section (form, error, group, controls, pair, control,
// label, hidden) to its keyed wrapper hints. Keys are either element slots
// ("container", "label", "description", "item", ...) or state modifiers
// prefixed with a dot (".required", ".error", ".text", ...). Modifiers hold a
// class name added to the section container when the state applies.
type Wrappers map[string]map[string]string

// Section names understood by WrapperRenderer.
const (
	SectionForm     = "form"
	SectionError    = "error"
	SectionGroup    = "group"
	SectionControls = "controls"
	SectionPair     = "pair"
	SectionControl  = "control"
	SectionLabel    = "label"
	SectionHidden   = "hidden"
)

var defaultWrappers = Wrappers{
	SectionForm: {
		"container": "",
	},
	SectionError: {
		"container": `div class="row mb-3"`,
		"item":      `div class="col-12 text-danger"`,
	},
	SectionGroup: {
		"container":   "",
		"label":       `p class="h3 modal-header"`,
		"description": `p class="pl-3 lead"`,
	},
	SectionControls: {
		"container": "",
	},
	SectionPair: {
		"container": `div class="form-group row"`,
		".required": "",
		".optional": "",
		".odd":      "",
		".error":    "",
	},
	SectionControl: {
		"container":      `div class="col-lg-7 col-md-9 col-sm-12"`,
		".odd":           "",
		"description":    `small class="form-text text-muted"`,
		"requiredsuffix": "",
		"errorcontainer": `div class="col-12 badge badge-danger"`,
		"erroritem":      "",
		".required":      "",
		".text":          "",
		".password":      "",
		".file":          "",
		".email":         "",
		".number":        "",
		".submit":        "",
		".image":         "",
		".button":        "",
	},
	SectionLabel: {
		"container":      `div class="col-lg-5 col-md-3 text-md-right col-sm-12"`,
		"suffix":         "",
		"requiredsuffix": "*",
	},
	SectionHidden: {
		"container": "",
	},
}

// DefaultWrappers returns a fresh copy of the Bootstrap styled wrapper map.
func DefaultWrappers() Wrappers {
	return defaultWrappers.Clone()
}

// Get returns the hint stored under section/key or "" when either is missing.
func (w Wrappers) Get(section, key string) string {
	if w == nil {
		return ""
	}
	return w[section][key]
}

// Clone deep-copies the wrapper map so callers can mutate the result freely.
func (w Wrappers) Clone() Wrappers {
	if w == nil {
		return nil
	}
	out := make(Wrappers, len(w))
	for section, keys := range w {
		inner := make(map[string]string, len(keys))
		for key, value := range keys {
			inner[key] = value
		}
		out[section] = inner
	}
	return out
}
