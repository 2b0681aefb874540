package selection

import (
	"strings"

	"github.com/ashendes/wigshop/internal/options"
	"github.com/ashendes/wigshop/internal/routing"
)

// scope is one storage namespace. Stored names are kept compatible with
// selections saved by earlier storefront versions.
type scope string

const (
	scopeSelected          scope = "selected"
	scopeEditSelected      scope = "editSelected"
	scopeCustomizeSelected scope = "customizeSelected"
	// scopeStash holds the build namespace while an edit or customize
	// session mirrors into it
	scopeStash scope = "buildStash"
)

// stashMarker exists while a stash is held, even when the build namespace was empty
const stashMarker = string(scopeStash) + "Held"

var fieldNames = map[options.Dimension]string{
	options.CapSize:  "CapSize",
	options.Length:   "Length",
	options.Density:  "Density",
	options.Lace:     "Lace",
	options.Texture:  "Texture",
	options.Color:    "Color",
	options.Hairline: "Hairline",
	options.Styling:  "Styling",
	options.AddOns:   "AddOns",
}

func (s scope) prefix() string {
	return string(s)
}

func (s scope) field(d options.Dimension) string {
	return string(s) + fieldNames[d]
}

func (s scope) price(d options.Dimension) string {
	return string(s) + fieldNames[d] + "Price"
}

func (s scope) ref() string {
	return string(s) + "Ref"
}

// rename moves key from scope s into scope to, keeping the field suffix
func (s scope) rename(key string, to scope) string {
	return string(to) + strings.TrimPrefix(key, string(s))
}

// primaryScope is the namespace a mode loads from
func primaryScope(m routing.Mode) scope {
	switch m {
	case routing.Edit:
		return scopeEditSelected
	case routing.Customize:
		return scopeCustomizeSelected
	}
	return scopeSelected
}

// writeScopes lists every namespace a write in mode m lands in
func writeScopes(m routing.Mode) []scope {
	switch m {
	case routing.Edit:
		return []scope{scopeSelected, scopeEditSelected}
	case routing.Customize:
		return []scope{scopeSelected, scopeCustomizeSelected}
	}
	return []scope{scopeSelected}
}
