package options

import "strings"

// Dimension identifies one customizable aspect of a wig build
type Dimension string

const (
	CapSize  Dimension = "capsize"
	Length   Dimension = "length"
	Density  Dimension = "density"
	Lace     Dimension = "lace"
	Texture  Dimension = "texture"
	Color    Dimension = "color"
	Hairline Dimension = "hairline"
	Styling  Dimension = "styling"
	AddOns   Dimension = "addons"
)

// Dimensions lists every dimension in display order
var Dimensions = []Dimension{CapSize, Length, Density, Lace, Texture, Color, Hairline, Styling, AddOns}

// Option values referenced by pricing and selection rules
const (
	OffBlack = "OFF BLACK"
	Natural  = "NATURAL"
	Peak     = "PEAK"
	Lagos    = "LAGOS"
	BabyHair = "BABY HAIR"
	None     = "NONE"
	Bangs    = "BANGS"
	Crimps   = "CRIMPS"
	FlatIron = "FLAT IRON"
	Layers   = "LAYERS"
	Bleach   = "BLEACH"
	Pluck    = "PLUCK"
	BluntCut = "BLUNT CUT"
)

var catalogue = map[Dimension][]string{
	CapSize: {"XXS/XS/S", "S", "M", "L", "XL", "S/M/L"},
	Length:  {`18"`, `20"`, `22"`, `24"`, `26"`, `28"`, `30"`, `32"`, `34"`, `36"`, `40"`},
	Density: {"130%", "150%", "180%", "200%", "250%", "300%", "350%", "400%"},
	Lace:    {"13X6", "13X4", "13X5", "2X6", "4X4", "5X5", "6X6", "7X7", "9X6", "FULL LACE"},
	Texture: {"SILKY", "KINKY", "YAKI"},
	Color: {
		OffBlack, "JET BLACK", "ESPRESSO", "CHESTNUT", "CHOCOLATE", "AUBURN", "COPPER", "GINGER",
		"HONEY BLONDE", "ASH BLONDE", "613 BLONDE", "BURGUNDY", "99J", "PLATINUM", "ROSE GOLD", "SILVER",
	},
	Hairline: {Natural, Peak, Lagos, BabyHair},
	Styling:  {None, Bangs, Crimps, FlatIron, Layers},
	AddOns:   {Bleach, Pluck, BluntCut},
}

var defaults = map[Dimension]string{
	CapSize:  "M",
	Length:   `24"`,
	Density:  "200%",
	Lace:     "13X6",
	Texture:  "SILKY",
	Color:    OffBlack,
	Hairline: Natural,
	Styling:  None,
	AddOns:   "",
}

var labels = map[Dimension]string{
	CapSize:  "CAP",
	Length:   "LENGTH",
	Density:  "DENSITY",
	Lace:     "LACE",
	Texture:  "TEXTURE",
	Color:    "COLOR",
	Hairline: "HAIRLINE",
	Styling:  "STYLING",
	AddOns:   "ADD-ONS",
}

var (
	flexibleCapSizes = map[string]bool{"XXS/XS/S": true, "S/M/L": true}
	longLengths      = map[string]bool{`30"`: true, `32"`: true, `34"`: true, `36"`: true, `40"`: true}
)

// ParseDimension resolves a dimension slug, case-insensitively
func ParseDimension(s string) (Dimension, bool) {
	d := Dimension(strings.ToLower(strings.TrimSpace(s)))
	_, ok := catalogue[d]
	return d, ok
}

// Label returns the display name used in summaries
func (d Dimension) Label() string {
	return labels[d]
}

// Multi reports whether the dimension accepts several values at once
func (d Dimension) Multi() bool {
	return d == Hairline || d == Styling || d == AddOns
}

// Values returns the option list for a dimension in catalogue order
func Values(d Dimension) []string {
	out := make([]string, len(catalogue[d]))
	copy(out, catalogue[d])
	return out
}

// DefaultValue returns the default selection of a dimension as text
func DefaultValue(d Dimension) string {
	return defaults[d]
}

// Valid reports whether value is a known option of d
func Valid(d Dimension, value string) bool {
	return indexOf(d, value) >= 0
}

// IsFlexibleCapSize reports whether the cap size carries the flexible-fit surcharge
func IsFlexibleCapSize(capSize string) bool {
	return flexibleCapSizes[capSize]
}

// IsLongLength reports whether the length is 30" or longer
func IsLongLength(length string) bool {
	return longLengths[length]
}

func indexOf(d Dimension, value string) int {
	for i, v := range catalogue[d] {
		if v == value {
			return i
		}
	}
	return -1
}
