package pricing

import (
	"strings"

	"github.com/ashendes/wigshop/internal/options"
)

// Schedule names accepted by configuration
const (
	ScheduleCheckout   = "checkout"
	ScheduleOptionPage = "option_page"
)

// Schedule is one complete set of price lookup tables.
// Unknown option keys price at 0 in every table.
type Schedule struct {
	Name string

	CapSize map[string]int
	Length  map[string]int
	Density map[string]int
	Lace    map[string]int
	Texture map[string]int
	Color   map[string]int
	// LongLengthColor is added to a non-default color when the length is 30" or longer
	LongLengthColor int

	Hairline map[string]int
	// LagosPeak applies when LAGOS and PEAK are selected together
	LagosPeak int

	Styling map[string]int
	// BangsCombined replaces the BANGS price when BANGS is paired with another style
	BangsCombined int

	AddOns map[string]int
}

var (
	capSizePrices = map[string]int{
		"XXS/XS/S": 40,
		"S":        0,
		"M":        0,
		"L":        0,
		"XL":       0,
		"S/M/L":    40,
	}

	lacePrices = map[string]int{
		"13X6":      0,
		"13X4":      -20,
		"13X5":      0,
		"2X6":       -40,
		"4X4":       -40,
		"5X5":       -20,
		"6X6":       60,
		"7X7":       100,
		"9X6":       80,
		"FULL LACE": 240,
	}

	texturePrices = map[string]int{
		"SILKY": 0,
		"KINKY": 0,
		"YAKI":  0,
	}

	hairlinePrices = map[string]int{
		options.Natural:  0,
		options.Peak:     40,
		options.Lagos:    40,
		options.BabyHair: 40,
	}

	addOnPrices = map[string]int{
		options.Bleach:   40,
		options.Pluck:    40,
		options.BluntCut: 20,
	}

	colorPrices = func() map[string]int {
		m := make(map[string]int)
		for _, c := range options.Values(options.Color) {
			m[c] = 100
		}
		m[options.OffBlack] = 0
		return m
	}()
)

// Checkout is the authoritative schedule used for cart and checkout totals
var Checkout = &Schedule{
	Name:    ScheduleCheckout,
	CapSize: capSizePrices,
	Length: map[string]int{
		`18"`: 0, `20"`: 0, `22"`: 0, `24"`: 0, `26"`: 0, `28"`: 0,
		`30"`: 150, `32"`: 200, `34"`: 250, `36"`: 300, `40"`: 400,
	},
	Density: map[string]int{
		"130%": -60, "150%": -40, "180%": -20, "200%": 0,
		"250%": 80, "300%": 160, "350%": 240, "400%": 320,
	},
	Lace:            lacePrices,
	Texture:         texturePrices,
	Color:           colorPrices,
	LongLengthColor: 40,
	Hairline:        hairlinePrices,
	LagosPeak:       -20,
	Styling: map[string]int{
		options.None: 0, options.Bangs: 40, options.Crimps: 60, options.FlatIron: 60, options.Layers: 60,
	},
	BangsCombined: 20,
	AddOns:        addOnPrices,
}

// OptionPage reproduces the per-step option page tables for legacy parity
var OptionPage = &Schedule{
	Name:    ScheduleOptionPage,
	CapSize: capSizePrices,
	Length: map[string]int{
		`18"`: 0, `20"`: 50, `22"`: 100, `24"`: 150, `26"`: 200, `28"`: 250,
		`30"`: 300, `32"`: 350, `34"`: 400, `36"`: 450, `40"`: 550,
	},
	Density: map[string]int{
		"150%": 0, "200%": 0, "250%": 50, "300%": 100,
	},
	Lace:            lacePrices,
	Texture:         texturePrices,
	Color:           colorPrices,
	LongLengthColor: 40,
	Hairline:        hairlinePrices,
	LagosPeak:       -20,
	Styling: map[string]int{
		options.None: 0, options.Bangs: 40, options.Crimps: 140, options.FlatIron: 100, options.Layers: 180,
	},
	BangsCombined: 20,
	AddOns:        addOnPrices,
}

// ScheduleByName resolves a configured schedule name; empty means Checkout
func ScheduleByName(name string) (*Schedule, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ScheduleCheckout:
		return Checkout, true
	case ScheduleOptionPage:
		return OptionPage, true
	}
	return nil, false
}
