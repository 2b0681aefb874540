package pricing

import (
	"strings"

	"github.com/ashendes/wigshop/internal/options"
)

const lagosPeakLabel = "LAGOS+PEAK HAIRLINE"

// Summary renders the non-default selections as one display line.
// A single differing dimension is spelled out with its label.
func Summary(state options.ConfigurationState) string {
	var changed []options.Dimension
	for _, d := range options.Dimensions {
		if !state.IsDefault(d) {
			changed = append(changed, d)
		}
	}

	switch len(changed) {
	case 0:
		return ""
	case 1:
		return fullName(changed[0], state)
	}

	parts := make([]string, 0, len(changed))
	for _, d := range changed {
		parts = append(parts, shortName(d, state))
	}
	return strings.Join(parts, ", ")
}

func shortName(d options.Dimension, state options.ConfigurationState) string {
	switch d {
	case options.Hairline:
		return hairlineName(state.Hairline)
	case options.Styling:
		return strings.Join(state.Styling, " + ")
	case options.AddOns:
		return strings.Join(state.AddOns, " + ")
	}
	return state.Get(d)
}

func fullName(d options.Dimension, state options.ConfigurationState) string {
	name := shortName(d, state)
	if strings.Contains(name, lagosPeakLabel) {
		return name
	}
	return name + " " + d.Label()
}

func hairlineName(set options.Set) string {
	if !(set.Has(options.Lagos) && set.Has(options.Peak)) {
		return strings.Join(set, " + ")
	}
	parts := []string{lagosPeakLabel}
	for _, v := range set {
		if v != options.Lagos && v != options.Peak {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " + ")
}
