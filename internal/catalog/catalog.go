// Package catalog lists the ready-made wigs customize mode starts from.
package catalog

import (
	"errors"

	"github.com/ashendes/wigshop/internal/options"
)

var ErrPresetNotFound = errors.New("preset not found")

// Preset is a named, fully configured unit
type Preset struct {
	ID    string                     `json:"id"`
	Name  string                     `json:"name"`
	State options.ConfigurationState `json:"state"`
}

var presets = []Preset{
	preset("jet-black-30", "Jet Black 30\" Silky", map[options.Dimension]string{
		options.Length: `30"`,
		options.Color:  "JET BLACK",
	}),
	preset("kinky-natural-22", "Kinky Straight 22\"", map[options.Dimension]string{
		options.Length:  `22"`,
		options.Texture: "KINKY",
		options.Density: "250%",
	}),
	preset("lagos-peak-26", "Lagos Peak Honey Blonde", map[options.Dimension]string{
		options.Length:   `26"`,
		options.Color:    "HONEY BLONDE",
		options.Hairline: "LAGOS,PEAK",
		options.Lace:     "13X4",
	}),
	preset("silk-press-24", "Silk Press Bob With Bangs", map[options.Dimension]string{
		options.Styling: "BANGS,FLAT IRON",
		options.AddOns:  "PLUCK,BLUNT CUT",
	}),
	preset("full-lace-40", "Full Lace 40\" Yaki", map[options.Dimension]string{
		options.CapSize: "S/M/L",
		options.Length:  `40"`,
		options.Texture: "YAKI",
		options.Lace:    "FULL LACE",
		options.Density: "300%",
	}),
}

func preset(id, name string, values map[options.Dimension]string) Preset {
	state := options.Default()
	for _, d := range options.Dimensions {
		if v, ok := values[d]; ok {
			state.Assign(d, v)
		}
	}
	return Preset{ID: id, Name: name, State: state}
}

// List returns every preset in display order
func List() []Preset {
	out := make([]Preset, len(presets))
	for i, p := range presets {
		p.State = p.State.Clone()
		out[i] = p
	}
	return out
}

// Get finds a preset by id
func Get(id string) (Preset, error) {
	for _, p := range presets {
		if p.ID == id {
			p.State = p.State.Clone()
			return p, nil
		}
	}
	return Preset{}, ErrPresetNotFound
}
