package options

import "fmt"

// ConfigurationState holds the current selections for one wig build
type ConfigurationState struct {
	CapSize  string `json:"capSize"`
	Length   string `json:"length"`
	Density  string `json:"density"`
	Lace     string `json:"lace"`
	Texture  string `json:"texture"`
	Color    string `json:"color"`
	Hairline Set    `json:"hairline"`
	Styling  Set    `json:"styling"`
	AddOns   Set    `json:"addOns"`
}

// ValidationError reports an option value outside a dimension's catalogue
type ValidationError struct {
	Dimension Dimension
	Value     string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("unknown %s option %q", e.Dimension, e.Value)
}

// Default returns a build with every dimension at its default
func Default() ConfigurationState {
	return ConfigurationState{
		CapSize:  defaults[CapSize],
		Length:   defaults[Length],
		Density:  defaults[Density],
		Lace:     defaults[Lace],
		Texture:  defaults[Texture],
		Color:    defaults[Color],
		Hairline: Set{Natural},
		Styling:  Set{None},
		AddOns:   Set{},
	}
}

// Get returns the selection of d as text; multi-select values are comma-joined
func (s ConfigurationState) Get(d Dimension) string {
	switch d {
	case CapSize:
		return s.CapSize
	case Length:
		return s.Length
	case Density:
		return s.Density
	case Lace:
		return s.Lace
	case Texture:
		return s.Texture
	case Color:
		return s.Color
	case Hairline:
		return s.Hairline.String()
	case Styling:
		return s.Styling.String()
	case AddOns:
		return s.AddOns.String()
	}
	return ""
}

// Assign replaces the selection of d from its text form, without validation
func (s *ConfigurationState) Assign(d Dimension, text string) {
	switch d {
	case CapSize:
		s.CapSize = text
	case Length:
		s.Length = text
	case Density:
		s.Density = text
	case Lace:
		s.Lace = text
	case Texture:
		s.Texture = text
	case Color:
		s.Color = text
	case Hairline:
		s.Hairline = ParseSet(d, text)
	case Styling:
		s.Styling = ParseSet(d, text)
	case AddOns:
		s.AddOns = ParseSet(d, text)
	}
	s.Normalize()
}

// Apply performs a user selection: single-select dimensions take the value,
// multi-select dimensions toggle it.
func (s *ConfigurationState) Apply(d Dimension, value string) error {
	if !Valid(d, value) {
		return &ValidationError{Dimension: d, Value: value}
	}
	if d.Multi() {
		s.Toggle(d, value)
		return nil
	}
	s.Assign(d, value)
	return nil
}

// Toggle flips membership of value in a multi-select dimension.
// NONE is exclusive within styling; empty hairline and styling fall back to their defaults.
func (s *ConfigurationState) Toggle(d Dimension, value string) {
	switch d {
	case Hairline:
		s.Hairline = toggle(d, s.Hairline, value)
	case Styling:
		if value == None {
			s.Styling = Set{None}
			return
		}
		s.Styling = toggle(d, s.Styling.Without(None), value)
	case AddOns:
		s.AddOns = toggle(d, s.AddOns, value)
	}
	s.Normalize()
}

// Validate checks every dimension against its catalogue
func (s ConfigurationState) Validate() error {
	for _, d := range Dimensions {
		if d.Multi() {
			for _, v := range s.set(d) {
				if !Valid(d, v) {
					return &ValidationError{Dimension: d, Value: v}
				}
			}
			continue
		}
		if v := s.Get(d); !Valid(d, v) {
			return &ValidationError{Dimension: d, Value: v}
		}
	}
	return nil
}

// Sanitize replaces unknown values with defaults and drops unknown set members.
// It returns the dimensions that had to be repaired.
func (s *ConfigurationState) Sanitize() []Dimension {
	var repaired []Dimension
	for _, d := range Dimensions {
		if d.Multi() {
			set := s.set(d)
			kept := make(Set, 0, len(set))
			for _, v := range set {
				if Valid(d, v) {
					kept = append(kept, v)
				}
			}
			if len(kept) != len(set) {
				repaired = append(repaired, d)
				s.Assign(d, kept.String())
			}
			continue
		}
		if !Valid(d, s.Get(d)) {
			repaired = append(repaired, d)
			s.Assign(d, defaults[d])
		}
	}
	s.Normalize()
	return repaired
}

// IsDefault reports whether d is still at its default selection
func (s ConfigurationState) IsDefault(d Dimension) bool {
	return s.Get(d) == Default().Get(d)
}

// Equal compares two states dimension by dimension
func (s ConfigurationState) Equal(o ConfigurationState) bool {
	for _, d := range Dimensions {
		if s.Get(d) != o.Get(d) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy
func (s ConfigurationState) Clone() ConfigurationState {
	c := s
	c.Hairline = s.Hairline.clone()
	c.Styling = s.Styling.clone()
	c.AddOns = s.AddOns.clone()
	return c
}

func (s ConfigurationState) set(d Dimension) Set {
	switch d {
	case Hairline:
		return s.Hairline
	case Styling:
		return s.Styling
	case AddOns:
		return s.AddOns
	}
	return nil
}

// Normalize puts the multi-select sets in canonical form and restores empty
// hairline and styling to their defaults
func (s *ConfigurationState) Normalize() {
	s.Hairline = NewSet(Hairline, s.Hairline...)
	if len(s.Hairline) == 0 {
		s.Hairline = Set{Natural}
	}
	s.Styling = NewSet(Styling, s.Styling...)
	if len(s.Styling) > 1 && s.Styling.Has(None) {
		s.Styling = s.Styling.Without(None)
	}
	if len(s.Styling) == 0 {
		s.Styling = Set{None}
	}
	s.AddOns = NewSet(AddOns, s.AddOns...)
}

func toggle(d Dimension, set Set, value string) Set {
	if set.Has(value) {
		return set.Without(value)
	}
	return NewSet(d, append(set.clone(), value)...)
}
