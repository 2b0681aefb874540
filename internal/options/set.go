package options

import (
	"sort"
	"strings"
)

// Set is a multi-select value kept de-duplicated and in catalogue order.
// Values outside the catalogue sort after known ones, in insertion order.
type Set []string

// NewSet builds a canonical set for dimension d
func NewSet(d Dimension, values ...string) Set {
	seen := make(map[string]bool, len(values))
	out := make(Set, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return rank(d, out[i]) < rank(d, out[j])
	})
	return out
}

// ParseSet reads the comma-joined form used by stored selections
func ParseSet(d Dimension, s string) Set {
	if strings.TrimSpace(s) == "" {
		return Set{}
	}
	return NewSet(d, strings.Split(s, ",")...)
}

// Has reports membership
func (s Set) Has(v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

// String joins the set with commas
func (s Set) String() string {
	return strings.Join(s, ",")
}

// Without returns a copy of s with v removed
func (s Set) Without(v string) Set {
	out := make(Set, 0, len(s))
	for _, x := range s {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

// Equal compares two canonical sets
func (s Set) Equal(o Set) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

func (s Set) clone() Set {
	out := make(Set, len(s))
	copy(out, s)
	return out
}

func rank(d Dimension, v string) int {
	if i := indexOf(d, v); i >= 0 {
		return i
	}
	return len(catalogue[d])
}
