// Package routing maps configuration sessions and their steps to paths.
package routing

import (
	"errors"
	"net/url"
	"strings"

	"github.com/ashendes/wigshop/internal/options"
)

// Mode identifies which of the three independent configuration sessions is active
type Mode string

const (
	Build     Mode = "build"
	Edit      Mode = "edit"
	Customize Mode = "customize"
)

var Modes = []Mode{Build, Edit, Customize}

var ErrUnknownMode = errors.New("unknown configuration mode")

func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == strings.ToLower(s) {
			return m, nil
		}
	}
	return "", ErrUnknownMode
}

// NeedsRef reports whether the mode's base path carries a cart item or preset id
func (m Mode) NeedsRef() bool {
	return m == Edit || m == Customize
}

// Route is a parsed mode base path, optionally pointing at one dimension step
type Route struct {
	Mode      Mode
	Ref       string
	Dimension options.Dimension
}

// IsStep reports whether the route points at a dimension sub-step
func (r Route) IsStep() bool {
	return r.Dimension != ""
}

// Path renders the route back into its path form
func (r Route) Path() string {
	if r.IsStep() {
		return StepPath(r.Mode, r.Ref, r.Dimension)
	}
	return BasePath(r.Mode, r.Ref)
}

// Parent is the base route a step returns to
func (r Route) Parent() Route {
	return Route{Mode: r.Mode, Ref: r.Ref}
}

// BasePath returns /build, /edit/{ref} or /customize/{ref}
func BasePath(m Mode, ref string) string {
	if !m.NeedsRef() {
		return "/" + string(m)
	}
	return "/" + string(m) + "/" + url.PathEscape(ref)
}

// StepPath returns the path of one dimension step under the mode's base path
func StepPath(m Mode, ref string, d options.Dimension) string {
	return BasePath(m, ref) + "/" + string(d)
}

// ParentPath is where a step returns to; the session is reloaded there
func ParentPath(m Mode, ref string) string {
	return BasePath(m, ref)
}

// Parse recognises base and step paths. Unknown modes, missing refs and
// unknown dimensions do not parse.
func Parse(path string) (Route, bool) {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	mode, err := ParseMode(segments[0])
	if err != nil {
		return Route{}, false
	}
	r := Route{Mode: mode}
	rest := segments[1:]

	if mode.NeedsRef() {
		if len(rest) == 0 || rest[0] == "" {
			return Route{}, false
		}
		ref, err := url.PathUnescape(rest[0])
		if err != nil {
			return Route{}, false
		}
		r.Ref = ref
		rest = rest[1:]
	}

	switch len(rest) {
	case 0:
		return r, true
	case 1:
		d, ok := options.ParseDimension(rest[0])
		if !ok {
			return Route{}, false
		}
		r.Dimension = d
		return r, true
	}
	return Route{}, false
}
