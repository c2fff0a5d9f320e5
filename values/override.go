package values

import (
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/skel/pkg"
)

// Override is a single "path=value" assignment.
type Override struct {
	Path  []string
	Value any
}

// ParseOverride parses "a.b.c=value".
//
// The path may carry a leading "values." which is dropped. The value is
// decoded as YAML, so numbers, booleans, null, quoted strings, and flow
// collections ("[a, b]", "{k: v}") keep their types. An empty value is the
// empty string.
func ParseOverride(s string) (Override, error) {
	key, raw, ok := strings.Cut(s, "=")
	if !ok {
		return Override{}, pkg.ErrInvalidOverride.Wrapf("%q: missing '='", s)
	}

	key = strings.TrimSpace(key)
	key = strings.TrimPrefix(key, "values.")

	path := strings.Split(key, ".")
	for _, seg := range path {
		if seg == "" {
			return Override{}, pkg.ErrInvalidOverride.Wrapf("%q: empty path segment", s)
		}
	}

	if raw == "" {
		return Override{Path: path, Value: ""}, nil
	}

	var v any
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
		// Not valid YAML on its own; keep the text.
		v = raw
	}

	return Override{Path: path, Value: v}, nil
}

// Apply returns t with each override applied in order.
func (t Tree) Apply(overrides ...Override) (Tree, error) {
	for _, o := range overrides {
		var err error

		if t, err = t.With(o.Path, o.Value); err != nil {
			return Tree{}, err
		}
	}

	return t, nil
}

// Set parses each "path=value" string and applies it to t.
func (t Tree) Set(assignments ...string) (Tree, error) {
	overrides := make([]Override, 0, len(assignments))

	for _, a := range assignments {
		o, err := ParseOverride(a)
		if err != nil {
			return Tree{}, err
		}

		overrides = append(overrides, o)
	}

	return t.Apply(overrides...)
}
