package values

import (
	"fmt"
	"iter"
	"maps"
	"math"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/ardnew/skel/pkg"
)

// Tree is an immutable values tree. The zero value is an empty tree.
type Tree struct {
	root map[string]any
}

// New returns a Tree holding a normalized deep copy of m.
func New(m map[string]any) (Tree, error) {
	v, err := normalize(m, "")
	if err != nil {
		return Tree{}, err
	}

	root, _ := v.(map[string]any)

	return Tree{root: root}, nil
}

// Must is like [New] but panics on error. It is intended for tests and
// package-level literals.
func Must(m map[string]any) Tree {
	t, err := New(m)
	if err != nil {
		panic(err)
	}

	return t
}

// Lookup resolves a field path. With no segments it returns the root
// mapping. A missing field, or a segment that descends into a non-mapping,
// reports false.
func (t Tree) Lookup(path ...string) (any, bool) {
	var cur any = t.root
	if t.root == nil {
		cur = map[string]any{}
	}

	for _, seg := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}

		if cur, ok = m[seg]; !ok {
			return nil, false
		}
	}

	return cur, true
}

// Len returns the number of top-level keys.
func (t Tree) Len() int { return len(t.root) }

// Map returns a deep copy of the tree's root mapping.
func (t Tree) Map() map[string]any {
	if t.root == nil {
		return map[string]any{}
	}

	c, _ := clone(t.root).(map[string]any)

	return c
}

// Merge returns a tree with o layered over t. Mappings present in both are
// merged recursively; any other value in o replaces the one in t.
func (t Tree) Merge(o Tree) Tree {
	if t.root == nil {
		return o
	}

	if o.root == nil {
		return t
	}

	return Tree{root: merge(t.root, o.root)}
}

// With returns a tree with the value at path set to v. Intermediate mappings
// are created as needed, and a non-mapping on the way is replaced.
func (t Tree) With(path []string, v any) (Tree, error) {
	if len(path) == 0 {
		return Tree{}, pkg.ErrInvalidOverride.Wrapf("empty path")
	}

	nv, err := normalize(v, strings.Join(path, "."))
	if err != nil {
		return Tree{}, err
	}

	for i := len(path) - 1; i >= 0; i-- {
		nv = map[string]any{path[i]: nv}
	}

	return t.Merge(Tree{root: nv.(map[string]any)}), nil
}

// Paths returns an iterator over the dotted path of every node in the tree,
// interior and leaf, in sorted order.
func (t Tree) Paths() iter.Seq[string] {
	return func(yield func(string) bool) {
		walkPaths(t.root, "", yield)
	}
}

func walkPaths(m map[string]any, prefix string, yield func(string) bool) bool {
	for _, k := range slices.Sorted(maps.Keys(m)) {
		p := k
		if prefix != "" {
			p = prefix + "." + k
		}

		if !yield(p) {
			return false
		}

		if sub, ok := m[k].(map[string]any); ok {
			if !walkPaths(sub, p, yield) {
				return false
			}
		}
	}

	return true
}

func merge(a, b map[string]any) map[string]any {
	out := make(map[string]any, len(a)+len(b))
	maps.Copy(out, a)

	for k, bv := range b {
		am, aok := out[k].(map[string]any)
		bm, bok := bv.(map[string]any)

		if aok && bok {
			out[k] = merge(am, bm)
		} else {
			out[k] = bv
		}
	}

	return out
}

func clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = clone(e)
		}

		return m

	case []any:
		s := make([]any, len(t))
		for i, e := range t {
			s[i] = clone(e)
		}

		return s

	default:
		return v
	}
}

// normalize converts decoded data into the tree's canonical representation,
// copying every collection.
func normalize(v any, at string) (any, error) {
	switch t := v.(type) {
	case nil, bool, string, int64, float64:
		return t, nil
	case int:
		return int64(t), nil
	case int8:
		return int64(t), nil
	case int16:
		return int64(t), nil
	case int32:
		return int64(t), nil
	case uint:
		return fromUint(uint64(t)), nil
	case uint8:
		return int64(t), nil
	case uint16:
		return int64(t), nil
	case uint32:
		return int64(t), nil
	case uint64:
		return fromUint(t), nil
	case float32:
		return float64(t), nil
	case time.Time:
		return t.Format(time.RFC3339Nano), nil
	case fmt.Stringer:
		return t.String(), nil
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Map:
		m := make(map[string]any, rv.Len())

		for it := rv.MapRange(); it.Next(); {
			k := fmt.Sprint(it.Key().Interface())

			e, err := normalize(it.Value().Interface(), join(at, k))
			if err != nil {
				return nil, err
			}

			m[k] = e
		}

		return m, nil

	case reflect.Slice, reflect.Array:
		s := make([]any, rv.Len())

		for i := range rv.Len() {
			e, err := normalize(rv.Index(i).Interface(), join(at, fmt.Sprint(i)))
			if err != nil {
				return nil, err
			}

			s[i] = e
		}

		return s, nil

	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}

		return normalize(rv.Elem().Interface(), at)

	default:
		return nil, pkg.ErrUnsupportedValue.Wrapf("%s: %T", orRoot(at), v)
	}
}

func fromUint(u uint64) any {
	if u > math.MaxInt64 {
		return float64(u)
	}

	return int64(u)
}

func join(prefix, k string) string {
	if prefix == "" {
		return k
	}

	return prefix + "." + k
}

func orRoot(at string) string {
	if at == "" {
		return "(root)"
	}

	return at
}
