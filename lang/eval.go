package lang

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Scope resolves field paths against a read-only values tree.
//
// Lookup with no segments returns the root. A missing segment anywhere along
// the path reports false; it is never an error.
type Scope interface {
	Lookup(path ...string) (any, bool)
}

// Map is a [Scope] over nested map[string]any values.
type Map map[string]any

// Lookup implements [Scope].
func (m Map) Lookup(path ...string) (any, bool) {
	var cur any = map[string]any(m)

	for _, seg := range path {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[seg]
			if !ok {
				return nil, false
			}

			cur = v

		case Map:
			v, ok := node[seg]
			if !ok {
				return nil, false
			}

			cur = v

		case map[any]any:
			v, ok := node[seg]
			if !ok {
				return nil, false
			}

			cur = v

		default:
			return nil, false
		}
	}

	return cur, true
}

// Eval reports whether the expression holds under scope.
//
// A path is true when its value is truthy (see [Truthy]). An equality is true
// when the canonical string form of the value equals the literal exactly; an
// absent value equals nothing.
func (e *Expr) Eval(scope Scope) bool {
	v, ok := e.resolve(scope)

	switch e.Kind {
	case ExprEquality:
		return ok && Stringify(v) == e.Literal

	default:
		return ok && Truthy(v)
	}
}

// Value returns the text an interpolation of the expression emits: the
// canonical string form of the value, "" if absent, or "true"/"false" for an
// equality.
func (e *Expr) Value(scope Scope) string {
	if e.Kind == ExprEquality {
		return strconv.FormatBool(e.Eval(scope))
	}

	v, ok := e.resolve(scope)
	if !ok {
		return ""
	}

	return Stringify(v)
}

func (e *Expr) resolve(scope Scope) (any, bool) {
	if scope == nil {
		return nil, false
	}

	return scope.Lookup(e.Segments()...)
}

// Truthy reports whether v counts as true in a guard.
//
// nil, the empty string, false, numeric zero, and empty sequences or mappings
// are falsy; everything else is truthy.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	case int64:
		return t != 0
	case uint64:
		return t != 0
	case float64:
		return t != 0 && !math.IsNaN(t)
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.String:
		return rv.Len() > 0
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return false
		}

		return Truthy(rv.Elem().Interface())
	default:
		return true
	}
}

// Stringify returns the canonical string form of v.
//
// Strings are returned verbatim, booleans as "true" or "false", integers in
// base 10, and floats in the shortest form that round-trips (whole floats
// without a fraction). nil yields "". Sequences and mappings are rendered as
// compact JSON with sorted keys.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float64:
		return formatFloat(t, 64)
	case float32:
		return formatFloat(float64(t), 32)
	case fmt.Stringer:
		return t.String()
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Struct:
		var buf strings.Builder

		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)

		if err := enc.Encode(jsonSafe(v)); err == nil {
			return strings.TrimSuffix(buf.String(), "\n")
		}
	}

	return fmt.Sprint(v)
}

func formatFloat(f float64, bits int) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', -1, bits)
	}

	return strconv.FormatFloat(f, 'g', -1, bits)
}

// jsonSafe converts map[any]any values, which encoding/json rejects, into
// map[string]any.
func jsonSafe(v any) any {
	switch t := v.(type) {
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[fmt.Sprint(k)] = jsonSafe(e)
		}

		return m

	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = jsonSafe(e)
		}

		return m

	case []any:
		s := make([]any, len(t))
		for i, e := range t {
			s[i] = jsonSafe(e)
		}

		return s

	default:
		return v
	}
}
