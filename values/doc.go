// Package values holds the read-only input tree that drives a render.
//
// A [Tree] is built once per run from value files and command-line overrides
// and never mutated afterwards; every operation that changes it returns a new
// Tree. Leaves are normalized to nil, bool, int64, float64, or string;
// interior nodes are []any and map[string]any.
//
// Value files are decoded by extension:
//
//	.yaml .yml   YAML (github.com/goccy/go-yaml)
//	.json        JSON (decoded as YAML, of which it is a subset)
//	.hcl         HCL attributes (github.com/hashicorp/hcl/v2)
//
// Overrides use "path=value" with a dotted path. The value is read as a YAML
// scalar or flow collection, so "port=8080" yields an integer and
// "name='8080'" a string.
package values
