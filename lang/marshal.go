package lang

import (
	"encoding/json"
)

// MarshalJSON implements json.Marshaler for Node.
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.ToMap())
}

// ToMap converts n and its descendants to nested maps of native values.
// Fields that do not apply to the node's kind are omitted.
func (n *Node) ToMap() map[string]any {
	m := map[string]any{
		"kind": n.Kind.String(),
		"line": n.Pos.Line,
		"col":  n.Pos.Column,
	}

	switch n.Kind {
	case KindLiteral:
		m["text"] = n.Text

	case KindInterpolation:
		m["expr"] = n.Expr.String()

	case KindConditional:
		m["expr"] = n.Expr.String()
		m["then"] = NodesToMaps(n.Then)

		if n.Negate {
			m["negate"] = true
		}

		if n.HasElse {
			m["else"] = NodesToMaps(n.Else)
		}
	}

	return m
}

// NodesToMaps applies [Node.ToMap] to each node.
func NodesToMaps(nodes []*Node) []any {
	out := make([]any, len(nodes))
	for i, n := range nodes {
		out[i] = n.ToMap()
	}

	return out
}
