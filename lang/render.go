package lang

import (
	"bytes"
	"log/slog"
)

// renderer walks a node tree under one scope. It is used for a single pass
// and discarded.
type renderer struct {
	scope  Scope
	buf    *bytes.Buffer
	guards int // conditionals evaluated
	interp int // interpolations emitted
}

// Render evaluates nodes under scope and returns the produced text.
//
// An unless conditional takes its first body when the guard is false. Only
// the selected body of each conditional is visited, so expressions in
// an untaken branch are never resolved.
func Render(nodes []*Node, scope Scope) ([]byte, error) {
	r := &renderer{scope: scope, buf: new(bytes.Buffer)}
	if err := r.nodes(nodes); err != nil {
		return nil, err
	}

	return r.buf.Bytes(), nil
}

func (r *renderer) nodes(nodes []*Node) error {
	for _, n := range nodes {
		if err := r.node(n); err != nil {
			return err
		}
	}

	return nil
}

func (r *renderer) node(n *Node) error {
	switch n.Kind {
	case KindLiteral:
		r.buf.WriteString(n.Text)

	case KindInterpolation:
		if n.Expr == nil {
			return invalidNode(n)
		}

		r.interp++
		r.buf.WriteString(n.Expr.Value(r.scope))

	case KindConditional:
		if n.Expr == nil {
			return invalidNode(n)
		}

		r.guards++

		if n.Expr.Eval(r.scope) != n.Negate {
			return r.nodes(n.Then)
		}

		return r.nodes(n.Else)

	default:
		return invalidNode(n)
	}

	return nil
}

func invalidNode(n *Node) error {
	return ErrInvalidNode.WithPosition(n.Pos).
		With(slog.String("kind", n.Kind.String()))
}
