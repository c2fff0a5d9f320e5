package lang

import (
	"iter"
	"strconv"
)

// NodeKind identifies the variant held by a [Node].
type NodeKind int

const (
	KindLiteral       NodeKind = iota // literal
	KindInterpolation                 // interpolation
	KindConditional                   // conditional
)

// String returns the name of the node kind.
func (k NodeKind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindInterpolation:
		return "interpolation"
	case KindConditional:
		return "conditional"
	default:
		return "NodeKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Node is an element of a parsed template.
//
// Which fields are meaningful depends on Kind:
//
//   - [KindLiteral]: Text holds the literal span.
//   - [KindInterpolation]: Expr holds the expression whose value is emitted.
//   - [KindConditional]: Expr is the guard; Then and Else hold the bodies.
//     HasElse records whether an else directive was present, which
//     distinguishes an empty else-body from an absent one. Negate marks a
//     conditional opened with unless, whose Then body is taken when the guard
//     is false.
//
// Nodes are immutable once returned by [Parse].
type Node struct {
	Kind    NodeKind
	Pos     Position
	Text    string
	Expr    *Expr
	Then    []*Node
	Else    []*Node
	HasElse bool
	Negate  bool
}

// All returns an iterator over n and every node beneath it in depth-first
// source order, including both branches of each conditional.
func (n *Node) All() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		n.walk(yield)
	}
}

func (n *Node) walk(yield func(*Node) bool) bool {
	if !yield(n) {
		return false
	}

	for _, c := range n.Then {
		if !c.walk(yield) {
			return false
		}
	}

	for _, c := range n.Else {
		if !c.walk(yield) {
			return false
		}
	}

	return true
}

// Walk returns an iterator over every node in nodes and their descendants in
// depth-first source order.
func Walk(nodes []*Node) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for _, n := range nodes {
			if !n.walk(yield) {
				return
			}
		}
	}
}
