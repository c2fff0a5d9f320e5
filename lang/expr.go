package lang

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/expr-lang/expr/ast"
	exprparser "github.com/expr-lang/expr/parser"
)

// ExprKind identifies the variant held by an [Expr].
type ExprKind int

const (
	ExprPath     ExprKind = iota // path
	ExprEquality                 // equality
)

// String returns the name of the expression kind.
func (k ExprKind) String() string {
	switch k {
	case ExprPath:
		return "path"
	case ExprEquality:
		return "equality"
	default:
		return "ExprKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// RootName is the leading path segment that addresses the root of the values
// tree. A path that does not begin with it is resolved against the root as
// well, so "values.name" and "name" are equivalent.
const RootName = "values"

// Expr is a parsed guard or interpolation expression.
//
// An [ExprPath] names a value by its field segments. An [ExprEquality]
// compares the canonical string form of the value named by Path with
// Literal.
type Expr struct {
	Kind    ExprKind
	Path    []string
	Literal string
	Source  string // expression text as written
}

// String returns the expression in normalized form.
func (e *Expr) String() string {
	p := strings.Join(e.Path, ".")
	if e.Kind == ExprEquality {
		return p + " == " + strconv.Quote(e.Literal)
	}

	return p
}

// Segments returns the path segments relative to the values root.
func (e *Expr) Segments() []string {
	if len(e.Path) > 0 && e.Path[0] == RootName {
		return e.Path[1:]
	}

	return e.Path
}

// eqHelper matches the Handlebars helper spelling of equality:
// (eq values.kind 'literal').
var eqHelper = regexp.MustCompile(`^\(\s*eq\s+([^\s()]+)\s+(.+?)\s*\)$`)

// ParseExpr parses expression text of the form "PATH",
// "PATH == \"literal\"", or "(eq PATH 'literal')".
//
// PATH is a dot-separated sequence of field names. Each field name must be an
// identifier (a letter or underscore followed by letters, digits, or
// underscores) and may contain interior hyphens, as in "api-version". Purely
// numeric segments such as "items.0" are rejected: paths address mappings
// only. The literal may be double-, single-, or back-quoted.
// Errors derive from [ErrInvalidExpression].
func ParseExpr(text string) (*Expr, error) {
	src := strings.TrimSpace(text)

	invalid := func(reason string) error {
		return ErrInvalidExpression.
			With(slog.String("expression", src)).
			Wrap(NewError(reason))
	}

	if src == "" {
		return nil, invalid("empty expression")
	}

	norm := src
	if m := eqHelper.FindStringSubmatch(norm); m != nil {
		norm = m[1] + " == " + m[2]
	}

	if reason := lexCheck(norm); reason != "" {
		return nil, invalid(reason)
	}

	tree, err := exprparser.Parse(norm)
	if err != nil {
		return nil, ErrInvalidExpression.
			With(slog.String("expression", src)).
			Wrap(err)
	}

	e := &Expr{Source: src}

	node := tree.Node
	if bin, ok := node.(*ast.BinaryNode); ok && bin.Operator == "==" {
		lit, ok := bin.Right.(*ast.StringNode)
		if !ok {
			return nil, invalid("right side of == must be a string literal")
		}

		e.Kind, e.Literal, node = ExprEquality, lit.Value, bin.Left
	}

	path, ok := pathOf(node)
	if !ok {
		return nil, invalid("expected a dotted field path")
	}

	e.Path = path

	return e, nil
}

// pathOf flattens an identifier/member chain into its segments.
//
// The expression parser reads a hyphen as subtraction, so "a.api-version"
// arrives as BinaryNode("-", a.api, version); such chains are joined back
// into a single segment.
func pathOf(node ast.Node) ([]string, bool) {
	switch n := node.(type) {
	case *ast.IdentifierNode:
		return []string{n.Value}, true

	case *ast.MemberNode:
		if n.Optional || n.Method {
			return nil, false
		}

		prop, ok := n.Property.(*ast.StringNode)
		if !ok {
			return nil, false
		}

		base, ok := pathOf(n.Node)
		if !ok {
			return nil, false
		}

		return append(base, prop.Value), true

	case *ast.BinaryNode:
		if n.Operator != "-" {
			return nil, false
		}

		left, ok := pathOf(n.Left)
		if !ok {
			return nil, false
		}

		right, ok := hyphenTail(n.Right)
		if !ok {
			return nil, false
		}

		left[len(left)-1] += "-" + right[0]

		return append(left, right[1:]...), true

	default:
		return nil, false
	}
}

// hyphenTail returns the segments following a hyphen. The first may be
// numeric ("v-2").
func hyphenTail(node ast.Node) ([]string, bool) {
	switch n := node.(type) {
	case *ast.IntegerNode:
		return []string{strconv.Itoa(n.Value)}, true

	case *ast.BoolNode:
		return []string{strconv.FormatBool(n.Value)}, true

	case *ast.NilNode:
		return []string{"nil"}, true

	case *ast.MemberNode:
		if n.Optional || n.Method {
			return nil, false
		}

		prop, ok := n.Property.(*ast.StringNode)
		if !ok {
			return nil, false
		}

		base, ok := hyphenTail(n.Node)
		if !ok {
			return nil, false
		}

		return append(base, prop.Value), true

	default:
		return pathOf(node)
	}
}

// lexCheck rejects spellings the expression parser would accept but the
// path grammar does not: bracket indexing and whitespace around path
// separators. It returns the reason, or "" if text is acceptable.
func lexCheck(text string) string {
	for i := 0; i < len(text); i++ {
		switch ch := text[i]; ch {
		case '"', '\'', '`':
			if end := skipQuoted(text, i); end > 0 {
				i = end - 1
			}

		case '[', ']':
			return "index expressions are not supported"

		case '.', '-':
			if (i > 0 && isSpace(text[i-1])) ||
				(i+1 < len(text) && isSpace(text[i+1])) {
				return "unexpected whitespace around " + strconv.Quote(string(ch))
			}
		}
	}

	return ""
}
