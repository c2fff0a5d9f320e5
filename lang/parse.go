package lang

import (
	"log/slog"

	"github.com/ardnew/skel/log"
)

// Parse parses template source into its node tree.
//
// name identifies the template in errors and is typically its relative
// path. Every guard and interpolation in every branch is syntax-checked,
// whether or not it would be taken at render time.
//
// Errors derive from [ErrMalformedDirective], [ErrUnbalancedDirective], or
// [ErrInvalidExpression], and carry name and the offending [Position].
func Parse(name, src string, opts ...Option) ([]*Node, error) {
	cfg := makeConfig(opts...)

	p := &parser{name: name, logger: cfg.logger}

	for tok, err := range NewScanner(src).Tokens() {
		if err != nil {
			return nil, WrapError(err).WithTemplate(name)
		}

		if err := p.consume(tok); err != nil {
			return nil, err
		}
	}

	if err := p.finish(); err != nil {
		return nil, err
	}

	p.logger.Trace("parse complete",
		slog.String("template", name),
		slog.Int("node_count", len(p.root)),
		slog.Int("max_depth", p.maxDepth))

	return p.root, nil
}

// parser holds the block parser state.
type parser struct {
	name     string
	root     []*Node
	stack    []*frame
	maxDepth int
	logger   log.Logger
}

// frame is an open conditional awaiting its end directive.
type frame struct {
	node   *Node
	inElse bool
}

func (p *parser) consume(tok Token) error {
	switch tok.Kind {
	case TokenLiteral:
		p.append(&Node{Kind: KindLiteral, Pos: tok.Pos, Text: tok.Text})

	case TokenInterpolation:
		e, err := p.expr(tok)
		if err != nil {
			return err
		}

		p.append(&Node{Kind: KindInterpolation, Pos: tok.Pos, Expr: e})

	case TokenIfOpen, TokenUnlessOpen:
		e, err := p.expr(tok)
		if err != nil {
			return err
		}

		p.stack = append(p.stack, &frame{
			node: &Node{
				Kind:   KindConditional,
				Pos:    tok.Pos,
				Expr:   e,
				Negate: tok.Kind == TokenUnlessOpen,
			},
		})
		p.maxDepth = max(p.maxDepth, len(p.stack))

	case TokenElse:
		top := p.top()
		if top == nil {
			return p.unbalanced(tok.Pos, "else without matching if")
		}

		if top.inElse {
			return p.unbalanced(tok.Pos, "duplicate else in conditional").
				With(slog.String("if", top.node.Pos.String()))
		}

		top.inElse = true
		top.node.HasElse = true

	case TokenEndIf, TokenEndUnless:
		negate := tok.Kind == TokenEndUnless

		top := p.top()
		if top == nil {
			return p.unbalanced(tok.Pos, "end of conditional without matching "+opener(negate))
		}

		if top.node.Negate != negate {
			return p.unbalanced(tok.Pos, "/"+opener(negate)+" closes an open "+opener(top.node.Negate)).
				With(slog.String(opener(top.node.Negate), top.node.Pos.String()))
		}

		p.stack = p.stack[:len(p.stack)-1]
		p.append(top.node)

	default:
		return ErrInvalidNode.WithTemplate(p.name).WithPosition(tok.Pos).
			With(slog.String("token", tok.Kind.String()))
	}

	return nil
}

func (p *parser) finish() error {
	if top := p.top(); top != nil {
		return p.unbalanced(top.node.Pos, "conditional is never closed").
			With(slog.Int("open", len(p.stack)))
	}

	return nil
}

func (p *parser) top() *frame {
	if len(p.stack) == 0 {
		return nil
	}

	return p.stack[len(p.stack)-1]
}

// append adds n to the active body of the innermost open conditional, or to
// the root when none is open.
func (p *parser) append(n *Node) {
	top := p.top()

	switch {
	case top == nil:
		p.root = append(p.root, n)
	case top.inElse:
		top.node.Else = append(top.node.Else, n)
	default:
		top.node.Then = append(top.node.Then, n)
	}
}

func (p *parser) expr(tok Token) (*Expr, error) {
	e, err := ParseExpr(tok.Text)
	if err != nil {
		return nil, WrapError(err).WithTemplate(p.name).WithPosition(tok.Pos)
	}

	return e, nil
}

// opener names the directive that opens a conditional.
func opener(negate bool) string {
	if negate {
		return "unless"
	}

	return "if"
}

func (p *parser) unbalanced(pos Position, reason string) *Error {
	return ErrUnbalancedDirective.WithTemplate(p.name).WithPosition(pos).
		Wrap(NewError(reason))
}
