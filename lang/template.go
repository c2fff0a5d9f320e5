package lang

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"
)

// Template is a named template source together with its parsed node tree.
//
// The tree is built on first use, exactly once, even when that first use
// happens concurrently. A Template is safe for concurrent use.
type Template struct {
	name   string
	source string
	cfg    config

	once  sync.Once
	nodes []*Node
	err   error
}

// New returns a Template named name over source. Parsing is deferred until
// the template is first rendered or inspected.
func New(name, source string, opts ...Option) *Template {
	return &Template{name: name, source: source, cfg: makeConfig(opts...)}
}

// Name returns the template's name, typically its relative path.
func (t *Template) Name() string { return t.name }

// Source returns the raw template text.
func (t *Template) Source() string { return t.source }

// Parse returns the template's node tree, parsing it on first call.
// The returned nodes are shared and must not be modified.
func (t *Template) Parse() ([]*Node, error) {
	t.once.Do(func() {
		t.nodes, t.err = Parse(t.name, t.source, WithLogger(t.cfg.logger))
	})

	return t.nodes, t.err
}

// RenderBytes renders the template under scope.
func (t *Template) RenderBytes(ctx context.Context, scope Scope) ([]byte, error) {
	nodes, err := t.Parse()
	if err != nil {
		return nil, err
	}

	r := &renderer{scope: scope, buf: new(bytes.Buffer)}
	if err := r.nodes(nodes); err != nil {
		return nil, WrapError(err).WithTemplate(t.name)
	}

	t.cfg.logger.TraceContext(ctx, "render template",
		slog.String("template", t.name),
		slog.Int("bytes", r.buf.Len()),
		slog.Int("guards", r.guards),
		slog.Int("interpolations", r.interp))

	return r.buf.Bytes(), nil
}

// RenderString renders the template under scope.
func (t *Template) RenderString(ctx context.Context, scope Scope) (string, error) {
	b, err := t.RenderBytes(ctx, scope)

	return string(b), err
}

// Render renders the template under scope and writes the result to w.
// Nothing is written if rendering fails.
func (t *Template) Render(ctx context.Context, w io.Writer, scope Scope) error {
	b, err := t.RenderBytes(ctx, scope)
	if err != nil {
		return err
	}

	_, err = w.Write(b)

	return err
}

// Reference is an expression occurring in a template.
type Reference struct {
	Expr  *Expr
	Pos   Position
	Guard bool // true for a conditional guard, false for an interpolation
}

// References returns every expression in the template, in source order,
// from both branches of every conditional.
func (t *Template) References() ([]Reference, error) {
	nodes, err := t.Parse()
	if err != nil {
		return nil, err
	}

	var refs []Reference

	for n := range Walk(nodes) {
		switch n.Kind {
		case KindInterpolation, KindConditional:
			refs = append(refs, Reference{
				Expr:  n.Expr,
				Pos:   n.Pos,
				Guard: n.Kind == KindConditional,
			})
		}
	}

	return refs, nil
}
