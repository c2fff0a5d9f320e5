package lang

import (
	"errors"
	"strings"
	"testing"
)

// dump renders a node tree in a compact form for comparison.
func dump(nodes []*Node) string {
	var b strings.Builder

	for _, n := range nodes {
		switch n.Kind {
		case KindLiteral:
			b.WriteString("L(" + n.Text + ")")
		case KindInterpolation:
			b.WriteString("I(" + n.Expr.String() + ")")
		case KindConditional:
			if n.Negate {
				b.WriteString("!")
			}

			b.WriteString("C(" + n.Expr.String() + ";" + dump(n.Then))
			if n.HasElse {
				b.WriteString(";" + dump(n.Else))
			}
			b.WriteString(")")
		}
	}

	return b.String()
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"empty", "", ""},
		{"literal", "abc", "L(abc)"},
		{"interpolation", "a${{ values.b }}c", "L(a)I(values.b)L(c)"},
		{
			"if without else",
			"{{#if values.a}}x{{/if}}",
			"C(values.a;L(x))",
		},
		{
			"if with empty else",
			"{{#if values.a}}x{{else}}{{/if}}",
			"C(values.a;L(x);)",
		},
		{
			"if else",
			"{{#if values.a}}x{{else}}y{{/if}}",
			"C(values.a;L(x);L(y))",
		},
		{
			"nested in both branches",
			"{{#if values.a}}{{#if values.b}}1{{/if}}{{else}}{{#if values.c}}2{{else}}3{{/if}}{{/if}}",
			"C(values.a;C(values.b;L(1));C(values.c;L(2);L(3)))",
		},
		{
			"unless",
			"{{#unless (eq uiFramework 'tailwind')}}css{{/unless}}",
			`!C(uiFramework == "tailwind";L(css))`,
		},
		{
			"unless else nested in if",
			"{{#if values.a}}{{#unless values.b}}1{{else}}2{{/unless}}{{/if}}",
			"C(values.a;!C(values.b;L(1);L(2)))",
		},
		{
			"outer flag guarding equality checks",
			"{{#if values.databaseType}}\n" +
				"{{#if values.databaseType == \"postgresql\"}}pg{{/if}}\n" +
				"{{#if values.databaseType == \"mysql\"}}my{{/if}}\n" +
				"{{/if}}",
			`C(values.databaseType;L(` + "\n" + `)C(values.databaseType == "postgresql";L(pg))L(` + "\n" +
				`)C(values.databaseType == "mysql";L(my))L(` + "\n" + `))`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes, err := Parse("t.txt", tt.src)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}

			if got := dump(nodes); got != tt.want {
				t.Errorf("tree:\n got %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestParse_DeepNesting(t *testing.T) {
	const depth = 500

	src := strings.Repeat("{{#if values.a}}", depth) + "x" + strings.Repeat("{{/if}}", depth)

	nodes, err := Parse("deep", src)
	if err != nil {
		t.Fatal(err)
	}

	n, levels := nodes[0], 1
	for len(n.Then) == 1 && n.Then[0].Kind == KindConditional {
		n = n.Then[0]
		levels++
	}

	if levels != depth {
		t.Errorf("nesting depth = %d, want %d", levels, depth)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind error
		line int
		col  int
	}{
		{"stray else", "a\n{{else}}", ErrUnbalancedDirective, 2, 1},
		{"stray endif", "{{/if}}", ErrUnbalancedDirective, 1, 1},
		{"second else", "{{#if values.a}}{{else}}{{else}}{{/if}}", ErrUnbalancedDirective, 1, 25},
		{"unterminated", "x\n  {{#if values.a}}y", ErrUnbalancedDirective, 2, 3},
		{"unterminated inner", "{{#if values.a}}{{#if values.b}}{{/if}}", ErrUnbalancedDirective, 1, 1},
		{"extra endif", "{{#if values.a}}{{/if}}{{/if}}", ErrUnbalancedDirective, 1, 24},
		{"stray endunless", "{{/unless}}", ErrUnbalancedDirective, 1, 1},
		{"endunless closes if", "{{#if values.a}}x{{/unless}}", ErrUnbalancedDirective, 1, 18},
		{"endif closes unless", "{{#unless values.a}}x{{/if}}", ErrUnbalancedDirective, 1, 22},
		{"unterminated unless", "{{#unless values.a}}x", ErrUnbalancedDirective, 1, 1},
		{"endunless with text", "{{#unless values.a}}x{{/unless a}}", ErrMalformedDirective, 1, 22},
		{"unclosed", "{{#if values.a}}${{ values.b", ErrMalformedDirective, 1, 17},
		{"bad guard", "{{#if values.a +}}x{{/if}}", ErrInvalidExpression, 1, 1},
		{"empty guard", "{{#if}}x{{/if}}", ErrInvalidExpression, 1, 1},
		{"bad interpolation", "ok ${{ values[0] }}", ErrInvalidExpression, 1, 4},
		{
			"bad expression in untaken branch",
			"{{#if values.off}}{{else}}${{ 1 + }}{{/if}}",
			ErrInvalidExpression, 1, 27,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("dir/file.py", tt.src)
			if !errors.Is(err, tt.kind) {
				t.Fatalf("got %v, want %v", err, tt.kind)
			}

			var le *Error
			if !errors.As(err, &le) {
				t.Fatalf("error %T is not *Error", err)
			}

			if le.Template() != "dir/file.py" {
				t.Errorf("template = %q, want dir/file.py", le.Template())
			}

			pos, ok := le.Position()
			if !ok || pos.Line != tt.line || pos.Column != tt.col {
				t.Errorf("position = %v (set=%v), want %d:%d", pos, ok, tt.line, tt.col)
			}

			if !strings.HasPrefix(err.Error(), "dir/file.py:") {
				t.Errorf("message %q does not start with template location", err.Error())
			}
		})
	}
}

func TestParse_ErrorKindsAreDistinct(t *testing.T) {
	_, err := Parse("x", "{{/if}}")
	if errors.Is(err, ErrMalformedDirective) || errors.Is(err, ErrInvalidExpression) {
		t.Errorf("unbalanced error matches another kind: %v", err)
	}
}

func TestWalk(t *testing.T) {
	nodes, err := Parse("w", "a{{#if values.x}}${{ values.y }}{{else}}${{ values.z }}{{/if}}")
	if err != nil {
		t.Fatal(err)
	}

	var kinds []string
	for n := range Walk(nodes) {
		kinds = append(kinds, n.Kind.String())
	}

	want := "literal conditional interpolation interpolation"
	if got := strings.Join(kinds, " "); got != want {
		t.Errorf("walk order = %q, want %q", got, want)
	}
}
