package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes nodes back as template text in canonical form: directives
// without inner padding, interpolations with one space inside the braces,
// and expressions normalized by [Expr.String]. Literal text is unchanged.
//
// Parsing the output yields a tree that renders identically to nodes.
func Format(w io.Writer, nodes []*Node) error {
	var sb strings.Builder

	formatNodes(&sb, nodes)

	_, err := io.WriteString(w, sb.String())

	return err
}

func formatNodes(sb *strings.Builder, nodes []*Node) {
	for _, n := range nodes {
		switch n.Kind {
		case KindLiteral:
			sb.WriteString(n.Text)

		case KindInterpolation:
			sb.WriteString("${{ ")
			sb.WriteString(n.Expr.String())
			sb.WriteString(" }}")

		case KindConditional:
			kw := opener(n.Negate)

			sb.WriteString("{{#" + kw + " ")
			sb.WriteString(n.Expr.String())
			sb.WriteString("}}")
			formatNodes(sb, n.Then)

			if n.HasElse {
				sb.WriteString("{{else}}")
				formatNodes(sb, n.Else)
			}

			sb.WriteString("{{/" + kw + "}}")
		}
	}
}

// FormatJSON writes nodes as a JSON array to the writer.
func FormatJSON(_ context.Context, w io.Writer, nodes []*Node, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(NodesToMaps(nodes), "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(NodesToMaps(nodes))
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes nodes as a YAML sequence to the writer. An indent of
// zero selects flow style.
func FormatYAML(ctx context.Context, w io.Writer, nodes []*Node, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, NodesToMaps(nodes), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}
