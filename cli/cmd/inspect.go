package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/skel/lang"
	"github.com/ardnew/skel/log"
)

// Inspect prints the scanner tokens or the parsed node tree of a template.
type Inspect struct {
	File   string `arg:"" default:"-"    help:"Template file, or '-' for stdin" optional:""`
	Tokens bool   `                      help:"Print scanner tokens instead of the node tree" short:"t"`
	Format string `       default:"tree" enum:"tree,template,json,yaml"                          help:"Node tree output format" placeholder:"${enum}"`
	Indent int    `       default:"2"    help:"Indentation for json and yaml; 0 is compact"`
}

var (
	styleKind = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	stylePos  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleExpr = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// Run executes the inspect command.
func (i *Inspect) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	name, r, closer, err := i.open()
	if err != nil {
		return ErrInspect.With(slog.String("file", i.File)).Wrap(err)
	}
	defer closer()

	cache := lang.NewCache(lang.WithLogger(log.Default()))
	w := outputFrom(ctx)

	if i.Tokens {
		data, err := io.ReadAll(r)
		if err != nil {
			return ErrInspect.With(slog.String("file", i.File)).Wrap(err)
		}

		return writeTokens(w, string(data))
	}

	t, err := cache.ParseReader(ctx, name, r)
	if err != nil {
		return ErrInspect.With(slog.String("file", i.File)).Wrap(err)
	}

	nodes, err := t.Parse()
	if err != nil {
		return ErrInspect.With(slog.String("file", i.File)).Wrap(err)
	}

	switch i.Format {
	case "template":
		err = lang.Format(w, nodes)
	case "json":
		err = lang.FormatJSON(ctx, w, nodes, i.Indent)
	case "yaml":
		err = lang.FormatYAML(ctx, w, nodes, i.Indent)
	default:
		err = writeNodes(w, nodes, 0)
	}

	if err != nil {
		return ErrInspect.With(slog.String("file", i.File)).Wrap(err)
	}

	return nil
}

func (i *Inspect) open() (name string, r io.Reader, closer func(), err error) {
	if i.File == "" || i.File == "-" {
		return "<stdin>", os.Stdin, func() {}, nil
	}

	f, err := os.Open(i.File)
	if err != nil {
		return "", nil, nil, err
	}

	return i.File, f, func() { _ = f.Close() }, nil
}

// writeTokens prints one token per line: position, kind, and quoted text.
func writeTokens(w io.Writer, src string) error {
	for tok, err := range lang.NewScanner(src).Tokens() {
		if err != nil {
			return ErrInspect.Wrap(err)
		}

		_, werr := fmt.Fprintf(w, "%s\t%s\t%s\n",
			stylePos.Render(tok.Pos.String()),
			styleKind.Render(tok.Kind.String()),
			strconv.Quote(tok.Text))
		if werr != nil {
			return werr
		}
	}

	return nil
}

// writeNodes prints the node tree, indenting each conditional's branches.
func writeNodes(w io.Writer, nodes []*lang.Node, depth int) error {
	indent := strings.Repeat("  ", depth)

	for _, n := range nodes {
		head := indent + styleKind.Render(n.Kind.String()) + " " +
			stylePos.Render(n.Pos.String()) + " "

		switch {
		case n.Kind == lang.KindLiteral:
			head += strconv.Quote(n.Text)
		case n.Negate:
			head += "unless " + styleExpr.Render(n.Expr.String())
		default:
			head += styleExpr.Render(n.Expr.String())
		}

		if _, err := fmt.Fprintln(w, head); err != nil {
			return err
		}

		if n.Kind != lang.KindConditional {
			continue
		}

		if _, err := fmt.Fprintln(w, indent+"  then:"); err != nil {
			return err
		}

		if err := writeNodes(w, n.Then, depth+2); err != nil {
			return err
		}

		if !n.HasElse {
			continue
		}

		if _, err := fmt.Fprintln(w, indent+"  else:"); err != nil {
			return err
		}

		if err := writeNodes(w, n.Else, depth+2); err != nil {
			return err
		}
	}

	return nil
}
