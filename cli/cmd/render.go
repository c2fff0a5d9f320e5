package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ardnew/skel/gen"
	"github.com/ardnew/skel/log"
)

// Render renders a template tree into an output directory.
type Render struct {
	Dir string `arg:"" help:"Template tree root" name:"template-dir" type:"existingdir"`
	Out string `       help:"Output directory"   required:""         short:"o"          type:"path"`

	Input Input `embed:""`

	Jobs      int    `default:"${jobs}" help:"Maximum number of files rendered at once" short:"j"`
	SkipEmpty bool   `                  help:"Do not write files whose rendered content is empty"`
	DryRun    bool   `                  help:"List the files that would be written without writing them" short:"n"`
	Manifest  string `                  help:"Write a YAML manifest of the rendered files"                placeholder:"FILE" type:"path"`
}

var (
	tableHeader = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	tableCell   = lipgloss.NewStyle().Padding(0, 1)
	tableBytes  = tableCell.Align(lipgloss.Right)
	tableBorder = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Run executes the render command.
//
// Nothing is written unless every file renders. Each failure is logged,
// and the returned error lists them all.
func (r *Render) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	tree, err := r.Input.load(ctx)
	if err != nil {
		return err
	}

	sources, err := gen.LoadDir(ctx, r.Dir)
	if err != nil {
		return ErrLoadTemplates.
			With(slog.String("dir", r.Dir)).
			Wrap(err)
	}

	policy := gen.EmptyEmit
	if r.SkipEmpty {
		policy = gen.EmptySkip
	}

	res, err := gen.Run(ctx, sources, tree,
		gen.WithConcurrency(r.Jobs),
		gen.WithEmpty(policy),
		gen.WithLogger(log.Default()),
	)
	if err != nil {
		var batch *gen.BatchError
		if errors.As(err, &batch) {
			for _, fe := range batch.Errors {
				log.ErrorContext(ctx, "render failed", slog.Any("file", fe))
			}
		}

		return ErrRender.
			With(slog.String("dir", r.Dir)).
			Wrap(err)
	}

	if r.DryRun {
		return writeTable(outputFrom(ctx), res)
	}

	if err := res.Write(ctx, gen.DirSink{Root: r.Out}); err != nil {
		return ErrWriteOutput.
			With(slog.String("dir", r.Out)).
			Wrap(err)
	}

	if r.Manifest != "" {
		if err := writeManifest(r.Manifest, res); err != nil {
			return err
		}
	}

	log.InfoContext(ctx, "rendered template tree",
		slog.String("dir", r.Dir),
		slog.String("out", r.Out),
		slog.Int("files", len(res.Files)),
		slog.Int("skipped", len(res.Skipped)))

	return nil
}

func writeManifest(name string, res *gen.Result) error {
	data, err := res.Manifest()
	if err != nil {
		return ErrWriteManifest.
			With(slog.String("file", name)).
			Wrap(err)
	}

	if err := os.WriteFile(name, data, gen.DefaultMode); err != nil {
		return ErrWriteManifest.
			With(slog.String("file", name)).
			Wrap(err)
	}

	return nil
}

// writeTable lists the files of res as a table of output path, source path,
// and size.
func writeTable(w io.Writer, res *gen.Result) error {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorder).
		Headers("OUTPUT", "SOURCE", "BYTES").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return tableHeader
			case col == 2:
				return tableBytes
			default:
				return tableCell
			}
		})

	for _, f := range res.Files {
		t.Row(f.Path, f.Source, strconv.Itoa(len(f.Content)))
	}

	for _, p := range res.Skipped {
		t.Row(p, "", "skipped")
	}

	_, err := fmt.Fprintln(w, t.Render())

	return err
}
