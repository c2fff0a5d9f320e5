package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/skel/log"
	"github.com/ardnew/skel/values"
)

type (
	contextKey struct{}
	outputKey  struct{}
)

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// WithOutput returns a new context.Context whose commands write their
// reports to w instead of [os.Stdout].
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

// outputFrom returns the report writer stored in ctx by [WithOutput], or the
// kong context's stdout, or [os.Stdout].
func outputFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok && w != nil {
		return w
	}

	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// Input selects the values a template tree is rendered against.
type Input struct {
	Files []string `help:"Values file (YAML, JSON or HCL); later files win" name:"values"        placeholder:"FILE"       short:"f" type:"existingfile"`
	Set   []string `help:"Override one value; applied after all files"    placeholder:"PATH=VALUE" sep:"none"`
}

// load merges the values files in order and applies the overrides.
func (in Input) load(ctx context.Context) (values.Tree, error) {
	tree, err := values.Load(ctx, log.Default(), in.Files...)
	if err != nil {
		return values.Tree{}, ErrLoadValues.Wrap(err)
	}

	tree, err = tree.Set(in.Set...)
	if err != nil {
		return values.Tree{}, ErrLoadValues.Wrap(err)
	}

	log.DebugContext(ctx, "values loaded",
		slog.Int("files", len(in.Files)),
		slog.Int("overrides", len(in.Set)),
		slog.Int("keys", tree.Len()))

	return tree, nil
}
