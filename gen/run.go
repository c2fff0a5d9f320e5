package gen

import (
	"context"
	"log/slog"
	"path"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ardnew/skel/lang"
	"github.com/ardnew/skel/pkg"
)

// outcome is the per-source result slot filled by one worker.
type outcome struct {
	file    *File
	skipped bool
	err     *FileError
}

// Run renders every source against scope.
//
// The returned [Result] always holds the files that rendered successfully.
// If any source failed, the error is a [*BatchError] listing each failure in
// source order. If ctx is cancelled, sources not yet started are abandoned
// and the context's cause is returned instead.
func Run(
	ctx context.Context,
	sources []Source,
	scope lang.Scope,
	opts ...Option,
) (*Result, error) {
	cfg := makeConfig(opts...)
	start := time.Now()

	slots := make([]outcome, len(sources))

	var g errgroup.Group
	g.SetLimit(cfg.jobs)

	for i, src := range sources {
		if ctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}

			slots[i] = renderSource(ctx, cfg, src, scope)

			return nil
		})
	}

	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return collect(sources, slots), context.Cause(ctx)
	}

	res := collect(sources, slots)

	var errs []*FileError

	for i := range slots {
		if slots[i].err != nil {
			errs = append(errs, slots[i].err)
		}
	}

	cfg.logger.InfoContext(ctx, "generation complete",
		slog.Int("files", len(sources)),
		slog.Int("written", len(res.Files)),
		slog.Int("skipped", len(res.Skipped)),
		slog.Int("failed", len(errs)),
		slog.Duration("elapsed", time.Since(start)))

	if len(errs) > 0 {
		return res, &BatchError{Errors: errs, Total: len(sources)}
	}

	return res, nil
}

func renderSource(
	ctx context.Context,
	cfg config,
	src Source,
	scope lang.Scope,
) outcome {
	fail := func(out string, err error) outcome {
		cfg.logger.DebugContext(ctx, "render file",
			slog.String("source", src.Path),
			slog.Any("error", err))

		return outcome{err: &FileError{Source: src.Path, Output: out, Err: err}}
	}

	rendered, err := cfg.cache.Get(src.Path, src.Path).RenderString(ctx, scope)
	if err != nil {
		return fail("", ErrRender.Wrap(err))
	}

	out, err := OutputPath(rendered)
	if err != nil {
		return fail(rendered, err)
	}

	content, err := cfg.cache.Get(src.Path, src.Content).RenderBytes(ctx, scope)
	if err != nil {
		return fail(out, ErrRender.Wrap(err))
	}

	if len(content) == 0 && cfg.empty == EmptySkip {
		cfg.logger.DebugContext(ctx, "skip empty file",
			slog.String("source", src.Path),
			slog.String("output", out))

		return outcome{file: &File{Source: src.Path, Path: out}, skipped: true}
	}

	cfg.logger.DebugContext(ctx, "render file",
		slog.String("source", src.Path),
		slog.String("output", out),
		slog.Int("bytes", len(content)))

	return outcome{file: &File{
		Source:  src.Path,
		Path:    out,
		Content: content,
		Mode:    src.mode(),
	}}
}

// OutputPath validates and cleans a rendered output path.
func OutputPath(rendered string) (string, error) {
	if strings.TrimSpace(rendered) == "" {
		return "", ErrInvalidOutputPath.Wrap(pkg.MakeErrorf("path is empty"))
	}

	p := path.Clean(rendered)

	switch {
	case path.IsAbs(p):
		return "", ErrInvalidOutputPath.Wrapf("%q is absolute", rendered)
	case p == ".":
		return "", ErrInvalidOutputPath.Wrapf("%q names the output root", rendered)
	case p == ".." || strings.HasPrefix(p, "../"):
		return "", ErrInvalidOutputPath.Wrapf("%q escapes the output root", rendered)
	}

	return p, nil
}

// collect assembles the Result from the worker slots, marking later sources
// that collide with an earlier output path as failed. Only emitted files
// claim a path: a file skipped as empty writes nothing, so it never collides
// and is not reported as skipped when another source emits that path.
func collect(sources []Source, slots []outcome) *Result {
	res := &Result{}
	owner := make(map[string]string, len(slots))

	var skipped []string

	for i := range slots {
		s := &slots[i]
		if s.file == nil {
			continue
		}

		if s.skipped {
			skipped = append(skipped, s.file.Path)

			continue
		}

		if prev, ok := owner[s.file.Path]; ok {
			s.err = &FileError{
				Source: sources[i].Path,
				Output: s.file.Path,
				Err:    ErrPathCollision.Wrapf("also rendered by %s", prev),
			}
			s.file = nil

			continue
		}

		owner[s.file.Path] = sources[i].Path
		res.Files = append(res.Files, *s.file)
	}

	for _, p := range skipped {
		if _, ok := owner[p]; !ok {
			res.Skipped = append(res.Skipped, p)
		}
	}

	slices.SortFunc(res.Files, func(a, b File) int {
		return strings.Compare(a.Path, b.Path)
	})
	slices.Sort(res.Skipped)
	res.Skipped = slices.Compact(res.Skipped)

	return res
}
