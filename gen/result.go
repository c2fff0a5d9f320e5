package gen

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/goccy/go-yaml"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/skel/log"
	"github.com/ardnew/skel/pkg"
)

// File is one rendered output file.
type File struct {
	Source  string      // source path the file was rendered from
	Path    string      // cleaned, slash-separated output path
	Content []byte      // rendered content
	Mode    fs.FileMode // permission bits
}

// Result holds the outcome of a generation run.
type Result struct {
	Files   []File   // rendered files, ordered by output path
	Skipped []string // output paths left out by [EmptySkip], ordered
}

// Lookup returns the rendered file at output path p.
func (r *Result) Lookup(p string) (File, bool) {
	for _, f := range r.Files {
		if f.Path == p {
			return f, true
		}
	}

	return File{}, false
}

// Write persists every rendered file to sink, stopping at the first failure.
func (r *Result) Write(ctx context.Context, sink Sink) error {
	for _, f := range r.Files {
		if err := ctx.Err(); err != nil {
			return context.Cause(ctx)
		}

		if err := sink.WriteFile(ctx, f.Path, f.Content, f.Mode); err != nil {
			return ErrWrite.Wrapf("%s: %w", f.Path, err)
		}

		log.TraceContext(ctx, "write file",
			slog.String("output", f.Path),
			slog.Int("bytes", len(f.Content)))
	}

	return nil
}

type manifestFile struct {
	Path   string `yaml:"path"`
	Source string `yaml:"source"`
	Bytes  int    `yaml:"bytes"`
	Hash   string `yaml:"xxh3"`
}

type manifest struct {
	Files   []manifestFile `yaml:"files"`
	Skipped []string       `yaml:"skipped,omitempty"`
}

// Manifest describes the result as a YAML document: each file's output path,
// source path, size, and xxh3 content hash, followed by any skipped paths.
func (r *Result) Manifest() ([]byte, error) {
	m := manifest{
		Files:   make([]manifestFile, 0, len(r.Files)),
		Skipped: r.Skipped,
	}

	for _, f := range r.Files {
		m.Files = append(m.Files, manifestFile{
			Path:   f.Path,
			Source: f.Source,
			Bytes:  len(f.Content),
			Hash:   fmt.Sprintf("%016x", xxh3.Hash(f.Content)),
		})
	}

	data, err := yaml.MarshalWithOptions(m, yaml.Indent(2))
	if err != nil {
		return nil, pkg.ErrYAMLMarshal.Wrap(err)
	}

	return data, nil
}
