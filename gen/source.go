package gen

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/klauspost/readahead"

	"github.com/ardnew/skel/log"
	"github.com/ardnew/skel/pkg"
)

// Source is one template file of a source tree.
type Source struct {
	Path    string      // slash-separated, relative to the tree root
	Content string      // raw template text
	Mode    fs.FileMode // permission bits to give the output file
}

// DefaultMode is the output permission used for sources without one.
const DefaultMode fs.FileMode = 0o644

func (s Source) mode() fs.FileMode {
	if s.Mode.Perm() == 0 {
		return DefaultMode
	}

	return s.Mode.Perm()
}

// skipDir lists directory names never treated as part of a template tree.
var skipDir = []string{".git", ".hg", ".svn"}

// LoadFS reads every regular file below root in fsys. The returned sources
// are ordered by path, which is the order used to resolve output collisions.
func LoadFS(ctx context.Context, fsys fs.FS, root string) ([]Source, error) {
	if root == "" {
		root = "."
	}

	var sources []Source

	err := fs.WalkDir(fsys, root, func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if err := ctx.Err(); err != nil {
			return context.Cause(ctx)
		}

		if d.IsDir() {
			if name != root && slices.Contains(skipDir, d.Name()) {
				return fs.SkipDir
			}

			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		content, err := readFile(fsys, name)
		if err != nil {
			return err
		}

		sources = append(sources, Source{
			Path:    relative(root, name),
			Content: content,
			Mode:    info.Mode().Perm(),
		})

		return nil
	})
	if err != nil {
		return nil, pkg.ErrReadInput.Wrapf("%s: %w", root, err)
	}

	slices.SortFunc(sources, func(a, b Source) int {
		return strings.Compare(a.Path, b.Path)
	})

	log.DebugContext(ctx, "load template tree",
		slog.String("root", root),
		slog.Int("files", len(sources)))

	return sources, nil
}

// LoadDir reads the template tree rooted at directory dir.
func LoadDir(ctx context.Context, dir string) ([]Source, error) {
	return LoadFS(ctx, os.DirFS(dir), ".")
}

// MemSource builds sources from a map of relative path to template text,
// ordered by path.
func MemSource(files map[string]string) []Source {
	sources := make([]Source, 0, len(files))
	for p, content := range files {
		sources = append(sources, Source{Path: p, Content: content})
	}

	slices.SortFunc(sources, func(a, b Source) int {
		return strings.Compare(a.Path, b.Path)
	})

	return sources
}

func readFile(fsys fs.FS, name string) (string, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return "", err
	}
	defer f.Close()

	ra := readahead.NewReader(f)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return "", err
	}

	return string(data), nil
}

func relative(root, name string) string {
	if root == "." {
		return name
	}

	return strings.TrimPrefix(strings.TrimPrefix(name, path.Clean(root)), "/")
}
