package gen

import (
	"context"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"sync"
)

// Sink receives rendered files.
type Sink interface {
	// WriteFile stores data at the slash-separated relative path p.
	WriteFile(ctx context.Context, p string, data []byte, mode fs.FileMode) error
}

// DirSink writes files below a directory on disk, creating parent
// directories as needed. Each file is written to a temporary name and
// renamed into place.
type DirSink struct {
	Root string
}

// WriteFile implements [Sink].
func (d DirSink) WriteFile(
	_ context.Context,
	p string,
	data []byte,
	mode fs.FileMode,
) error {
	name := filepath.Join(d.Root, filepath.FromSlash(p))

	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(name), "."+filepath.Base(name)+".*")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())

		return err
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())

		return err
	}

	if mode == 0 {
		mode = DefaultMode
	}

	if err := os.Chmod(tmp.Name(), mode.Perm()); err != nil {
		_ = os.Remove(tmp.Name())

		return err
	}

	return os.Rename(tmp.Name(), name)
}

// MemSink collects files in memory. The zero value is ready to use.
type MemSink struct {
	mu    sync.Mutex
	files map[string][]byte
}

// WriteFile implements [Sink].
func (m *MemSink) WriteFile(
	_ context.Context,
	p string,
	data []byte,
	_ fs.FileMode,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.files == nil {
		m.files = make(map[string][]byte)
	}

	m.files[p] = append([]byte(nil), data...)

	return nil
}

// Files returns a copy of everything written so far.
func (m *MemSink) Files() map[string][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()

	return maps.Clone(m.files)
}
