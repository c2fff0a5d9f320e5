package gen

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ardnew/skel/lang"
)

func TestDirSink(t *testing.T) {
	root := t.TempDir()
	sink := DirSink{Root: root}
	ctx := context.Background()

	if err := sink.WriteFile(ctx, "a/b/c.txt", []byte("hello"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	name := filepath.Join(root, "a", "b", "c.txt")

	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	if string(data) != "hello" {
		t.Errorf("content = %q", data)
	}

	info, err := os.Stat(name)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}

	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}

	// overwrite in place
	if err := sink.WriteFile(ctx, "a/b/c.txt", nil, 0); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if data, _ := os.ReadFile(name); len(data) != 0 {
		t.Errorf("content after overwrite = %q, want empty", data)
	}

	entries, err := os.ReadDir(filepath.Join(root, "a", "b"))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}

	if len(entries) != 1 {
		t.Errorf("entries = %v, want only c.txt", entries)
	}
}

func TestResult_Write(t *testing.T) {
	files := map[string]string{
		"x/${{ values.n }}.txt": "${{ values.n }}",
		"y.txt":                 "y",
	}

	res := mustRun(t, files, lang.Map{"n": "name"})

	var sink MemSink
	if err := res.Write(context.Background(), &sink); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got := sink.Files()
	if len(got) != 2 || string(got["x/name.txt"]) != "name" || string(got["y.txt"]) != "y" {
		t.Errorf("sink = %q", got)
	}

	root := t.TempDir()
	if err := res.Write(context.Background(), DirSink{Root: root}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if data, err := os.ReadFile(filepath.Join(root, "x", "name.txt")); err != nil || string(data) != "name" {
		t.Errorf("x/name.txt = %q, %v", data, err)
	}
}

func TestResult_WriteCancelled(t *testing.T) {
	res := mustRun(t, map[string]string{"a.txt": "a"}, lang.Map{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var sink MemSink
	if err := res.Write(ctx, &sink); err == nil {
		t.Fatal("Write succeeded on cancelled context")
	}

	if len(sink.Files()) != 0 {
		t.Errorf("sink = %v, want nothing written", sink.Files())
	}
}
