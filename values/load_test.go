package values

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/skel/log"
	"github.com/ardnew/skel/pkg"
)

func TestRead_Formats(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "values.yaml",
			doc: `framework: fastapi
enableCors: true
port: 8080
ratio: 0.5
db:
  kind: postgresql
tags: [a, b]
`,
		},
		{
			name: "values.json",
			doc: `{"framework": "fastapi", "enableCors": true, "port": 8080,
"ratio": 0.5, "db": {"kind": "postgresql"}, "tags": ["a", "b"]}`,
		},
		{
			name: "values.hcl",
			doc: `framework  = "fastapi"
enableCors = true
port       = 8080
ratio      = 0.5
db         = { kind = "postgresql" }
tags       = ["a", "b"]
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := Read(context.Background(), tt.name, strings.NewReader(tt.doc))
			if err != nil {
				t.Fatal(err)
			}

			for path, want := range map[string]any{
				"framework":  "fastapi",
				"enableCors": true,
				"port":       int64(8080),
				"ratio":      0.5,
				"db.kind":    "postgresql",
			} {
				got, ok := tree.Lookup(strings.Split(path, ".")...)
				if !ok || got != want {
					t.Errorf("%s = %#v (%T), want %#v", path, got, got, want)
				}
			}

			tags, _ := tree.Lookup("tags")
			if s, ok := tags.([]any); !ok || len(s) != 2 || s[1] != "b" {
				t.Errorf("tags = %#v", tags)
			}
		})
	}
}

func TestRead_Errors(t *testing.T) {
	ctx := context.Background()

	if _, err := Read(ctx, "values.toml", strings.NewReader("")); !errors.Is(err, pkg.ErrInvalidFormat) {
		t.Errorf("toml: got %v, want ErrInvalidFormat", err)
	}

	if _, err := Read(ctx, "bad.yaml", strings.NewReader("a: [1, 2")); !errors.Is(err, pkg.ErrParse) {
		t.Errorf("yaml: got %v, want ErrParse", err)
	}

	if _, err := Read(ctx, "list.yaml", strings.NewReader("- a\n- b\n")); !errors.Is(err, pkg.ErrParse) {
		t.Errorf("top-level list: got %v, want ErrParse", err)
	}

	if _, err := Read(ctx, "bad.hcl", strings.NewReader("a = ")); !errors.Is(err, pkg.ErrParse) {
		t.Errorf("hcl: got %v, want ErrParse", err)
	}

	if _, err := Read(ctx, "block.hcl", strings.NewReader("db {\n kind = \"pg\"\n}\n")); !errors.Is(err, pkg.ErrParse) {
		t.Errorf("hcl block: got %v, want ErrParse", err)
	}
}

func TestRead_EmptyDocument(t *testing.T) {
	tree, err := Read(context.Background(), "empty.yaml", strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}

	if tree.Len() != 0 {
		t.Errorf("Len = %d, want 0", tree.Len())
	}
}

func TestLoad_MergesInOrder(t *testing.T) {
	dir := t.TempDir()

	base := filepath.Join(dir, "base.yaml")
	over := filepath.Join(dir, "over.json")

	if err := os.WriteFile(base, []byte("name: base\ndb:\n  kind: mysql\n  port: 3306\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(over, []byte(`{"db": {"kind": "postgresql"}}`), 0o600); err != nil {
		t.Fatal(err)
	}

	tree, err := Load(context.Background(), log.Logger{}, base, over)
	if err != nil {
		t.Fatal(err)
	}

	if v, _ := tree.Lookup("db", "kind"); v != "postgresql" {
		t.Errorf("db.kind = %v, want postgresql", v)
	}

	if v, _ := tree.Lookup("db", "port"); v != int64(3306) {
		t.Errorf("db.port = %v, want 3306", v)
	}

	if _, err := Load(context.Background(), log.Logger{}, filepath.Join(dir, "missing.yaml")); !errors.Is(err, pkg.ErrReadInput) {
		t.Errorf("missing file: got %v, want ErrReadInput", err)
	}
}
