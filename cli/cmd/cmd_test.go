package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/skel/lang"
)

// writeTree creates files below a new temporary directory and returns it.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()

	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}

		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	return dir
}

func readFile(t *testing.T, name string) string {
	t.Helper()

	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	return string(data)
}

func outputContext(buf *bytes.Buffer) context.Context {
	return WithOutput(context.Background(), buf)
}

var pythonTree = map[string]string{
	"README.md": "# ${{ values.name }}\n",
	"src/${{ values.name }}/app.py": "{{#if values.framework == \"flask\"}}from flask import Flask\n" +
		"{{else}}from fastapi import FastAPI\n{{/if}}",
	"${{ values.name }}.cfg": "{{#if values.docker}}docker{{/if}}",
}

func TestRender(t *testing.T) {
	dir := writeTree(t, pythonTree)
	valuesDir := writeTree(t, map[string]string{
		"values.yaml": "name: demo\nframework: fastapi\ndocker: false\n",
	})
	out := filepath.Join(t.TempDir(), "out")

	r := Render{
		Dir: dir,
		Out: out,
		Input: Input{
			Files: []string{filepath.Join(valuesDir, "values.yaml")},
			Set:   []string{"framework=flask"},
		},
		Jobs: 2,
	}

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := readFile(t, filepath.Join(out, "README.md")); got != "# demo\n" {
		t.Errorf("README.md = %q", got)
	}

	if got := readFile(t, filepath.Join(out, "src", "demo", "app.py")); got != "from flask import Flask\n" {
		t.Errorf("app.py = %q", got)
	}

	// empty content is still emitted by default
	if got := readFile(t, filepath.Join(out, "demo.cfg")); got != "" {
		t.Errorf("demo.cfg = %q, want empty", got)
	}
}

func TestRender_FailureWritesNothing(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"good.txt": "ok",
		"bad.txt":  "{{#if values.a}}unclosed",
	})
	out := filepath.Join(t.TempDir(), "out")

	r := Render{Dir: dir, Out: out}

	err := r.Run(context.Background())
	if !errors.Is(err, ErrRender) {
		t.Fatalf("err = %v, want ErrRender", err)
	}

	if !errors.Is(err, lang.ErrUnbalancedDirective) {
		t.Errorf("err = %v, want ErrUnbalancedDirective in chain", err)
	}

	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("output dir stat = %v, want not exist", err)
	}
}

func TestRender_DryRun(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"a.txt":     "alpha",
		"empty.txt": "{{#if values.x}}x{{/if}}",
	})
	out := filepath.Join(t.TempDir(), "out")

	var buf bytes.Buffer

	r := Render{Dir: dir, Out: out, DryRun: true, SkipEmpty: true}
	if err := r.Run(outputContext(&buf)); err != nil {
		t.Fatalf("Run: %v", err)
	}

	for _, want := range []string{"OUTPUT", "a.txt", "5", "empty.txt", "skipped"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("table missing %q:\n%s", want, buf.String())
		}
	}

	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("dry run created output: %v", err)
	}
}

func TestRender_Manifest(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.txt": "${{ values.v }}"})
	out := filepath.Join(t.TempDir(), "out")
	manifest := filepath.Join(t.TempDir(), "manifest.yaml")

	r := Render{
		Dir:      dir,
		Out:      out,
		Manifest: manifest,
		Input:    Input{Set: []string{"v=value"}},
	}

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var m struct {
		Files []struct {
			Path  string `yaml:"path"`
			Bytes int    `yaml:"bytes"`
		} `yaml:"files"`
	}

	if err := yaml.Unmarshal([]byte(readFile(t, manifest)), &m); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if len(m.Files) != 1 || m.Files[0].Path != "a.txt" || m.Files[0].Bytes != 5 {
		t.Errorf("manifest = %+v", m)
	}
}

func TestRender_BadOverride(t *testing.T) {
	r := Render{Dir: t.TempDir(), Out: t.TempDir(), Input: Input{Set: []string{"novalue"}}}

	if err := r.Run(context.Background()); !errors.Is(err, ErrLoadValues) {
		t.Errorf("err = %v, want ErrLoadValues", err)
	}
}

func TestCheck(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"ok.txt":      "${{ values.name }}",
		"typo.txt":    "{{#if values.framwork == \"flask\"}}x{{/if}}",
		"broken.txt":  "line one\n{{else}}",
		"nested.txt":  "${{ values.db.hostname }}",
		"missing.txt": "${{ values.zzz }}",
	})

	var buf bytes.Buffer

	c := Check{
		Dir:   dir,
		Input: Input{Set: []string{"name=x", "framework=flask", "db.host=h"}},
	}

	err := c.Run(outputContext(&buf))
	if !errors.Is(err, ErrCheck) {
		t.Fatalf("err = %v, want ErrCheck", err)
	}

	out := buf.String()

	for _, want := range []string{
		"broken.txt:2:1:",
		"else without matching if",
		"typo.txt:1:1:",
		"values.framwork is not defined",
		"did you mean values.framework?",
		"values.db.hostname is not defined",
		"values.zzz is not defined",
		"checked 5 templates: 1 errors, 3 warnings",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if strings.Contains(out, "ok.txt") {
		t.Errorf("ok.txt reported:\n%s", out)
	}
}

func TestCheck_Strict(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.txt": "${{ values.missing }}"})

	var buf bytes.Buffer

	if err := (&Check{Dir: dir}).Run(outputContext(&buf)); err != nil {
		t.Errorf("non-strict: %v", err)
	}

	buf.Reset()

	if err := (&Check{Dir: dir, Strict: true}).Run(outputContext(&buf)); !errors.Is(err, ErrCheck) {
		t.Errorf("strict: err = %v, want ErrCheck", err)
	}
}

func TestInspect(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"t.txt": "a{{#if values.x}}${{ values.y }}{{else}}b{{/if}}",
	})
	file := filepath.Join(dir, "t.txt")

	var buf bytes.Buffer

	if err := (&Inspect{File: file}).Run(outputContext(&buf)); err != nil {
		t.Fatalf("tree: %v", err)
	}

	for _, want := range []string{
		`literal 1:1 "a"`,
		"conditional 1:2 values.x",
		"then:",
		"interpolation 1:18 values.y",
		"else:",
		`literal 1:41 "b"`,
	} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("tree missing %q:\n%s", want, buf.String())
		}
	}

	buf.Reset()

	if err := (&Inspect{File: file, Tokens: true}).Run(outputContext(&buf)); err != nil {
		t.Fatalf("tokens: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 6 {
		t.Errorf("tokens = %d lines, want 6:\n%s", len(lines), buf.String())
	}

	if !strings.Contains(lines[1], "if") {
		t.Errorf("second token = %q, want if-open", lines[1])
	}
}

func TestInspect_Unless(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"main.tsx": "{{#unless (eq uiFramework 'tailwind')}}css{{/unless}}",
	})

	var buf bytes.Buffer

	err := (&Inspect{File: filepath.Join(dir, "main.tsx")}).Run(outputContext(&buf))
	if err != nil {
		t.Fatalf("tree: %v", err)
	}

	if want := `conditional 1:1 unless uiFramework == "tailwind"`; !strings.Contains(buf.String(), want) {
		t.Errorf("tree missing %q:\n%s", want, buf.String())
	}
}

func TestInspect_Errors(t *testing.T) {
	dir := writeTree(t, map[string]string{"bad.txt": "{{/if}}"})

	err := (&Inspect{File: filepath.Join(dir, "bad.txt")}).Run(context.Background())
	if !errors.Is(err, ErrInspect) || !errors.Is(err, lang.ErrUnbalancedDirective) {
		t.Errorf("err = %v, want ErrInspect wrapping ErrUnbalancedDirective", err)
	}

	err = (&Inspect{File: filepath.Join(dir, "nope.txt")}).Run(context.Background())
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want os.ErrNotExist", err)
	}
}

func TestError_Is(t *testing.T) {
	err := ErrRender.Wrap(errors.New("boom"))

	if !errors.Is(err, ErrRender) {
		t.Error("wrapped error does not match its sentinel")
	}

	if errors.Is(err, ErrCheck) {
		t.Error("wrapped error matches an unrelated sentinel")
	}

	if got := err.Error(); got != "render template tree: boom" {
		t.Errorf("Error() = %q", got)
	}
}

func TestInspect_Formats(t *testing.T) {
	dir := writeTree(t, map[string]string{"t.txt": "{{#if (eq values.k 'v')}}${{values.x}}{{/if}}"})
	file := filepath.Join(dir, "t.txt")

	tests := map[string]string{
		"template": `{{#if values.k == "v"}}${{ values.x }}{{/if}}`,
		"json":     `"kind": "conditional"`,
		"yaml":     "kind: conditional",
	}

	for format, want := range tests {
		var buf bytes.Buffer

		if err := (&Inspect{File: file, Format: format, Indent: 2}).Run(outputContext(&buf)); err != nil {
			t.Fatalf("%s: %v", format, err)
		}

		if !strings.Contains(buf.String(), want) {
			t.Errorf("%s output missing %q:\n%s", format, want, buf.String())
		}
	}
}
