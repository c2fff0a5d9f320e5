package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/skel/pkg"
)

func mustResolve(t *testing.T, doc string) config {
	t.Helper()

	r, err := resolve(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	return r.(config)
}

func TestResolve_Flatten(t *testing.T) {
	c := mustResolve(t, `
log_level: debug
log:
  format: json
  pretty: false
render:
  jobs: 4
  skip_empty: true
  set: [a=1, b.c=two]
ratio: 0.5
`)

	want := map[string]any{
		"log-level":         "debug",
		"log-format":        "json",
		"log-pretty":        false,
		"render-jobs":       "4",
		"render-skip-empty": true,
		"ratio":             "0.5",
	}

	for k, v := range want {
		if got, ok := c[k]; !ok || got != v {
			t.Errorf("config[%q] = %#v (%v), want %#v", k, got, ok, v)
		}
	}

	set, ok := c["render-set"].([]any)
	if !ok || len(set) != 2 || set[0] != "a=1" || set[1] != "b.c=two" {
		t.Errorf("config[render-set] = %#v", c["render-set"])
	}
}

func TestResolve_Empty(t *testing.T) {
	if c := mustResolve(t, ""); len(c) != 0 {
		t.Errorf("config = %v, want empty", c)
	}
}

func TestResolve_Malformed(t *testing.T) {
	_, err := resolve(strings.NewReader("log: [unterminated"))
	if !errors.Is(err, pkg.ErrParse) {
		t.Errorf("err = %v, want ErrParse", err)
	}
}

func TestConfig_Resolve(t *testing.T) {
	c := config{
		"jobs":        "2",
		"render-jobs": "8",
		"log-level":   "warn",
	}

	render := &kong.Path{Command: &kong.Command{Name: "render"}}
	check := &kong.Path{Command: &kong.Command{Name: "check"}}

	tests := []struct {
		name   string
		parent *kong.Path
		flag   string
		want   any
	}{
		{"command qualified", render, "jobs", "8"},
		{"global fallback", check, "jobs", "2"},
		{"no command", nil, "log-level", "warn"},
		{"missing", render, "dry-run", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := &kong.Flag{Value: &kong.Value{Name: tt.flag}}

			got, err := c.Resolve(nil, tt.parent, flag)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}

			if got != tt.want {
				t.Errorf("Resolve(%q) = %#v, want %#v", tt.flag, got, tt.want)
			}
		})
	}
}
