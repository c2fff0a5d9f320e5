package gen

import (
	"fmt"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/skel/lang"
)

func TestResult_Manifest(t *testing.T) {
	files := map[string]string{
		"a.txt":     "alpha",
		"empty.txt": "{{#if values.on}}x{{/if}}",
	}

	res := mustRun(t, files, lang.Map{}, WithEmpty(EmptySkip))

	data, err := res.Manifest()
	if err != nil {
		t.Fatalf("Manifest: %v", err)
	}

	var got manifest
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v\n%s", err, data)
	}

	if len(got.Files) != 1 {
		t.Fatalf("files = %+v", got.Files)
	}

	f := got.Files[0]
	if f.Path != "a.txt" || f.Source != "a.txt" || f.Bytes != 5 {
		t.Errorf("file = %+v", f)
	}

	if want := fmt.Sprintf("%016x", xxh3.HashString("alpha")); f.Hash != want {
		t.Errorf("hash = %q, want %q", f.Hash, want)
	}

	if len(got.Skipped) != 1 || got.Skipped[0] != "empty.txt" {
		t.Errorf("skipped = %v", got.Skipped)
	}
}
