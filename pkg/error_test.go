package pkg

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_WrapMatchesSentinel(t *testing.T) {
	err := ErrParse.Wrap(errors.New("line 3: bad indent"))

	if !errors.Is(err, ErrParse) {
		t.Error("wrapped error does not match ErrParse")
	}

	if errors.Is(err, ErrReadInput) {
		t.Error("wrapped error matches ErrReadInput")
	}

	if got, want := err.Error(), "parse error: line 3: bad indent"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	if !errors.Is(fmt.Errorf("load: %w", err), ErrParse) {
		t.Error("fmt-wrapped chain does not match ErrParse")
	}
}

func TestError_WrapDoesNotMutateSentinel(t *testing.T) {
	a := ErrInvalidOverride.Wrapf("missing %q", "=")
	b := ErrInvalidOverride.Wrapf("empty path")

	if len(ErrInvalidOverride) != 1 {
		t.Fatalf("sentinel grew to %d errors", len(ErrInvalidOverride))
	}

	if a.Error() == b.Error() {
		t.Errorf("wraps share storage: %q", a.Error())
	}
}

func TestError_UnwrapFindsCause(t *testing.T) {
	cause := errors.New("permission denied")
	err := ErrReadInput.Wrap(cause)

	if !errors.Is(err, cause) {
		t.Error("cause not reachable through Unwrap")
	}
}

func TestMakeError_SkipsNil(t *testing.T) {
	if e := MakeError(nil, nil); len(e) != 0 {
		t.Errorf("MakeError(nil, nil) = %v", e)
	}
}
