package profile

import (
	"slices"
	"testing"
)

func TestMake(t *testing.T) {
	c := Make(WithMode("cpu"), WithPath("/tmp/p"), WithQuiet(true))

	want := Config{Mode: "cpu", Path: "/tmp/p", Quiet: true}
	if c != want {
		t.Errorf("Make = %+v, want %+v", c, want)
	}

	if c := Make(); c != (Config{}) {
		t.Errorf("Make() = %+v, want zero", c)
	}
}

func TestStart_Disabled(t *testing.T) {
	for _, c := range []Config{{}, {Mode: "no-such-mode"}} {
		s := c.Start()
		if _, ok := s.(ignore); !ok {
			t.Errorf("Start(%+v) = %T, want no-op", c, s)
		}

		s.Stop()
	}
}

func TestModes(t *testing.T) {
	modes := slices.Collect(Modes())

	if !Enabled {
		if len(modes) != 0 {
			t.Errorf("Modes() = %v, want none without %s tag", modes, Tag)
		}

		return
	}

	if !slices.IsSorted(modes) || !slices.Contains(modes, "cpu") {
		t.Errorf("Modes() = %v", modes)
	}
}
