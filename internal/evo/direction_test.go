package evo

import "testing"

func TestParseDirection(t *testing.T) {
	if _, err := ParseDirection("maximize"); err != nil {
		t.Fatalf("parse maximize: %v", err)
	}
	if _, err := ParseDirection("minimize"); err != nil {
		t.Fatalf("parse minimize: %v", err)
	}
	if _, err := ParseDirection("upward"); err == nil {
		t.Fatal("expected error for unknown direction")
	}
}

func TestBetterIsStrict(t *testing.T) {
	if Maximize.Better(1, 1) || Minimize.Better(1, 1) {
		t.Fatal("ties must not count as better")
	}
	if !Maximize.Better(2, 1) {
		t.Fatal("maximize: 2 should beat 1")
	}
	if !Minimize.Better(1, 2) {
		t.Fatal("minimize: 1 should beat 2")
	}
}

func TestWorstLosesEveryComparison(t *testing.T) {
	for _, d := range []Direction{Maximize, Minimize} {
		if d.Better(d.Worst(), 0) {
			t.Fatalf("%s worst sentinel must not beat a real score", d)
		}
		if !d.Better(0, d.Worst()) {
			t.Fatalf("%s real score must beat the worst sentinel", d)
		}
	}
}
