package scape

import (
	"context"
	"testing"
)

func TestParityScapeKnownExpressions(t *testing.T) {
	s := NewParityScape()
	ctx := context.Background()

	cases := []struct {
		expression string
		want       Fitness
	}{
		// A single variable agrees with A XOR B XOR C exactly when B == C.
		{"A", 4},
		// A constant-false malformed expression matches the four false rows.
		{"AND", 4},
		{"NOT A", 4},
	}
	for _, tc := range cases {
		got, err := s.Evaluate(ctx, tc.expression)
		if err != nil {
			t.Fatalf("evaluate(%q): %v", tc.expression, err)
		}
		if got != tc.want {
			t.Fatalf("fitness(%q) = %v, want %v", tc.expression, got, tc.want)
		}
	}
}

func TestParityScapeFitnessBounds(t *testing.T) {
	s := NewParityScape()
	got, err := s.Evaluate(context.Background(), "NOT NOT A AND B")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got < 0 || got > s.MaxFitness() {
		t.Fatalf("fitness %v outside [0, %v]", got, s.MaxFitness())
	}
}

func TestParityScapeDirectionAndGrammar(t *testing.T) {
	s := NewParityScape()
	if s.Direction() != "maximize" {
		t.Fatalf("direction = %q", s.Direction())
	}
	if s.Grammar().Start() != "S" {
		t.Fatalf("grammar start = %q", s.Grammar().Start())
	}
}
