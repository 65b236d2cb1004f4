package expr

import (
	"math"
	"testing"
)

func TestEvalArith(t *testing.T) {
	vars := map[string]float64{"x": 2, "y": 3}
	cases := []struct {
		expression string
		want       float64
	}{
		{"x + y", 5},
		{"x - y", -1},
		{"x * y + 1.0", 7},
		{"x + y * 2.0", 8},
		{"( x + y ) * 2.0", 10},
		{"x / 2.0", 1},
		{"3.0", 3},
		{"y", 3},
	}
	for _, tc := range cases {
		if got := EvalArith(tc.expression, vars); got != tc.want {
			t.Fatalf("eval(%q) = %v, want %v", tc.expression, got, tc.want)
		}
	}
}

func TestEvalArithDivisionByZero(t *testing.T) {
	vars := map[string]float64{"x": 1, "y": 0}
	for _, expression := range []string{"x / y", "1.0 / ( x - x )", "2.0 + x / y"} {
		if got := EvalArith(expression, vars); !math.IsNaN(got) {
			t.Fatalf("eval(%q) = %v, want NaN", expression, got)
		}
	}
}

func TestEvalArithUnknownTokenIsZero(t *testing.T) {
	if got := EvalArith("z + 1.0", map[string]float64{"x": 5}); got != 1 {
		t.Fatalf("eval = %v, want 1 (unknown operand treated as 0)", got)
	}
}

func TestEvalArithTruncatedInput(t *testing.T) {
	vars := map[string]float64{"x": 4}
	// Missing right operand evaluates as 0 instead of failing.
	if got := EvalArith("x +", vars); got != 4 {
		t.Fatalf("eval = %v, want 4", got)
	}
	if got := EvalArith("", vars); got != 0 {
		t.Fatalf("eval empty = %v, want 0", got)
	}
}
