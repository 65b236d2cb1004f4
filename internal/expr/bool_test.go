package expr

import (
	"reflect"
	"testing"
)

func TestInfixToPostfix(t *testing.T) {
	got := InfixToPostfix([]string{"A", "AND", "B", "OR", "C"})
	want := []string{"A", "B", "AND", "C", "OR"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("postfix = %v, want %v", got, want)
	}
}

func TestInfixToPostfixParentheses(t *testing.T) {
	got := InfixToPostfix([]string{"A", "AND", "(", "B", "OR", "C", ")"})
	want := []string{"A", "B", "C", "OR", "AND"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("postfix = %v, want %v", got, want)
	}
}

func TestInfixToPostfixNotBinds(t *testing.T) {
	got := InfixToPostfix([]string{"NOT", "A", "AND", "B"})
	want := []string{"A", "NOT", "B", "AND"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("postfix = %v, want %v", got, want)
	}
}

func TestEvalPostfix(t *testing.T) {
	assignment := map[string]bool{"A": true, "B": false, "C": true}
	result, ok := EvalPostfix([]string{"A", "B", "AND", "C", "OR"}, assignment)
	if !ok {
		t.Fatal("expected well-formed postfix")
	}
	if !result {
		t.Fatal("A AND B OR C with A=T B=F C=T should be true")
	}
}

func TestEvalPostfixArityViolations(t *testing.T) {
	assignment := map[string]bool{"A": true}
	cases := [][]string{
		{"AND"},
		{"A", "AND"},
		{"NOT"},
		{"A", "A", "A", "AND"}, // final stack size 2
		{},
	}
	for _, postfix := range cases {
		result, ok := EvalPostfix(postfix, assignment)
		if ok {
			t.Fatalf("postfix %v should be malformed", postfix)
		}
		if result {
			t.Fatalf("malformed postfix %v must default to false", postfix)
		}
	}
}

func TestEvalBoolTruthTable(t *testing.T) {
	expression := "A AND B OR C"
	cases := []struct {
		a, b, c bool
		want    bool
	}{
		{false, false, false, false},
		{false, false, true, true},
		{true, true, false, true},
		{true, false, false, false},
		{true, false, true, true},
	}
	for _, tc := range cases {
		assignment := map[string]bool{"A": tc.a, "B": tc.b, "C": tc.c}
		if got := EvalBool(expression, assignment); got != tc.want {
			t.Fatalf("eval(%q, A=%v B=%v C=%v) = %v, want %v", expression, tc.a, tc.b, tc.c, got, tc.want)
		}
	}
}

func TestEvalBoolMalformedDefaultsFalse(t *testing.T) {
	assignment := map[string]bool{"A": true, "B": true, "C": true}
	for _, expression := range []string{"AND A", "NOT", "A B", ""} {
		if EvalBool(expression, assignment) {
			t.Fatalf("malformed expression %q must evaluate to false", expression)
		}
	}
}

func TestEvalBoolDerivedPhenotype(t *testing.T) {
	// Phenotype of genome [0,1,2,3,4] through the boolean grammar.
	expression := "NOT NOT A AND B"
	assignment := map[string]bool{"A": true, "B": true, "C": false}
	if !EvalBool(expression, assignment) {
		t.Fatal("NOT NOT A AND B with A=B=true should be true")
	}
	assignment["B"] = false
	if EvalBool(expression, assignment) {
		t.Fatal("NOT NOT A AND B with B=false should be false")
	}
}
