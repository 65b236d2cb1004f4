package scape

import (
	"context"

	"grammateus/internal/expr"
	"grammateus/internal/grammar"
)

// ParityScape scores boolean phenotypes against the 3-input XOR truth
// table. Fitness is the number of matching rows out of 8; higher is better.
type ParityScape struct {
	grammar *grammar.Grammar
}

func NewParityScape() *ParityScape {
	return &ParityScape{grammar: grammar.Boolean()}
}

func (*ParityScape) Name() string {
	return "parity"
}

func (*ParityScape) Description() string {
	return "3-input XOR truth table match count"
}

func (*ParityScape) Direction() string {
	return "maximize"
}

func (s *ParityScape) Grammar() *grammar.Grammar {
	return s.grammar
}

// MaxFitness is the row count of the truth table, reached by an exact
// solution.
func (*ParityScape) MaxFitness() Fitness {
	return 8
}

func (s *ParityScape) Evaluate(ctx context.Context, expression string) (Fitness, error) {
	matches := 0
	for i := 0; i < 8; i++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		a := i&4 != 0
		b := i&2 != 0
		c := i&1 != 0
		assignment := map[string]bool{"A": a, "B": b, "C": c}
		if expr.EvalBool(expression, assignment) == (a != b != c) {
			matches++
		}
	}
	return Fitness(matches), nil
}
