package scape

import (
	"context"
	"fmt"
	"math"

	"grammateus/internal/expr"
	"grammateus/internal/grammar"
)

// RegressionScape scores two-variable arithmetic phenotypes against a
// dataset by mean squared error, reported as the bounded score 1/(1+mse) so
// the engine maximizes. Expressions producing non-finite predictions score
// zero, the worst value the transform can produce.
type RegressionScape struct {
	grammar *grammar.Grammar
	data    Dataset
}

// NewRegressionScape uses the provided dataset, or a small built-in sample
// set when data is nil.
func NewRegressionScape(data Dataset) *RegressionScape {
	if data == nil {
		data = Dataset{
			{Inputs: []float64{0.1, 0.3}, Target: 0.31},
			{Inputs: []float64{0.2, 0.6}, Target: 0.59},
		}
	}
	return &RegressionScape{grammar: grammar.Arithmetic(), data: data}
}

func (*RegressionScape) Name() string {
	return "regression"
}

func (*RegressionScape) Description() string {
	return "two-variable symbolic regression, score 1/(1+mse)"
}

func (*RegressionScape) Direction() string {
	return "maximize"
}

func (s *RegressionScape) Grammar() *grammar.Grammar {
	return s.grammar
}

func (s *RegressionScape) Evaluate(ctx context.Context, expression string) (Fitness, error) {
	if len(s.data) == 0 {
		return 0, fmt.Errorf("regression scape has no dataset")
	}

	totalError := 0.0
	for _, sample := range s.data {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		vars := map[string]float64{"x": sample.Inputs[0]}
		if len(sample.Inputs) > 1 {
			vars["y"] = sample.Inputs[1]
		}
		predicted := expr.EvalArith(expression, vars)
		if math.IsNaN(predicted) || math.IsInf(predicted, 0) {
			return 0, nil
		}
		deviation := predicted - sample.Target
		totalError += deviation * deviation
	}

	mse := totalError / float64(len(s.data))
	return Fitness(1.0 / (1.0 + mse)), nil
}

// Predict evaluates a phenotype at one input point, for reporting on data
// outside the training set.
func (s *RegressionScape) Predict(expression string, x, y float64) float64 {
	return expr.EvalArith(expression, map[string]float64{"x": x, "y": y})
}
