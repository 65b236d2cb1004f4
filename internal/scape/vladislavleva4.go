package scape

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"grammateus/internal/expr"
	"grammateus/internal/grammar"
)

// UnparseablePenalty is the fitness charged to phenotypes the AST parser
// rejects. It dominates any plausible MSE on this benchmark, so such
// individuals lose selection without aborting the run.
const UnparseablePenalty Fitness = 10000

const vladislavleva4Vars = 5

// Vladislavleva4Scape scores function-set phenotypes against the
// five-variable Vladislavleva-4 benchmark by raw mean squared error; lower
// is better.
type Vladislavleva4Scape struct {
	grammar *grammar.Grammar
	data    Dataset
}

// NewVladislavleva4Scape uses the provided dataset, or generates the
// standard 1024-sample training set over [0.05, 6.05) when data is nil.
func NewVladislavleva4Scape(data Dataset) *Vladislavleva4Scape {
	if data == nil {
		data = GenerateVladislavleva4(rand.New(rand.NewSource(1)), 1024, 0.05, 6.05)
	}
	return &Vladislavleva4Scape{grammar: grammar.FunctionSet(vladislavleva4Vars), data: data}
}

func (*Vladislavleva4Scape) Name() string {
	return "vladislavleva4"
}

func (*Vladislavleva4Scape) Description() string {
	return "Vladislavleva-4 five-variable regression benchmark, raw MSE"
}

func (*Vladislavleva4Scape) Direction() string {
	return "minimize"
}

func (s *Vladislavleva4Scape) Grammar() *grammar.Grammar {
	return s.grammar
}

func (s *Vladislavleva4Scape) Evaluate(ctx context.Context, expression string) (Fitness, error) {
	if len(s.data) == 0 {
		return 0, fmt.Errorf("vladislavleva4 scape has no dataset")
	}

	node, err := expr.Parse(expression)
	if err != nil {
		return UnparseablePenalty, nil
	}

	totalError := 0.0
	for _, sample := range s.data {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		predicted := node.Eval(sample.Inputs)
		if math.IsNaN(predicted) || math.IsInf(predicted, 0) {
			return UnparseablePenalty, nil
		}
		deviation := predicted - sample.Target
		totalError += deviation * deviation
	}
	return Fitness(totalError / float64(len(s.data))), nil
}

// Vladislavleva4 is the benchmark target function over five inputs.
func Vladislavleva4(x []float64) float64 {
	sum := 0.0
	for i := 0; i < vladislavleva4Vars; i++ {
		d := x[i] - 3.0
		sum += d * d
	}
	return 10.0 / (5.0 + sum)
}

// GenerateVladislavleva4 draws samples with inputs uniform in [lo, hi) and
// targets from the benchmark function.
func GenerateVladislavleva4(rng *rand.Rand, samples int, lo, hi float64) Dataset {
	dataset := make(Dataset, 0, samples)
	for i := 0; i < samples; i++ {
		inputs := make([]float64, vladislavleva4Vars)
		for j := range inputs {
			inputs[j] = lo + rng.Float64()*(hi-lo)
		}
		dataset = append(dataset, Sample{Inputs: inputs, Target: Vladislavleva4(inputs)})
	}
	return dataset
}
