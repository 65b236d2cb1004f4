package scape

import (
	"context"
	"fmt"
	"sort"

	"grammateus/internal/grammar"
)

type Fitness float64

// Scape is a pluggable fitness problem. It supplies the grammar phenotypes
// are derived from, the direction in which its fitness improves, and the
// scoring itself. Evaluate never fails on a malformed expression; bad
// individuals receive a penalty score so the engine can rank a whole
// population uniformly.
type Scape interface {
	Name() string
	Description() string
	Direction() string
	Grammar() *grammar.Grammar
	Evaluate(ctx context.Context, expression string) (Fitness, error)
}

var builtins = map[string]func() Scape{
	"parity":         func() Scape { return NewParityScape() },
	"regression":     func() Scape { return NewRegressionScape(nil) },
	"vladislavleva4": func() Scape { return NewVladislavleva4Scape(nil) },
}

// ByName constructs a built-in scape with its default dataset.
func ByName(name string) (Scape, error) {
	constructor, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("unknown scape: %s (have %v)", name, Names())
	}
	return constructor(), nil
}

func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
