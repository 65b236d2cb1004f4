package grammar

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/stacks/arraystack"
)

// DefaultMaxSteps bounds a single derivation. Recursive grammars fed by
// adversarial codon strings would otherwise expand forever.
const DefaultMaxSteps = 1000

// Phenotype is the terminal-symbol string produced by a derivation.
// Valid is false when the step cap cut the derivation short; the expression
// then holds the partial output and must be penalized, not rejected, by the
// fitness layer.
type Phenotype struct {
	Expression string
	Tokens     []string
	Valid      bool
	Steps      int
	CodonsUsed int
}

// Mapper expands a codon string into a phenotype. The zero value uses
// DefaultMaxSteps.
type Mapper struct {
	MaxSteps int
}

// Expand runs the stack-based derivation: pop a symbol, and either emit it
// (terminal) or replace it with the production selected by the next codon.
// The codon cursor wraps cyclically over the genome, so codons are reused
// once exhausted. An empty genome is a configuration error.
func (m Mapper) Expand(codons []int, g *Grammar) (Phenotype, error) {
	if g == nil {
		return Phenotype{}, fmt.Errorf("grammar is required")
	}
	if len(codons) == 0 {
		return Phenotype{}, fmt.Errorf("genome must contain at least one codon")
	}

	maxSteps := m.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}

	symbols := arraystack.New()
	symbols.Push(g.Start())

	var tokens []string
	cursor := 0
	steps := 0

	for !symbols.Empty() {
		if steps >= maxSteps {
			return Phenotype{
				Expression: strings.Join(tokens, " "),
				Tokens:     tokens,
				Valid:      false,
				Steps:      steps,
				CodonsUsed: cursor,
			}, nil
		}
		steps++

		top, _ := symbols.Pop()
		symbol := top.(string)

		productions, ok := g.Productions(symbol)
		if !ok {
			tokens = append(tokens, symbol)
			continue
		}

		codon := codons[cursor%len(codons)]
		cursor++
		production := productions[codon%len(productions)]
		// Push in reverse so the production expands left to right.
		for i := len(production) - 1; i >= 0; i-- {
			symbols.Push(production[i])
		}
	}

	return Phenotype{
		Expression: strings.Join(tokens, " "),
		Tokens:     tokens,
		Valid:      true,
		Steps:      steps,
		CodonsUsed: cursor,
	}, nil
}
