package grammar

import (
	"fmt"
	"sort"
	"strings"
)

// Production is an ordered sequence of symbols. A symbol is a non-terminal
// when it appears as a rule key in the grammar and a terminal otherwise;
// absence from the rule table is not a lookup failure.
type Production []string

func (p Production) String() string {
	return strings.Join(p, " ")
}

// Grammar is an immutable rule table mapping non-terminal symbols to their
// ordered production alternatives. Construct once with New, share freely.
type Grammar struct {
	start string
	rules map[string][]Production
}

func New(start string, rules map[string][]Production) (*Grammar, error) {
	if start == "" {
		return nil, fmt.Errorf("start symbol is required")
	}
	if len(rules) == 0 {
		return nil, fmt.Errorf("grammar requires at least one rule")
	}
	if _, ok := rules[start]; !ok {
		return nil, fmt.Errorf("start symbol %q has no rule", start)
	}
	for symbol, productions := range rules {
		if len(productions) == 0 {
			return nil, fmt.Errorf("rule %q has no productions", symbol)
		}
		for i, production := range productions {
			if len(production) == 0 {
				return nil, fmt.Errorf("rule %q production %d is empty", symbol, i)
			}
		}
	}

	copied := make(map[string][]Production, len(rules))
	for symbol, productions := range rules {
		alts := make([]Production, len(productions))
		for i, production := range productions {
			alts[i] = append(Production(nil), production...)
		}
		copied[symbol] = alts
	}
	return &Grammar{start: start, rules: copied}, nil
}

func (g *Grammar) Start() string {
	return g.start
}

// Productions returns the alternatives for a non-terminal. The second result
// is false when the symbol is a terminal.
func (g *Grammar) Productions(symbol string) ([]Production, bool) {
	productions, ok := g.rules[symbol]
	return productions, ok
}

func (g *Grammar) IsTerminal(symbol string) bool {
	_, ok := g.rules[symbol]
	return !ok
}

func (g *Grammar) NonTerminals() []string {
	symbols := make([]string, 0, len(g.rules))
	for symbol := range g.rules {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

// Arity counts the non-terminal symbols in a production.
func (g *Grammar) Arity(p Production) int {
	count := 0
	for _, symbol := range p {
		if !g.IsTerminal(symbol) {
			count++
		}
	}
	return count
}

// IsRecursive reports whether a non-terminal can reach itself through any
// chain of productions.
func (g *Grammar) IsRecursive(nonTerminal string) bool {
	if g.IsTerminal(nonTerminal) {
		return false
	}
	visited := map[string]bool{}
	return g.reaches(nonTerminal, nonTerminal, visited)
}

func (g *Grammar) reaches(from, target string, visited map[string]bool) bool {
	if visited[from] {
		return false
	}
	visited[from] = true
	for _, production := range g.rules[from] {
		for _, symbol := range production {
			if symbol == target {
				return true
			}
			if !g.IsTerminal(symbol) && g.reaches(symbol, target, visited) {
				return true
			}
		}
	}
	return false
}

// Boolean is the three-variable logic grammar used by the parity scape.
func Boolean() *Grammar {
	g, err := New("S", map[string][]Production{
		"S": {{"E"}},
		"E": {{"E", "OR", "T"}, {"T"}},
		"T": {{"T", "AND", "F"}, {"F"}},
		"F": {{"NOT", "F"}, {"A"}, {"B"}, {"C"}},
	})
	if err != nil {
		panic(err)
	}
	return g
}

// Arithmetic is the two-variable expression grammar used by the regression
// scape. Parenthesized sub-expressions keep the phenotype parseable by the
// direct recursive-descent evaluator.
func Arithmetic() *Grammar {
	g, err := New("S", map[string][]Production{
		"S": {{"E"}},
		"E": {{"E", "+", "T"}, {"E", "-", "T"}, {"T"}},
		"T": {{"T", "*", "F"}, {"T", "/", "F"}, {"F"}},
		"F": {{"x"}, {"y"}, {"(", "E", ")"}, {"1.0"}, {"2.0"}, {"3.0"}},
	})
	if err != nil {
		panic(err)
	}
	return g
}

// FunctionSet is the richer grammar for the AST evaluator family: indexed
// variables x[0]..x[n-1], pow and sqrt calls, and a small constant pool.
func FunctionSet(numVars int) *Grammar {
	if numVars <= 0 {
		numVars = 1
	}
	vars := make([]Production, numVars)
	for i := 0; i < numVars; i++ {
		vars[i] = Production{fmt.Sprintf("x[%d]", i)}
	}
	g, err := New("Expr", map[string][]Production{
		"Expr": {
			{"Expr", "+", "Term"},
			{"Expr", "-", "Term"},
			{"Expr", "*", "Term"},
			{"Expr", "/", "Term"},
			{"Term"},
		},
		"Term": {
			{"pow(", "Expr", ",", "Expr", ")"},
			{"sqrt(", "Expr", ")"},
			{"Var"},
			{"Const"},
		},
		"Var": vars,
		"Const": {
			{"1.0"}, {"2.0"}, {"3.0"}, {"5.0"}, {"10.0"},
		},
	})
	if err != nil {
		panic(err)
	}
	return g
}
