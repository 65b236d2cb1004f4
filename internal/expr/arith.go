package expr

import (
	"math"
	"strconv"
)

// state is an explicit parser cursor over the token slice. Sub-parsers take
// a state and return the advanced one alongside their value.
type state struct {
	tokens []string
	pos    int
}

func (s state) peek() (string, bool) {
	if s.pos >= len(s.tokens) {
		return "", false
	}
	return s.tokens[s.pos], true
}

func (s state) next() state {
	s.pos++
	return s
}

// EvalArith evaluates an arithmetic infix expression directly, without an
// intermediate tree. The grammar is
//
//	E -> T (('+'|'-') T)*
//	T -> F (('*'|'/') F)*
//	F -> variable | literal | '(' E ')'
//
// Division by zero yields NaN. Unknown tokens evaluate to 0, and a missing
// operand at end of input evaluates to 0, mirroring the tolerant fitness
// semantics: a bad expression scores poorly instead of aborting the run.
func EvalArith(expression string, vars map[string]float64) float64 {
	value, _ := parseSum(state{tokens: Tokenize(expression)}, vars)
	return value
}

func parseSum(st state, vars map[string]float64) (float64, state) {
	value, st := parseProduct(st, vars)
	for {
		token, ok := st.peek()
		if !ok {
			break
		}
		switch token {
		case "+":
			var rhs float64
			rhs, st = parseProduct(st.next(), vars)
			value += rhs
		case "-":
			var rhs float64
			rhs, st = parseProduct(st.next(), vars)
			value -= rhs
		default:
			return value, st
		}
	}
	return value, st
}

func parseProduct(st state, vars map[string]float64) (float64, state) {
	value, st := parseFactor(st, vars)
	for {
		token, ok := st.peek()
		if !ok {
			break
		}
		switch token {
		case "*":
			var rhs float64
			rhs, st = parseFactor(st.next(), vars)
			value *= rhs
		case "/":
			var divisor float64
			divisor, st = parseFactor(st.next(), vars)
			if divisor == 0 {
				value = math.NaN()
			} else {
				value /= divisor
			}
		default:
			return value, st
		}
	}
	return value, st
}

func parseFactor(st state, vars map[string]float64) (float64, state) {
	token, ok := st.peek()
	if !ok {
		return 0, st
	}

	if value, bound := vars[token]; bound {
		return value, st.next()
	}
	if token == "(" {
		value, st := parseSum(st.next(), vars)
		if closing, ok := st.peek(); ok && closing == ")" {
			st = st.next()
		}
		return value, st
	}

	value, err := strconv.ParseFloat(token, 64)
	if err != nil {
		value = 0
	}
	return value, st.next()
}
