// Package expr evaluates the phenotype expressions emitted by grammar
// derivation. Tokens are whitespace-separated; that format is the contract
// between the mapper and every evaluator here.
package expr

import (
	"strings"

	"github.com/emirpasic/gods/stacks/arraystack"
)

// Tokenize splits a phenotype expression on whitespace.
func Tokenize(expression string) []string {
	return strings.Fields(expression)
}

// InfixToPostfix converts boolean infix tokens to postfix via shunting-yard.
// AND, OR and NOT share one precedence level and associate left; parentheses
// group as usual. Unknown tokens pass through to the output as operands.
func InfixToPostfix(tokens []string) []string {
	output := make([]string, 0, len(tokens))
	operators := arraystack.New()

	for _, token := range tokens {
		switch token {
		case "AND", "OR":
			for {
				top, ok := operators.Peek()
				if !ok {
					break
				}
				op := top.(string)
				if op != "AND" && op != "OR" && op != "NOT" {
					break
				}
				operators.Pop()
				output = append(output, op)
			}
			operators.Push(token)
		case "NOT", "(":
			operators.Push(token)
		case ")":
			for {
				top, ok := operators.Pop()
				if !ok {
					break
				}
				op := top.(string)
				if op == "(" {
					break
				}
				output = append(output, op)
			}
		default:
			output = append(output, token)
		}
	}

	for {
		top, ok := operators.Pop()
		if !ok {
			break
		}
		output = append(output, top.(string))
	}
	return output
}

// EvalPostfix evaluates postfix boolean tokens against a variable assignment.
// The second result is false for malformed input: an operator without enough
// operands, or a final stack that does not hold exactly one value. Tokens
// absent from the assignment are skipped, matching the tolerant behavior of
// the infix converter.
func EvalPostfix(postfix []string, assignment map[string]bool) (bool, bool) {
	var stack []bool

	for _, token := range postfix {
		switch token {
		case "AND", "OR":
			if len(stack) < 2 {
				return false, false
			}
			right := stack[len(stack)-1]
			left := stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			if token == "AND" {
				stack = append(stack, left && right)
			} else {
				stack = append(stack, left || right)
			}
		case "NOT":
			if len(stack) < 1 {
				return false, false
			}
			stack[len(stack)-1] = !stack[len(stack)-1]
		default:
			if value, ok := assignment[token]; ok {
				stack = append(stack, value)
			}
		}
	}

	if len(stack) != 1 {
		return false, false
	}
	return stack[0], true
}

// EvalBool evaluates an infix boolean expression. Malformed expressions
// evaluate to false rather than failing, so a whole population can be scored
// without special cases.
func EvalBool(expression string, assignment map[string]bool) bool {
	postfix := InfixToPostfix(Tokenize(expression))
	result, ok := EvalPostfix(postfix, assignment)
	if !ok {
		return false
	}
	return result
}
