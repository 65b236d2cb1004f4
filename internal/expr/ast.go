package expr

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NodeKind tags the variants of the expression tree.
type NodeKind int

const (
	Add NodeKind = iota
	Sub
	Mul
	Div
	Pow
	Sqrt
	Variable
	Constant
)

// Node is one vertex of a parsed expression tree. Each internal node
// exclusively owns its children; the tree is acyclic by construction.
type Node struct {
	Kind  NodeKind
	Left  *Node
	Right *Node
	Index int     // Variable
	Value float64 // Constant
}

// ParseError reports where and why parsing stopped. It is distinguishable
// from evaluation-domain errors, which surface as NaN instead.
type ParseError struct {
	Pos   int
	Token string
	Msg   string
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("parse error at token %d: %s", e.Pos, e.Msg)
	}
	return fmt.Sprintf("parse error at token %d (%q): %s", e.Pos, e.Token, e.Msg)
}

// Parse builds an expression tree from the function-set phenotype format:
// binary operators + - * / at one precedence level, left-associative, plus
// "pow( a , b )" and "sqrt( a )" calls, indexed variables "x[i]" and numeric
// literals.
func Parse(expression string) (*Node, error) {
	tokens := Tokenize(expression)
	node, pos, err := parseExpr(tokens, 0)
	if err != nil {
		return nil, err
	}
	if pos != len(tokens) {
		return nil, &ParseError{Pos: pos, Token: tokens[pos], Msg: "trailing input"}
	}
	return node, nil
}

func parseExpr(tokens []string, pos int) (*Node, int, error) {
	left, pos, err := parseCallOrLeaf(tokens, pos)
	if err != nil {
		return nil, pos, err
	}

	for pos < len(tokens) {
		var kind NodeKind
		switch tokens[pos] {
		case "+":
			kind = Add
		case "-":
			kind = Sub
		case "*":
			kind = Mul
		case "/":
			kind = Div
		default:
			return left, pos, nil
		}

		right, next, err := parseCallOrLeaf(tokens, pos+1)
		if err != nil {
			return nil, next, err
		}
		left = &Node{Kind: kind, Left: left, Right: right}
		pos = next
	}
	return left, pos, nil
}

func parseCallOrLeaf(tokens []string, pos int) (*Node, int, error) {
	if pos >= len(tokens) {
		return nil, pos, &ParseError{Pos: pos, Msg: "unexpected end of expression"}
	}

	token := tokens[pos]
	switch {
	case token == "pow(":
		base, next, err := parseExpr(tokens, pos+1)
		if err != nil {
			return nil, next, err
		}
		if next >= len(tokens) || tokens[next] != "," {
			return nil, next, &ParseError{Pos: next, Token: tokenAt(tokens, next), Msg: "expected ',' in pow"}
		}
		exponent, after, err := parseExpr(tokens, next+1)
		if err != nil {
			return nil, after, err
		}
		if after >= len(tokens) || tokens[after] != ")" {
			return nil, after, &ParseError{Pos: after, Token: tokenAt(tokens, after), Msg: "expected ')' after pow"}
		}
		return &Node{Kind: Pow, Left: base, Right: exponent}, after + 1, nil

	case token == "sqrt(":
		arg, next, err := parseExpr(tokens, pos+1)
		if err != nil {
			return nil, next, err
		}
		if next >= len(tokens) || tokens[next] != ")" {
			return nil, next, &ParseError{Pos: next, Token: tokenAt(tokens, next), Msg: "expected ')' after sqrt"}
		}
		return &Node{Kind: Sqrt, Left: arg}, next + 1, nil

	case strings.HasPrefix(token, "x[") && strings.HasSuffix(token, "]"):
		index, err := strconv.Atoi(token[2 : len(token)-1])
		if err != nil || index < 0 {
			return nil, pos, &ParseError{Pos: pos, Token: token, Msg: "invalid variable index"}
		}
		return &Node{Kind: Variable, Index: index}, pos + 1, nil

	default:
		value, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return nil, pos, &ParseError{Pos: pos, Token: token, Msg: "unexpected token"}
		}
		return &Node{Kind: Constant, Value: value}, pos + 1, nil
	}
}

func tokenAt(tokens []string, pos int) string {
	if pos >= len(tokens) {
		return ""
	}
	return tokens[pos]
}

// Eval walks the tree against an input vector. Domain errors propagate as
// NaN: division by zero, negative square root operands, and variable indexes
// outside the input vector.
func (n *Node) Eval(inputs []float64) float64 {
	switch n.Kind {
	case Add:
		return n.Left.Eval(inputs) + n.Right.Eval(inputs)
	case Sub:
		return n.Left.Eval(inputs) - n.Right.Eval(inputs)
	case Mul:
		return n.Left.Eval(inputs) * n.Right.Eval(inputs)
	case Div:
		divisor := n.Right.Eval(inputs)
		if divisor == 0 {
			return math.NaN()
		}
		return n.Left.Eval(inputs) / divisor
	case Pow:
		return math.Pow(n.Left.Eval(inputs), n.Right.Eval(inputs))
	case Sqrt:
		return math.Sqrt(n.Left.Eval(inputs))
	case Variable:
		if n.Index >= len(inputs) {
			return math.NaN()
		}
		return inputs[n.Index]
	case Constant:
		return n.Value
	default:
		return math.NaN()
	}
}
