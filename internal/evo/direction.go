package evo

import (
	"fmt"
	"math"
)

// Direction states which way fitness improves. It is a property of the
// chosen scape, not of the engine loop; the engine is always told which way
// to optimize instead of hard-coding a comparison.
type Direction string

const (
	Maximize Direction = "maximize"
	Minimize Direction = "minimize"
)

func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Maximize, Minimize:
		return Direction(s), nil
	default:
		return "", fmt.Errorf("unknown optimization direction: %q", s)
	}
}

// Better reports whether a is strictly better than b. Ties are never
// better, which keeps the all-time-best ratchet monotonic.
func (d Direction) Better(a, b float64) bool {
	if d == Minimize {
		return a < b
	}
	return a > b
}

// Worst is the sentinel assigned to invalid individuals: it loses every
// comparison but keeps the individual in the population. It is finite so
// that fitness values stay JSON-encodable for persistence.
func (d Direction) Worst() float64 {
	if d == Minimize {
		return math.MaxFloat64
	}
	return -math.MaxFloat64
}
