package evo

import (
	"fmt"
	"sort"
)

var postprocessors = map[string]func() FitnessPostprocessor{
	"none":              func() FitnessPostprocessor { return NoopFitnessPostprocessor{} },
	"size_proportional": func() FitnessPostprocessor { return SizeProportionalPostprocessor{} },
}

// PostprocessorByName resolves a fitness postprocessor from its config name.
// The empty name means none.
func PostprocessorByName(name string) (FitnessPostprocessor, error) {
	if name == "" {
		name = "none"
	}
	constructor, ok := postprocessors[name]
	if !ok {
		return nil, fmt.Errorf("unsupported fitness postprocessor: %s (have %v)", name, PostprocessorNames())
	}
	return constructor(), nil
}

func PostprocessorNames() []string {
	names := make([]string, 0, len(postprocessors))
	for name := range postprocessors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SelectorByName resolves a parent-selection strategy from its config name.
func SelectorByName(name string, tournamentSize int, direction Direction) (Selector, error) {
	switch name {
	case "", "tournament":
		return TournamentSelector{Size: tournamentSize, Direction: direction}, nil
	default:
		return nil, fmt.Errorf("unsupported selection strategy: %s", name)
	}
}
