package main

import (
	"encoding/json"
	"fmt"
	"os"

	"grammateus/internal/map2rec"
	geapi "grammateus/pkg/grammateus"
)

func loadRunRequestFromConfig(path string) (geapi.RunRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return geapi.RunRequest{}, err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return geapi.RunRequest{}, err
	}

	rec := map2rec.ConvertRunConfig(raw)
	return geapi.RunRequest{
		RunID:                rec.RunID,
		Scape:                rec.Scape,
		DatasetPath:          rec.DatasetPath,
		Population:           rec.Population,
		Generations:          rec.Generations,
		MinGenomeLength:      rec.MinGenomeLength,
		MaxGenomeLength:      rec.MaxGenomeLength,
		CodonRange:           rec.CodonRange,
		TournamentSize:       rec.TournamentSize,
		CrossoverRate:        rec.CrossoverRate,
		MutationRate:         rec.MutationRate,
		EliteCount:           rec.EliteCount,
		MaxDerivationSteps:   rec.MaxDerivationSteps,
		Selection:            rec.Selection,
		FitnessPostprocessor: rec.Postprocessor,
		Seed:                 rec.Seed,
	}, nil
}

func loadOrDefaultRunRequest(configPath string) (geapi.RunRequest, error) {
	if configPath == "" {
		return geapi.RunRequest{}, nil
	}
	req, err := loadRunRequestFromConfig(configPath)
	if err != nil {
		return geapi.RunRequest{}, fmt.Errorf("load config: %w", err)
	}
	return req, nil
}

// overrideFromFlags applies only the flags the user actually set on the
// command line on top of a config-file request.
func overrideFromFlags(req *geapi.RunRequest, set map[string]bool, flagValue map[string]any) {
	for name := range set {
		v, ok := flagValue[name]
		if !ok {
			continue
		}
		switch name {
		case "run-id":
			req.RunID = v.(string)
		case "scape":
			req.Scape = v.(string)
		case "dataset":
			req.DatasetPath = v.(string)
		case "pop":
			req.Population = v.(int)
		case "gens":
			req.Generations = v.(int)
		case "min-length":
			req.MinGenomeLength = v.(int)
		case "max-length":
			req.MaxGenomeLength = v.(int)
		case "codon-range":
			req.CodonRange = v.(int)
		case "tournament":
			req.TournamentSize = v.(int)
		case "crossover-rate":
			req.CrossoverRate = v.(float64)
		case "mutation-rate":
			req.MutationRate = v.(float64)
		case "elites":
			req.EliteCount = v.(int)
		case "max-steps":
			req.MaxDerivationSteps = v.(int)
		case "selection":
			req.Selection = v.(string)
		case "fitness-postprocessor":
			req.FitnessPostprocessor = v.(string)
		case "seed":
			req.Seed = v.(int64)
		}
	}
}
