package map2rec

func Convert(kind string, in map[string]any) (any, error) {
	switch kind {
	case "run_config":
		return ConvertRunConfig(in), nil
	default:
		return nil, ErrUnsupportedKind
	}
}

func ConvertRunConfig(in map[string]any) RunConfigRecord {
	out := defaultRunConfigRecord()
	for key, val := range in {
		switch key {
		case "run_id":
			if s, ok := asString(val); ok {
				out.RunID = s
			}
		case "scape":
			if s, ok := asString(val); ok {
				out.Scape = s
			}
		case "dataset_path":
			if s, ok := asString(val); ok {
				out.DatasetPath = s
			}
		case "population_size":
			if n, ok := asInt(val); ok {
				out.Population = n
			}
		case "generations":
			if n, ok := asInt(val); ok {
				out.Generations = n
			}
		case "min_genome_length":
			if n, ok := asInt(val); ok {
				out.MinGenomeLength = n
			}
		case "max_genome_length":
			if n, ok := asInt(val); ok {
				out.MaxGenomeLength = n
			}
		case "codon_range":
			if n, ok := asInt(val); ok {
				out.CodonRange = n
			}
		case "tournament_size":
			if n, ok := asInt(val); ok {
				out.TournamentSize = n
			}
		case "crossover_rate":
			if f, ok := asFloat64(val); ok {
				out.CrossoverRate = f
			}
		case "mutation_rate":
			if f, ok := asFloat64(val); ok {
				out.MutationRate = f
			}
		case "elite_count":
			if n, ok := asInt(val); ok {
				out.EliteCount = n
			}
		case "max_derivation_steps":
			if n, ok := asInt(val); ok {
				out.MaxDerivationSteps = n
			}
		case "selection":
			if s, ok := asString(val); ok {
				out.Selection = s
			}
		case "fitness_postprocessor":
			if s, ok := asString(val); ok {
				out.Postprocessor = s
			}
		case "seed":
			if n, ok := asInt64(val); ok {
				out.Seed = n
			}
		}
	}
	return out
}
