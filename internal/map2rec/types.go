package map2rec

// RunConfigRecord is the strongly typed form of a run configuration file.
// JSON decodes into map[string]any; Convert turns that into this record
// while tolerating the usual numeric type drift (float64 for ints and so
// on) and ignoring unknown keys.
type RunConfigRecord struct {
	RunID              string
	Scape              string
	DatasetPath        string
	Population         int
	Generations        int
	MinGenomeLength    int
	MaxGenomeLength    int
	CodonRange         int
	TournamentSize     int
	CrossoverRate      float64
	MutationRate       float64
	EliteCount         int
	MaxDerivationSteps int
	Selection          string
	Postprocessor      string
	Seed               int64
}

func defaultRunConfigRecord() RunConfigRecord {
	return RunConfigRecord{
		Scape:           "parity",
		Population:      50,
		Generations:     100,
		MinGenomeLength: 10,
		MaxGenomeLength: 30,
		CodonRange:      256,
		TournamentSize:  3,
		CrossoverRate:   0.9,
		MutationRate:    0.1,
		Selection:       "tournament",
		Postprocessor:   "none",
		Seed:            1,
	}
}
