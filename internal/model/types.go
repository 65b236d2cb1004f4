package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// Genome is a codon string: an ordered sequence of non-negative integers.
// Codons are interpreted modulo production count at derivation time, so the
// stored values carry no upper bound of their own.
type Genome struct {
	VersionedRecord
	ID     string `json:"id"`
	Codons []int  `json:"codons"`
}

// Clone returns a deep copy; populations never alias codon slices.
func (g Genome) Clone() Genome {
	codons := make([]int, len(g.Codons))
	copy(codons, g.Codons)
	clone := g
	clone.Codons = codons
	return clone
}

type RunRecord struct {
	VersionedRecord
	ID             string  `json:"id"`
	CreatedAtUTC   string  `json:"created_at_utc"`
	Scape          string  `json:"scape"`
	Seed           int64   `json:"seed"`
	PopulationSize int     `json:"population_size"`
	Generations    int     `json:"generations"`
	Direction      string  `json:"direction"`
	BestFitness    float64 `json:"best_fitness"`
	BestPhenotype  string  `json:"best_phenotype"`
	BestGenomeID   string  `json:"best_genome_id"`
	Evaluations    int     `json:"evaluations"`
}

type GenerationSummary struct {
	Generation    int     `json:"generation"`
	BestFitness   float64 `json:"best_fitness"`
	MeanFitness   float64 `json:"mean_fitness"`
	WorstFitness  float64 `json:"worst_fitness"`
	InvalidCount  int     `json:"invalid_count"`
	BestPhenotype string  `json:"best_phenotype"`
}

type ScapeSummary struct {
	VersionedRecord
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Direction   string  `json:"direction"`
	BestFitness float64 `json:"best_fitness"`
}
