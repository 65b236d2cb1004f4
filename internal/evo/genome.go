package evo

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"grammateus/internal/model"
)

// NewRandomGenome builds a genome of exactly length codons, each drawn
// uniformly from [0, codonRange).
func NewRandomGenome(rng *rand.Rand, length, codonRange int) (model.Genome, error) {
	if rng == nil {
		return model.Genome{}, fmt.Errorf("random source is required")
	}
	if length <= 0 {
		return model.Genome{}, fmt.Errorf("genome length must be > 0")
	}
	if codonRange <= 0 {
		return model.Genome{}, fmt.Errorf("codon range must be > 0")
	}

	codons := make([]int, length)
	for i := range codons {
		codons[i] = rng.Intn(codonRange)
	}
	return model.Genome{ID: uuid.NewString(), Codons: codons}, nil
}

// NewRandomGenomeInRange builds a genome whose length is drawn uniformly
// from [minLength, maxLength].
func NewRandomGenomeInRange(rng *rand.Rand, minLength, maxLength, codonRange int) (model.Genome, error) {
	if rng == nil {
		return model.Genome{}, fmt.Errorf("random source is required")
	}
	if minLength <= 0 || maxLength < minLength {
		return model.Genome{}, fmt.Errorf("invalid genome length bounds [%d, %d]", minLength, maxLength)
	}
	length := minLength + rng.Intn(maxLength-minLength+1)
	return NewRandomGenome(rng, length, codonRange)
}

// ExtendGenome appends n random codons, returning a new genome under the
// same ID.
func ExtendGenome(rng *rand.Rand, genome model.Genome, n, codonRange int) (model.Genome, error) {
	if rng == nil {
		return model.Genome{}, fmt.Errorf("random source is required")
	}
	if n < 0 {
		return model.Genome{}, fmt.Errorf("extension length must be >= 0")
	}
	if codonRange <= 0 {
		return model.Genome{}, fmt.Errorf("codon range must be > 0")
	}

	extended := genome.Clone()
	for i := 0; i < n; i++ {
		extended.Codons = append(extended.Codons, rng.Intn(codonRange))
	}
	return extended, nil
}

// TruncateGenome drops the last n codons, never below a single codon.
func TruncateGenome(genome model.Genome, n int) model.Genome {
	truncated := genome.Clone()
	remaining := len(truncated.Codons) - n
	if remaining < 1 {
		remaining = 1
	}
	truncated.Codons = truncated.Codons[:remaining]
	return truncated
}
