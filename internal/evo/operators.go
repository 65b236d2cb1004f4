package evo

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"grammateus/internal/model"
)

// OnePointCrossover cuts both parents at one index drawn uniformly from
// [0, min(len(parent1), len(parent2))) and swaps the suffixes. The children
// are new genomes; total codon count is preserved.
func OnePointCrossover(rng *rand.Rand, parent1, parent2 model.Genome) (model.Genome, model.Genome, error) {
	if rng == nil {
		return model.Genome{}, model.Genome{}, fmt.Errorf("random source is required")
	}
	if len(parent1.Codons) == 0 || len(parent2.Codons) == 0 {
		return model.Genome{}, model.Genome{}, fmt.Errorf("crossover parents must be non-empty")
	}

	shorter := len(parent1.Codons)
	if len(parent2.Codons) < shorter {
		shorter = len(parent2.Codons)
	}
	cut := rng.Intn(shorter)

	child1 := model.Genome{ID: uuid.NewString(), Codons: crossCodons(parent1.Codons, parent2.Codons, cut)}
	child2 := model.Genome{ID: uuid.NewString(), Codons: crossCodons(parent2.Codons, parent1.Codons, cut)}
	return child1, child2, nil
}

func crossCodons(prefix, suffix []int, cut int) []int {
	codons := make([]int, 0, len(suffix))
	codons = append(codons, prefix[:cut]...)
	codons = append(codons, suffix[cut:]...)
	return codons
}

// PointMutate replaces one codon, chosen uniformly, with a fresh value drawn
// uniformly from [0, codonRange). The input genome is not modified.
func PointMutate(rng *rand.Rand, genome model.Genome, codonRange int) (model.Genome, error) {
	if rng == nil {
		return model.Genome{}, fmt.Errorf("random source is required")
	}
	if len(genome.Codons) == 0 {
		return model.Genome{}, fmt.Errorf("mutation target must be non-empty")
	}
	if codonRange <= 0 {
		return model.Genome{}, fmt.Errorf("codon range must be > 0")
	}

	mutated := genome.Clone()
	locus := rng.Intn(len(mutated.Codons))
	mutated.Codons[locus] = rng.Intn(codonRange)
	return mutated, nil
}

// CloneAsChild copies a parent's codons into a fresh individual. Used when a
// breeding pair skips crossover: the children are clones, but they are new
// population members with their own identity.
func CloneAsChild(parent model.Genome) model.Genome {
	child := parent.Clone()
	child.ID = uuid.NewString()
	return child
}
