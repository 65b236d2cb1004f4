package evo

import (
	"fmt"
	"math/rand"

	"grammateus/internal/model"
)

// Selector chooses parents from scored genomes for breeding.
type Selector interface {
	Name() string
	PickParent(rng *rand.Rand, scored []ScoredGenome) (model.Genome, error)
}

// TournamentSelector samples Size candidates uniformly with replacement and
// returns the best fitness among them under the configured direction. Ties
// go to the first candidate encountered.
type TournamentSelector struct {
	Size      int
	Direction Direction
}

func (TournamentSelector) Name() string {
	return "tournament"
}

func (s TournamentSelector) PickParent(rng *rand.Rand, scored []ScoredGenome) (model.Genome, error) {
	if rng == nil {
		return model.Genome{}, fmt.Errorf("random source is required")
	}
	if len(scored) == 0 {
		return model.Genome{}, fmt.Errorf("population is empty")
	}
	if s.Size <= 0 {
		return model.Genome{}, fmt.Errorf("tournament size must be > 0")
	}

	best := scored[rng.Intn(len(scored))]
	for i := 1; i < s.Size; i++ {
		candidate := scored[rng.Intn(len(scored))]
		if s.Direction.Better(candidate.Fitness, best.Fitness) {
			best = candidate
		}
	}
	return best.Genome, nil
}
