package evo

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"grammateus/internal/grammar"
	"grammateus/internal/model"
	"grammateus/internal/scape"
)

// ScoredGenome pairs a genome with its phenotype and fitness for one
// generation snapshot.
type ScoredGenome struct {
	Genome    model.Genome
	Phenotype grammar.Phenotype
	Fitness   float64
}

type Config struct {
	Scape scape.Scape

	PopulationSize  int
	Generations     int
	MinGenomeLength int
	MaxGenomeLength int
	CodonRange      int
	TournamentSize  int
	CrossoverRate   float64
	// MutationRate is applied per individual, not per locus: each newly bred
	// child is point-mutated at most once, with this probability.
	MutationRate       float64
	EliteCount         int
	MaxDerivationSteps int
	Seed               int64
	// Selector overrides the default tournament selector when non-nil.
	Selector Selector
	// Postprocessor optionally reshapes fitness values after evaluation and
	// before ranking. Nil means none.
	Postprocessor FitnessPostprocessor
}

type RunResult struct {
	BestGenome       model.Genome
	BestPhenotype    grammar.Phenotype
	BestFitness      float64
	BestByGeneration []float64
	Generations      []model.GenerationSummary
	FinalPopulation  []ScoredGenome
	Evaluations      int
}

// Engine runs the generational loop: evaluate, select and breed, mutate,
// replace. It is synchronous and single-threaded; the only stateful
// resource is the seeded random source, so identical configurations replay
// identical runs.
type Engine struct {
	cfg       Config
	direction Direction
	rng       *rand.Rand
	mapper    grammar.Mapper
	selector  Selector
}

func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Scape == nil {
		return nil, fmt.Errorf("scape is required")
	}
	direction, err := ParseDirection(cfg.Scape.Direction())
	if err != nil {
		return nil, err
	}
	if cfg.PopulationSize <= 0 {
		return nil, fmt.Errorf("population size must be > 0")
	}
	if cfg.Generations <= 0 {
		return nil, fmt.Errorf("generations must be > 0")
	}
	if cfg.MinGenomeLength <= 0 || cfg.MaxGenomeLength < cfg.MinGenomeLength {
		return nil, fmt.Errorf("invalid genome length bounds [%d, %d]", cfg.MinGenomeLength, cfg.MaxGenomeLength)
	}
	if cfg.CodonRange <= 0 {
		return nil, fmt.Errorf("codon range must be > 0")
	}
	if cfg.TournamentSize <= 0 {
		return nil, fmt.Errorf("tournament size must be > 0")
	}
	if cfg.CrossoverRate < 0 || cfg.CrossoverRate > 1 {
		return nil, fmt.Errorf("crossover rate must be in [0, 1]")
	}
	if cfg.MutationRate < 0 || cfg.MutationRate > 1 {
		return nil, fmt.Errorf("mutation rate must be in [0, 1]")
	}
	if cfg.EliteCount < 0 || cfg.EliteCount > cfg.PopulationSize {
		return nil, fmt.Errorf("elite count must be in [0, population size]")
	}

	selector := cfg.Selector
	if selector == nil {
		selector = TournamentSelector{Size: cfg.TournamentSize, Direction: direction}
	}

	return &Engine{
		cfg:       cfg,
		direction: direction,
		rng:       rand.New(rand.NewSource(cfg.Seed)),
		mapper:    grammar.Mapper{MaxSteps: cfg.MaxDerivationSteps},
		selector:  selector,
	}, nil
}

func (e *Engine) Direction() Direction {
	return e.direction
}

func (e *Engine) Run(ctx context.Context) (RunResult, error) {
	population, err := e.initialPopulation()
	if err != nil {
		return RunResult{}, err
	}

	result := RunResult{
		BestFitness:      e.direction.Worst(),
		BestByGeneration: make([]float64, 0, e.cfg.Generations),
		Generations:      make([]model.GenerationSummary, 0, e.cfg.Generations),
	}

	for gen := 0; gen < e.cfg.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return RunResult{}, err
		}

		scored, invalid, err := e.evaluate(ctx, population)
		if err != nil {
			return RunResult{}, err
		}
		result.Evaluations += len(scored)

		if e.cfg.Postprocessor != nil {
			scored = e.cfg.Postprocessor.Process(scored)
		}

		// Best first under the configured direction. Stable so equal-fitness
		// individuals keep population order.
		sort.SliceStable(scored, func(i, j int) bool {
			return e.direction.Better(scored[i].Fitness, scored[j].Fitness)
		})

		best := scored[0]
		result.BestByGeneration = append(result.BestByGeneration, best.Fitness)
		result.Generations = append(result.Generations, summarize(scored, gen+1, invalid))

		// Monotonic ratchet: only a strict improvement replaces the
		// all-time best, so earlier discoveries win ties.
		if e.direction.Better(best.Fitness, result.BestFitness) {
			result.BestGenome = best.Genome.Clone()
			result.BestPhenotype = best.Phenotype
			result.BestFitness = best.Fitness
		}

		if gen == e.cfg.Generations-1 {
			result.FinalPopulation = scored
			break
		}

		population, err = e.breed(scored)
		if err != nil {
			return RunResult{}, err
		}
	}

	return result, nil
}

func (e *Engine) initialPopulation() ([]model.Genome, error) {
	population := make([]model.Genome, 0, e.cfg.PopulationSize)
	for i := 0; i < e.cfg.PopulationSize; i++ {
		genome, err := NewRandomGenomeInRange(e.rng, e.cfg.MinGenomeLength, e.cfg.MaxGenomeLength, e.cfg.CodonRange)
		if err != nil {
			return nil, err
		}
		population = append(population, genome)
	}
	return population, nil
}

func (e *Engine) evaluate(ctx context.Context, population []model.Genome) ([]ScoredGenome, int, error) {
	scored := make([]ScoredGenome, 0, len(population))
	invalid := 0
	g := e.cfg.Scape.Grammar()

	for _, genome := range population {
		phenotype, err := e.mapper.Expand(genome.Codons, g)
		if err != nil {
			return nil, 0, fmt.Errorf("expand genome %s: %w", genome.ID, err)
		}

		fitness := e.direction.Worst()
		if phenotype.Valid {
			value, err := e.cfg.Scape.Evaluate(ctx, phenotype.Expression)
			if err != nil {
				return nil, 0, fmt.Errorf("evaluate genome %s: %w", genome.ID, err)
			}
			fitness = float64(value)
		} else {
			invalid++
		}
		scored = append(scored, ScoredGenome{Genome: genome, Phenotype: phenotype, Fitness: fitness})
	}
	return scored, invalid, nil
}

// breed assembles the next generation: elites carried over unmodified,
// then tournament-selected pairs crossed over (or cloned) and stochastically
// mutated until the population size is reached. A pair overshooting an odd
// target is trimmed.
func (e *Engine) breed(scored []ScoredGenome) ([]model.Genome, error) {
	next := make([]model.Genome, 0, e.cfg.PopulationSize+1)
	for i := 0; i < e.cfg.EliteCount; i++ {
		next = append(next, scored[i].Genome.Clone())
	}

	for len(next) < e.cfg.PopulationSize {
		parent1, err := e.selector.PickParent(e.rng, scored)
		if err != nil {
			return nil, err
		}
		parent2, err := e.selector.PickParent(e.rng, scored)
		if err != nil {
			return nil, err
		}

		var child1, child2 model.Genome
		if e.rng.Float64() < e.cfg.CrossoverRate {
			child1, child2, err = OnePointCrossover(e.rng, parent1, parent2)
			if err != nil {
				return nil, err
			}
		} else {
			child1 = CloneAsChild(parent1)
			child2 = CloneAsChild(parent2)
		}

		if child1, err = e.maybeMutate(child1); err != nil {
			return nil, err
		}
		if child2, err = e.maybeMutate(child2); err != nil {
			return nil, err
		}
		next = append(next, child1, child2)
	}

	return next[:e.cfg.PopulationSize], nil
}

func (e *Engine) maybeMutate(genome model.Genome) (model.Genome, error) {
	if e.rng.Float64() >= e.cfg.MutationRate {
		return genome, nil
	}
	return PointMutate(e.rng, genome, e.cfg.CodonRange)
}

func summarize(scored []ScoredGenome, generation, invalid int) model.GenerationSummary {
	// Mean over valid individuals only; sentinel penalties would swamp it.
	total := 0.0
	valid := 0
	for _, item := range scored {
		if item.Phenotype.Valid {
			total += item.Fitness
			valid++
		}
	}
	mean := 0.0
	if valid > 0 {
		mean = total / float64(valid)
	}
	return model.GenerationSummary{
		Generation:    generation,
		BestFitness:   scored[0].Fitness,
		MeanFitness:   mean,
		WorstFitness:  scored[len(scored)-1].Fitness,
		InvalidCount:  invalid,
		BestPhenotype: scored[0].Phenotype.Expression,
	}
}
