package evo

import (
	"context"
	"math/rand"
	"reflect"
	"testing"

	"grammateus/internal/scape"
)

func parityConfig(seed int64) Config {
	return Config{
		Scape:           scape.NewParityScape(),
		PopulationSize:  30,
		Generations:     10,
		MinGenomeLength: 5,
		MaxGenomeLength: 20,
		CodonRange:      256,
		TournamentSize:  3,
		CrossoverRate:   0.9,
		MutationRate:    0.1,
		EliteCount:      2,
		Seed:            seed,
	}
}

func TestNewEngineValidatesConfig(t *testing.T) {
	base := parityConfig(1)

	bad := []func(*Config){
		func(c *Config) { c.Scape = nil },
		func(c *Config) { c.PopulationSize = 0 },
		func(c *Config) { c.Generations = 0 },
		func(c *Config) { c.MinGenomeLength = 0 },
		func(c *Config) { c.MaxGenomeLength = 2 },
		func(c *Config) { c.CodonRange = 0 },
		func(c *Config) { c.TournamentSize = 0 },
		func(c *Config) { c.CrossoverRate = 1.5 },
		func(c *Config) { c.MutationRate = -0.1 },
		func(c *Config) { c.EliteCount = 31 },
	}
	for i, mutate := range bad {
		cfg := base
		mutate(&cfg)
		if _, err := NewEngine(cfg); err == nil {
			t.Fatalf("case %d: expected config error", i)
		}
	}

	if _, err := NewEngine(base); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestEngineRunProducesFullHistory(t *testing.T) {
	engine, err := NewEngine(parityConfig(42))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	result, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(result.BestByGeneration) != 10 {
		t.Fatalf("history length = %d, want 10", len(result.BestByGeneration))
	}
	if len(result.Generations) != 10 {
		t.Fatalf("summaries = %d, want 10", len(result.Generations))
	}
	if len(result.FinalPopulation) != 30 {
		t.Fatalf("final population = %d, want 30", len(result.FinalPopulation))
	}
	if result.Evaluations != 300 {
		t.Fatalf("evaluations = %d, want 300", result.Evaluations)
	}
	if result.BestFitness < 0 || result.BestFitness > 8 {
		t.Fatalf("parity fitness %v outside [0, 8]", result.BestFitness)
	}
	if len(result.BestGenome.Codons) == 0 {
		t.Fatal("best genome missing")
	}
	if result.BestPhenotype.Expression == "" {
		t.Fatal("best phenotype missing")
	}
}

func TestEngineBestRatchetIsMonotonic(t *testing.T) {
	engine, err := NewEngine(parityConfig(7))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	result, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	runningBest := result.BestByGeneration[0]
	for _, fitness := range result.BestByGeneration[1:] {
		if fitness > runningBest {
			runningBest = fitness
		}
	}
	if result.BestFitness != runningBest {
		t.Fatalf("all-time best %v, want running best %v", result.BestFitness, runningBest)
	}
}

func TestEngineOddPopulationSizeReconciles(t *testing.T) {
	cfg := parityConfig(3)
	cfg.PopulationSize = 17
	cfg.EliteCount = 2
	engine, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	result, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.FinalPopulation) != 17 {
		t.Fatalf("final population = %d, want 17", len(result.FinalPopulation))
	}
	if result.Evaluations != 17*10 {
		t.Fatalf("evaluations = %d, want %d", result.Evaluations, 17*10)
	}
}

func TestEngineIsDeterministicForFixedSeed(t *testing.T) {
	run := func() RunResult {
		engine, err := NewEngine(parityConfig(99))
		if err != nil {
			t.Fatalf("new engine: %v", err)
		}
		result, err := engine.Run(context.Background())
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		return result
	}

	first := run()
	second := run()

	if !reflect.DeepEqual(first.BestByGeneration, second.BestByGeneration) {
		t.Fatal("fitness history differs between identical runs")
	}
	if first.BestFitness != second.BestFitness {
		t.Fatal("best fitness differs between identical runs")
	}
	if !reflect.DeepEqual(first.BestGenome.Codons, second.BestGenome.Codons) {
		t.Fatal("best genome codons differ between identical runs")
	}
	if len(first.FinalPopulation) != len(second.FinalPopulation) {
		t.Fatal("final population sizes differ")
	}
	for i := range first.FinalPopulation {
		a := first.FinalPopulation[i].Genome.Codons
		b := second.FinalPopulation[i].Genome.Codons
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("final population diverges at slot %d", i)
		}
	}
}

func TestEngineSeedsDiverge(t *testing.T) {
	results := map[int64]RunResult{}
	for _, seed := range []int64{1, 2} {
		engine, err := NewEngine(parityConfig(seed))
		if err != nil {
			t.Fatalf("new engine: %v", err)
		}
		result, err := engine.Run(context.Background())
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		results[seed] = result
	}
	if reflect.DeepEqual(results[1].BestGenome.Codons, results[2].BestGenome.Codons) &&
		reflect.DeepEqual(results[1].BestByGeneration, results[2].BestByGeneration) {
		t.Fatal("different seeds reproduced an identical run")
	}
}

func TestEngineStopsOnCancelledContext(t *testing.T) {
	engine, err := NewEngine(parityConfig(5))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := engine.Run(ctx); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func TestEngineMinimizingScape(t *testing.T) {
	data := scape.GenerateVladislavleva4(rand.New(rand.NewSource(1)), 32, 0.05, 6.05)
	cfg := Config{
		Scape:           scape.NewVladislavleva4Scape(data),
		PopulationSize:  20,
		Generations:     5,
		MinGenomeLength: 8,
		MaxGenomeLength: 30,
		CodonRange:      256,
		TournamentSize:  3,
		CrossoverRate:   0.9,
		MutationRate:    0.05,
		EliteCount:      1,
		Seed:            12,
	}
	engine, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if engine.Direction() != Minimize {
		t.Fatalf("direction = %s, want minimize", engine.Direction())
	}
	result, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, fitness := range result.BestByGeneration {
		if result.BestFitness > fitness {
			t.Fatalf("all-time best %v worse than generation best %v", result.BestFitness, fitness)
		}
	}
}
