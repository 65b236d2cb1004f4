package evo

import (
	"math/rand"
	"testing"

	"grammateus/internal/model"
)

func scoredFixture() []ScoredGenome {
	return []ScoredGenome{
		{Genome: model.Genome{ID: "a", Codons: []int{1}}, Fitness: 1},
		{Genome: model.Genome{ID: "b", Codons: []int{2}}, Fitness: 5},
		{Genome: model.Genome{ID: "c", Codons: []int{3}}, Fitness: 3},
		{Genome: model.Genome{ID: "d", Codons: []int{4}}, Fitness: 2},
	}
}

func TestTournamentSelectorNeverReturnsWorseThanSampledBest(t *testing.T) {
	scored := scoredFixture()
	fitnessByID := map[string]float64{}
	for _, item := range scored {
		fitnessByID[item.Genome.ID] = item.Fitness
	}

	// With the tournament covering the whole population many times over,
	// the sampled best is almost surely the global best each draw.
	selector := TournamentSelector{Size: 64, Direction: Maximize}
	rng := rand.New(rand.NewSource(21))
	for i := 0; i < 50; i++ {
		parent, err := selector.PickParent(rng, scored)
		if err != nil {
			t.Fatalf("pick parent: %v", err)
		}
		if fitnessByID[parent.ID] != 5 {
			t.Fatalf("expected global best with saturating tournament, got %q", parent.ID)
		}
	}
}

func TestTournamentSelectorRespectsDirection(t *testing.T) {
	scored := scoredFixture()
	selector := TournamentSelector{Size: 64, Direction: Minimize}
	rng := rand.New(rand.NewSource(22))
	parent, err := selector.PickParent(rng, scored)
	if err != nil {
		t.Fatalf("pick parent: %v", err)
	}
	if parent.ID != "a" {
		t.Fatalf("minimizing tournament picked %q, want a", parent.ID)
	}
}

func TestTournamentSelectorSingleCandidate(t *testing.T) {
	scored := scoredFixture()
	selector := TournamentSelector{Size: 1, Direction: Maximize}
	rng := rand.New(rand.NewSource(23))
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		parent, err := selector.PickParent(rng, scored)
		if err != nil {
			t.Fatalf("pick parent: %v", err)
		}
		seen[parent.ID] = true
	}
	if len(seen) != len(scored) {
		t.Fatalf("size-1 tournament should sample uniformly, saw %d of %d", len(seen), len(scored))
	}
}

func TestTournamentSelectorPreconditions(t *testing.T) {
	scored := scoredFixture()
	rng := rand.New(rand.NewSource(24))

	selector := TournamentSelector{Size: 0, Direction: Maximize}
	if _, err := selector.PickParent(rng, scored); err == nil {
		t.Fatal("expected error for non-positive tournament size")
	}

	selector = TournamentSelector{Size: 3, Direction: Maximize}
	if _, err := selector.PickParent(rng, nil); err == nil {
		t.Fatal("expected error for empty population")
	}
	if _, err := selector.PickParent(nil, scored); err == nil {
		t.Fatal("expected error for nil random source")
	}
}
