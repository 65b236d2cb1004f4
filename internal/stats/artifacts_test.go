package stats

import (
	"os"
	"path/filepath"
	"testing"

	"grammateus/internal/model"
)

func sampleArtifacts(runID string) RunArtifacts {
	return RunArtifacts{
		Config: RunConfig{
			RunID:          runID,
			Scape:          "parity",
			Direction:      "maximize",
			PopulationSize: 50,
			Generations:    3,
			Seed:           7,
		},
		BestByGeneration: []float64{3, 5, 8},
		Generations: []model.GenerationSummary{
			{Generation: 1, BestFitness: 3, MeanFitness: 1.5},
			{Generation: 2, BestFitness: 5, MeanFitness: 2.25},
			{Generation: 3, BestFitness: 8, MeanFitness: 4},
		},
		Best: BestIndividual{
			GenomeID:  "g-best",
			Codons:    []int{0, 1, 2, 3, 4},
			Phenotype: "NOT NOT A AND B",
			Fitness:   8,
		},
		Evaluations: 150,
	}
}

func TestWriteRunArtifactsAndReadBack(t *testing.T) {
	baseDir := t.TempDir()

	runDir, err := WriteRunArtifacts(baseDir, sampleArtifacts("run-1"))
	if err != nil {
		t.Fatalf("write artifacts: %v", err)
	}

	for _, file := range []string{"config.json", "fitness_history.json", "generations.json", "best.json", "fitness_series.csv"} {
		if _, err := os.Stat(filepath.Join(runDir, file)); err != nil {
			t.Fatalf("missing artifact %s: %v", file, err)
		}
	}

	cfg, ok, err := ReadRunConfig(baseDir, "run-1")
	if err != nil || !ok {
		t.Fatalf("read config: ok=%t err=%v", ok, err)
	}
	if cfg.Scape != "parity" || cfg.Seed != 7 {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	best, ok, err := ReadBestIndividual(baseDir, "run-1")
	if err != nil || !ok {
		t.Fatalf("read best: ok=%t err=%v", ok, err)
	}
	if best.Phenotype != "NOT NOT A AND B" || best.Fitness != 8 {
		t.Fatalf("unexpected best: %+v", best)
	}

	series, ok, err := ReadFitnessSeries(baseDir, "run-1")
	if err != nil || !ok {
		t.Fatalf("read series: ok=%t err=%v", ok, err)
	}
	if len(series) != 3 || series[2] != 8 {
		t.Fatalf("unexpected series: %v", series)
	}
}

func TestWriteRunArtifactsRequiresRunID(t *testing.T) {
	if _, err := WriteRunArtifacts(t.TempDir(), RunArtifacts{}); err == nil {
		t.Fatal("expected error for missing run id")
	}
}

func TestReadRunConfigMissing(t *testing.T) {
	if _, ok, err := ReadRunConfig(t.TempDir(), "absent"); err != nil || ok {
		t.Fatalf("missing config: ok=%t err=%v", ok, err)
	}
}

func TestRunIndexNewestFirstAndUpsert(t *testing.T) {
	baseDir := t.TempDir()

	entries := []RunIndexEntry{
		{RunID: "old", Scape: "parity", CreatedAtUTC: "2026-01-01T00:00:00Z", FinalBestFitness: 3},
		{RunID: "new", Scape: "parity", CreatedAtUTC: "2026-01-03T00:00:00Z", FinalBestFitness: 8},
		{RunID: "mid", Scape: "regression", CreatedAtUTC: "2026-01-02T00:00:00Z", FinalBestFitness: 5},
	}
	for _, entry := range entries {
		if err := AppendRunIndex(baseDir, entry); err != nil {
			t.Fatalf("append %s: %v", entry.RunID, err)
		}
	}

	index, err := ListRunIndex(baseDir)
	if err != nil {
		t.Fatalf("list index: %v", err)
	}
	want := []string{"new", "mid", "old"}
	for i, id := range want {
		if index[i].RunID != id {
			t.Fatalf("index[%d].RunID = %s, want %s", i, index[i].RunID, id)
		}
	}

	// Re-appending the same run id replaces the entry in place.
	if err := AppendRunIndex(baseDir, RunIndexEntry{RunID: "mid", Scape: "regression", CreatedAtUTC: "2026-01-02T00:00:00Z", FinalBestFitness: 6}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	index, err = ListRunIndex(baseDir)
	if err != nil {
		t.Fatalf("list index after upsert: %v", err)
	}
	if len(index) != 3 {
		t.Fatalf("index length = %d after upsert", len(index))
	}
	for _, entry := range index {
		if entry.RunID == "mid" && entry.FinalBestFitness != 6 {
			t.Fatalf("upsert did not replace entry: %+v", entry)
		}
	}
}

func TestExportRunArtifacts(t *testing.T) {
	baseDir := t.TempDir()
	outDir := t.TempDir()

	if _, err := WriteRunArtifacts(baseDir, sampleArtifacts("run-1")); err != nil {
		t.Fatalf("write artifacts: %v", err)
	}

	dst, err := ExportRunArtifacts(baseDir, "run-1", outDir)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	for _, file := range []string{"config.json", "fitness_history.json", "generations.json", "best.json", "fitness_series.csv"} {
		if _, err := os.Stat(filepath.Join(dst, file)); err != nil {
			t.Fatalf("missing exported %s: %v", file, err)
		}
	}

	if _, err := ExportRunArtifacts(baseDir, "absent", outDir); err == nil {
		t.Fatal("expected error exporting unknown run")
	}
}
