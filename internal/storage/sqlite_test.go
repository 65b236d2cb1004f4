//go:build sqlite

package storage

import (
	"context"
	"path/filepath"
	"testing"

	"grammateus/internal/model"
)

func newInitializedSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "grammateus.db"))
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestSQLiteStoreRequiresPath(t *testing.T) {
	store := NewSQLiteStore("")
	if err := store.Init(context.Background()); err == nil {
		t.Fatal("expected error for empty sqlite path")
	}
}

func TestSQLiteStoreRunRoundTrip(t *testing.T) {
	store := newInitializedSQLiteStore(t)
	ctx := context.Background()

	run := model.RunRecord{
		VersionedRecord: versioned(),
		ID:              "parity-1-100",
		CreatedAtUTC:    "2026-01-01T00:00:00Z",
		Scape:           "parity",
		Direction:       "maximize",
		BestFitness:     8,
	}
	if err := store.SaveRun(ctx, run); err != nil {
		t.Fatalf("save run: %v", err)
	}

	got, ok, err := store.GetRun(ctx, run.ID)
	if err != nil || !ok {
		t.Fatalf("get run: ok=%t err=%v", ok, err)
	}
	if got.BestFitness != 8 {
		t.Fatalf("unexpected run: %+v", got)
	}

	runs, err := store.ListRuns(ctx)
	if err != nil || len(runs) != 1 {
		t.Fatalf("list runs: len=%d err=%v", len(runs), err)
	}
}

func TestSQLiteStoreGenomeAndHistoryRoundTrip(t *testing.T) {
	store := newInitializedSQLiteStore(t)
	ctx := context.Background()

	genome := model.Genome{VersionedRecord: versioned(), ID: "g1", Codons: []int{1, 2, 3}}
	if err := store.SaveGenome(ctx, genome); err != nil {
		t.Fatalf("save genome: %v", err)
	}
	got, ok, err := store.GetGenome(ctx, "g1")
	if err != nil || !ok || len(got.Codons) != 3 {
		t.Fatalf("get genome: ok=%t err=%v genome=%+v", ok, err, got)
	}

	if err := store.SaveFitnessHistory(ctx, "run-1", []float64{1, 4, 8}); err != nil {
		t.Fatalf("save history: %v", err)
	}
	history, ok, err := store.GetFitnessHistory(ctx, "run-1")
	if err != nil || !ok || len(history) != 3 {
		t.Fatalf("get history: ok=%t err=%v history=%v", ok, err, history)
	}

	summaries := []model.GenerationSummary{{Generation: 1, BestFitness: 1}}
	if err := store.SaveGenerationSummaries(ctx, "run-1", summaries); err != nil {
		t.Fatalf("save summaries: %v", err)
	}
	decoded, ok, err := store.GetGenerationSummaries(ctx, "run-1")
	if err != nil || !ok || len(decoded) != 1 {
		t.Fatalf("get summaries: ok=%t err=%v summaries=%+v", ok, err, decoded)
	}
}

func TestSQLiteStoreScapeSummaryUpsert(t *testing.T) {
	store := newInitializedSQLiteStore(t)
	ctx := context.Background()

	summary := model.ScapeSummary{VersionedRecord: versioned(), Name: "parity", Direction: "maximize", BestFitness: 6}
	if err := store.SaveScapeSummary(ctx, summary); err != nil {
		t.Fatalf("save: %v", err)
	}
	summary.BestFitness = 8
	if err := store.SaveScapeSummary(ctx, summary); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, ok, err := store.GetScapeSummary(ctx, "parity")
	if err != nil || !ok {
		t.Fatalf("get: ok=%t err=%v", ok, err)
	}
	if got.BestFitness != 8 {
		t.Fatalf("upsert lost: %+v", got)
	}
}
