package storage

import (
	"errors"
	"testing"

	"grammateus/internal/model"
)

func TestGenomeCodecRoundTrip(t *testing.T) {
	genome := model.Genome{
		VersionedRecord: versioned(),
		ID:              "g1",
		Codons:          []int{7, 0, 255},
	}

	data, err := EncodeGenome(genome)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeGenome(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.ID != "g1" || len(decoded.Codons) != 3 || decoded.Codons[2] != 255 {
		t.Fatalf("unexpected genome: %+v", decoded)
	}
}

func TestDecodeGenomeRejectsVersionMismatch(t *testing.T) {
	genome := model.Genome{
		VersionedRecord: model.VersionedRecord{SchemaVersion: 99, CodecVersion: CurrentCodecVersion},
		ID:              "g1",
		Codons:          []int{1},
	}
	data, err := EncodeGenome(genome)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := DecodeGenome(data); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("err = %v, want ErrVersionMismatch", err)
	}
}

func TestRunCodecRoundTrip(t *testing.T) {
	run := model.RunRecord{
		VersionedRecord: versioned(),
		ID:              "regression-7-1",
		Scape:           "regression",
		Direction:       "maximize",
		BestFitness:     0.98,
	}
	data, err := EncodeRun(run)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeRun(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Scape != "regression" || decoded.BestFitness != 0.98 {
		t.Fatalf("unexpected run: %+v", decoded)
	}
}

func TestDecodeRunRejectsVersionMismatch(t *testing.T) {
	run := model.RunRecord{ID: "r"}
	data, err := EncodeRun(run)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := DecodeRun(data); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("err = %v, want ErrVersionMismatch", err)
	}
}

func TestFitnessHistoryCodecRoundTrip(t *testing.T) {
	data, err := EncodeFitnessHistory([]float64{1, 2.5, 8})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	history, err := DecodeFitnessHistory(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(history) != 3 || history[1] != 2.5 {
		t.Fatalf("unexpected history: %v", history)
	}
}

func TestGenerationSummariesCodecRoundTrip(t *testing.T) {
	summaries := []model.GenerationSummary{
		{Generation: 1, BestFitness: 3, InvalidCount: 2, BestPhenotype: "A OR B"},
	}
	data, err := EncodeGenerationSummaries(summaries)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeGenerationSummaries(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded) != 1 || decoded[0].InvalidCount != 2 {
		t.Fatalf("unexpected summaries: %+v", decoded)
	}
}
