package scape

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDatasetCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	data := Dataset{
		{Inputs: []float64{1, 2}, Target: 3},
		{Inputs: []float64{0.5, -1.25}, Target: 0},
	}

	if err := data.SaveCSV(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := LoadDatasetCSV(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(loaded, data) {
		t.Fatalf("round trip mismatch: %+v vs %+v", loaded, data)
	}
}

func TestLoadDatasetCSVErrors(t *testing.T) {
	if _, err := LoadDatasetCSV(filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Fatal("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.csv")
	if err := (Dataset{{Inputs: []float64{1}, Target: 2}}).SaveCSV(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	// Overwrite with a non-numeric field.
	if err := os.WriteFile(path, []byte("a,b\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadDatasetCSV(path); err == nil {
		t.Fatal("expected error for non-numeric field")
	}
}

func TestByNameAndNames(t *testing.T) {
	want := []string{"parity", "regression", "vladislavleva4"}
	if got := Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("names = %v, want %v", got, want)
	}

	for _, name := range want {
		sc, err := ByName(name)
		if err != nil {
			t.Fatalf("ByName(%s): %v", name, err)
		}
		if sc.Name() != name {
			t.Fatalf("scape %s reports name %s", name, sc.Name())
		}
		if sc.Grammar() == nil {
			t.Fatalf("scape %s has no grammar", name)
		}
	}

	if _, err := ByName("chess"); err == nil {
		t.Fatal("expected error for unknown scape")
	}
}
