package stats

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
)

const experimentsDir = "experiments"

// ExperimentRun captures one seed's outcome inside a multi-run benchmark.
// TestFitness is set only for scapes that re-evaluate the champion on a
// held-out test set.
type ExperimentRun struct {
	RunID         string   `json:"run_id"`
	Seed          int64    `json:"seed"`
	BestFitness   float64  `json:"best_fitness"`
	BestPhenotype string   `json:"best_phenotype"`
	TestFitness   *float64 `json:"test_fitness,omitempty"`
}

type ExperimentSummary struct {
	ID             string          `json:"id"`
	Scape          string          `json:"scape"`
	Direction      string          `json:"direction"`
	Runs           int             `json:"runs"`
	StartedAtUTC   string          `json:"started_at_utc,omitempty"`
	CompletedAtUTC string          `json:"completed_at_utc,omitempty"`
	BestFitness    float64         `json:"best_fitness"`
	BestPhenotype  string          `json:"best_phenotype"`
	MeanBest       float64         `json:"mean_best"`
	StdBest        float64         `json:"std_best"`
	MinBest        float64         `json:"min_best"`
	MaxBest        float64         `json:"max_best"`
	PerRun         []ExperimentRun `json:"per_run"`
}

func WriteExperimentSummary(baseDir string, summary ExperimentSummary) (string, error) {
	if summary.ID == "" {
		return "", fmt.Errorf("experiment id is required")
	}
	path := experimentSummaryPath(baseDir, summary.ID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := writeJSON(path, summary); err != nil {
		return "", err
	}
	return path, nil
}

func ReadExperimentSummary(baseDir, id string) (ExperimentSummary, bool, error) {
	if id == "" {
		return ExperimentSummary{}, false, fmt.Errorf("experiment id is required")
	}
	data, err := os.ReadFile(experimentSummaryPath(baseDir, id))
	if err != nil {
		if os.IsNotExist(err) {
			return ExperimentSummary{}, false, nil
		}
		return ExperimentSummary{}, false, err
	}
	var summary ExperimentSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return ExperimentSummary{}, false, err
	}
	return summary, true, nil
}

func ListExperimentSummaries(baseDir string) ([]ExperimentSummary, error) {
	root := filepath.Join(baseDir, experimentsDir)
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return []ExperimentSummary{}, nil
		}
		return nil, err
	}

	summaries := make([]ExperimentSummary, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		summary, ok, err := ReadExperimentSummary(baseDir, entry.Name())
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		summaries = append(summaries, summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		switch {
		case summaries[i].StartedAtUTC == summaries[j].StartedAtUTC:
			return summaries[i].ID < summaries[j].ID
		case summaries[i].StartedAtUTC == "":
			return false
		case summaries[j].StartedAtUTC == "":
			return true
		default:
			return summaries[i].StartedAtUTC > summaries[j].StartedAtUTC
		}
	})
	return summaries, nil
}

func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := Mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

func experimentSummaryPath(baseDir, id string) string {
	return filepath.Join(baseDir, experimentsDir, id, "experiment.json")
}
