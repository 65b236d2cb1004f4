package scape

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// Sample is one dataset row: an input vector and its target output.
type Sample struct {
	Inputs []float64
	Target float64
}

type Dataset []Sample

// SaveCSV writes one sample per row, inputs first, target last.
func (d Dataset) SaveCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	for _, sample := range d {
		row := make([]string, 0, len(sample.Inputs)+1)
		for _, input := range sample.Inputs {
			row = append(row, strconv.FormatFloat(input, 'g', -1, 64))
		}
		row = append(row, strconv.FormatFloat(sample.Target, 'g', -1, 64))
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// LoadDatasetCSV reads rows written by SaveCSV. Every row must hold at least
// two fields; the last one is the target.
func LoadDatasetCSV(path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}

	dataset := make(Dataset, 0, len(rows))
	for i, row := range rows {
		if len(row) < 2 {
			return nil, fmt.Errorf("dataset %s row %d: need at least one input and a target", path, i+1)
		}
		values := make([]float64, len(row))
		for j, field := range row {
			value, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("dataset %s row %d field %d: %w", path, i+1, j+1, err)
			}
			values[j] = value
		}
		dataset = append(dataset, Sample{
			Inputs: values[:len(values)-1],
			Target: values[len(values)-1],
		})
	}
	return dataset, nil
}
