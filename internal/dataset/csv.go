package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ppiankov/induct/internal/model"
)

// CSVLoader reads a header row followed by one example per row. The GOAL
// column holds the label; an empty cell leaves the attribute out of that
// example. CSV files carry no seed and no test split.
type CSVLoader struct {
	Comma rune
}

// NewCSVLoader creates a comma-separated loader
func NewCSVLoader() *CSVLoader {
	return &CSVLoader{Comma: ','}
}

// Name returns the format name
func (l *CSVLoader) Name() string {
	return "csv"
}

// CanHandle matches .csv files
func (l *CSVLoader) CanHandle(path string) bool {
	return hasExt(path, ".csv")
}

// Load parses the CSV rows
func (l *CSVLoader) Load(r io.Reader, name string) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.Comma = l.Comma
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty file")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	goalCol := -1
	seen := make(map[string]bool, len(header))
	for i, col := range header {
		col = strings.TrimSpace(col)
		header[i] = col
		if col == "" {
			return nil, fmt.Errorf("%w: empty column name at position %d", model.ErrMalformedExample, i)
		}
		if seen[col] {
			return nil, fmt.Errorf("%w: column %q", model.ErrDuplicateAttribute, col)
		}
		seen[col] = true
		if col == model.GoalKey {
			goalCol = i
		}
	}
	if goalCol < 0 {
		return nil, fmt.Errorf("%w: no %s column", model.ErrMissingGoal, model.GoalKey)
	}

	ds := &Dataset{Name: name}
	for row := 0; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		cell := strings.TrimSpace(rec[goalCol])
		if cell == "" {
			return nil, &model.MalformedExampleError{Index: row, Attribute: model.GoalKey, Reason: "missing " + model.GoalKey, Err: model.ErrMissingGoal}
		}
		goal, err := strconv.ParseBool(cell)
		if err != nil {
			return nil, &model.MalformedExampleError{Index: row, Attribute: model.GoalKey, Reason: fmt.Sprintf("%s must be a boolean, got %q", model.GoalKey, cell)}
		}

		attrs := make(map[string]string, len(header)-1)
		for i, col := range header {
			if i == goalCol {
				continue
			}
			if v := strings.TrimSpace(rec[i]); v != "" {
				attrs[col] = v
			}
		}
		ds.Examples = append(ds.Examples, model.Example{Attributes: attrs, Goal: goal})
	}
	return ds, nil
}
