// Package reference loads the read-only calorie datasets used to turn a food
// weight or an exercise duration into calories.
package reference

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/fittrack/pkg/aggregate"
	"github.com/aretw0/fittrack/pkg/core"
)

// Columns names the category and rate columns of a dataset.
type Columns struct {
	Name string
	Rate string
}

var (
	// FoodColumns matches the food dataset: kcal per 100 g.
	FoodColumns = Columns{Name: "Food", Rate: "Calories_per_100g"}
	// ExerciseColumns matches the exercise dataset: kcal per kg of body weight per hour.
	ExerciseColumns = Columns{Name: "Activity, Exercise or Sport (1 hour)", Rate: "Calories per kg"}
)

// Table is an in-memory category → rate lookup.
type Table struct {
	name  string
	rates map[string]float64
	order []string
}

var _ aggregate.RateTable = (*Table)(nil)

// New builds a table from a map. Names are ordered alphabetically.
func New(name string, rates map[string]float64) *Table {
	t := &Table{name: name, rates: make(map[string]float64, len(rates))}
	for k, v := range rates {
		t.rates[k] = v
		t.order = append(t.order, k)
	}
	slices.Sort(t.order)
	return t
}

// Name is the table label used in lookup errors ("food", "exercise").
func (t *Table) Name() string { return t.name }

// Len returns the number of categories.
func (t *Table) Len() int { return len(t.order) }

// Rate returns the calorie rate of category, or a *core.LookupError.
func (t *Table) Rate(category string) (float64, error) {
	if v, ok := t.rates[category]; ok {
		return v, nil
	}
	return 0, &core.LookupError{Table: t.name, Category: category}
}

// Names lists categories in dataset order.
func (t *Table) Names() []string { return slices.Clone(t.order) }

// Load reads a CSV dataset. Header cells are trimmed; rows with an empty name
// or an unparsable rate are skipped. The first occurrence of a name wins.
func Load(name string, r io.Reader, cols Columns) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s dataset header: %w", name, err)
	}
	nameCol, rateCol := -1, -1
	for i, h := range headers {
		switch strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")) {
		case cols.Name:
			nameCol = i
		case cols.Rate:
			rateCol = i
		}
	}
	if nameCol == -1 || rateCol == -1 {
		return nil, fmt.Errorf("%s dataset missing %q or %q column", name, cols.Name, cols.Rate)
	}

	t := &Table{name: name, rates: make(map[string]float64)}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s dataset: %w", name, err)
		}
		if len(row) <= nameCol || len(row) <= rateCol {
			continue
		}
		key := strings.TrimSpace(row[nameCol])
		if key == "" {
			continue
		}
		rate, err := strconv.ParseFloat(strings.TrimSpace(row[rateCol]), 64)
		if err != nil {
			continue
		}
		if _, dup := t.rates[key]; dup {
			continue
		}
		t.rates[key] = rate
		t.order = append(t.order, key)
	}
	return t, nil
}

// LoadFile opens path and loads it with Load.
func LoadFile(name, path string, cols Columns) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(name, f, cols)
}

// FindDataset returns the first CSV file (lexical order) anywhere under dir.
func FindDataset(dir string) (string, error) {
	matches, err := doublestar.Glob(os.DirFS(dir), "**/*.{csv,CSV}")
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no csv dataset under %s: %w", dir, fs.ErrNotExist)
	}
	slices.Sort(matches)
	return filepath.Join(dir, filepath.FromSlash(matches[0])), nil
}

// Open resolves path (a CSV file, or a directory searched with FindDataset)
// and loads the dataset.
func Open(name, path string, cols Columns) (*Table, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		if path, err = FindDataset(path); err != nil {
			return nil, err
		}
	}
	return LoadFile(name, path, cols)
}

// OpenFood loads a food dataset.
func OpenFood(path string) (*Table, error) { return Open("food", path, FoodColumns) }

// OpenExercise loads an exercise dataset.
func OpenExercise(path string) (*Table, error) { return Open("exercise", path, ExerciseColumns) }
