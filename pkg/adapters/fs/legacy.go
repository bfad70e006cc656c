package fs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aretw0/fittrack/pkg/core"
	"github.com/aretw0/fittrack/pkg/date"
	"github.com/aretw0/fittrack/pkg/git"
)

// Layout of the CSV logs written by older versions of the tracker.
var (
	LegacyNutritionHeader = []string{"Date", "Food", "Weight_g", "Calories"}
	LegacyExerciseHeader  = []string{"date", "exercise_type", "duration_minutes", "user_weight_kg", "calories_burned"}
)

// LegacyExerciseFile is shared by every user; it has no user column.
const LegacyExerciseFile = "exercise_log.csv"

// ImportResult counts the entries imported per kind, the rows skipped as
// unreadable and the rows already present in the user's log.
type ImportResult struct {
	Nutrition  int `json:"nutrition"`
	Exercise   int `json:"exercise"`
	Skipped    int `json:"skipped"`
	Duplicates int `json:"duplicates"`
}

// LegacyNutritionFile is the per-user nutrition log name.
func LegacyNutritionFile(user string) string { return user + "_nutrition.csv" }

// ImportLegacy appends the entries of <dir>/<user>_nutrition.csv and
// <dir>/exercise_log.csv to the user's logs. Missing files are skipped;
// rows that cannot be parsed are counted in Skipped.
//
// Both files are read before anything is written. Rows identical to an entry
// already in the log are counted in Duplicates instead of being appended, so
// running the import again, or after a failed write, adds only what is missing.
func (r *Repository) ImportLegacy(ctx context.Context, user, dir string) (ImportResult, error) {
	var result ImportResult
	if err := core.ValidateUsername(user); err != nil {
		return result, err
	}

	sources := []struct {
		kind    core.Kind
		path    string
		header  []string
		decode  func([]string) (core.Entry, error)
		count   *int
		entries []core.Entry
	}{
		{kind: core.Nutrition, path: filepath.Join(dir, LegacyNutritionFile(user)), header: LegacyNutritionHeader, decode: decodeLegacyNutrition, count: &result.Nutrition},
		{kind: core.Exercise, path: filepath.Join(dir, LegacyExerciseFile), header: LegacyExerciseHeader, decode: decodeLegacyExercise, count: &result.Exercise},
	}

	for i := range sources {
		src := &sources[i]
		if _, err := os.Stat(src.path); errors.Is(err, fs.ErrNotExist) {
			r.logger.Debug("legacy file not found", "path", src.path)
			continue
		}

		table := Table{Path: src.path, Header: src.header, Logger: r.logger}
		rows, err := table.read()
		if err != nil {
			return ImportResult{}, fmt.Errorf("failed to read legacy %s log: %w", src.kind, err)
		}

		for n, row := range rows {
			e, err := src.decode(row)
			if err == nil {
				err = e.Validate()
			}
			if err != nil {
				r.logger.Warn("skipping legacy row", "path", src.path, "line", n+2, "error", err)
				result.Skipped++
				continue
			}
			src.entries = append(src.entries, e)
		}
	}

	for _, src := range sources {
		if len(src.entries) == 0 {
			continue
		}
		msg := git.FormatMessage(git.CommitTypeImport, string(src.kind),
			fmt.Sprintf("legacy entries for %s", user), "from "+filepath.Base(src.path))
		added, err := r.appendMissing(ctx, user, src.kind, src.entries, msg)
		if err != nil {
			return result, err
		}
		*src.count = added
		result.Duplicates += len(src.entries) - added
	}

	r.logger.Info("legacy import finished", "user", user, "nutrition", result.Nutrition, "exercise", result.Exercise,
		"skipped", result.Skipped, "duplicates", result.Duplicates)
	return result, nil
}

// appendMissing appends the entries that have no identical counterpart in the
// user's log. Each stored entry matches at most one incoming entry.
func (r *Repository) appendMissing(ctx context.Context, user string, kind core.Kind, entries []core.Entry, msg string) (int, error) {
	var added int
	err := r.mutate(ctx, msg, func() ([]string, error) {
		res := r.logResource(kind)
		logs := Load(res, map[string][]core.Entry{})
		if logs == nil {
			logs = map[string][]core.Entry{}
		}

		seen := make(map[core.Entry]int, len(logs[user]))
		for _, e := range logs[user] {
			seen[e]++
		}
		for _, e := range entries {
			if seen[e] > 0 {
				seen[e]--
				continue
			}
			logs[user] = append(logs[user], e)
			added++
		}
		if added == 0 {
			return nil, nil
		}
		if err := res.Save(logs); err != nil {
			return nil, err
		}
		r.logger.Debug("entries appended", "user", user, "kind", kind, "count", added)
		return []string{res.Path}, nil
	})
	return added, err
}

func decodeLegacyNutrition(row []string) (core.Entry, error) {
	return decodeLegacy(row[0], row[1], row[2], row[3])
}

func decodeLegacyExercise(row []string) (core.Entry, error) {
	return decodeLegacy(row[0], row[1], row[2], row[4])
}

func decodeLegacy(day, category, quantity, calories string) (core.Entry, error) {
	d, err := date.Parse(day)
	if err != nil {
		return core.Entry{}, err
	}
	q, err := strconv.ParseFloat(strings.TrimSpace(quantity), 64)
	if err != nil {
		return core.Entry{}, fmt.Errorf("invalid quantity %q", quantity)
	}
	c, err := strconv.ParseFloat(strings.TrimSpace(calories), 64)
	if err != nil {
		return core.Entry{}, fmt.Errorf("invalid calories %q", calories)
	}
	return core.Entry{Date: d, Category: strings.TrimSpace(category), Quantity: q, Calories: c}, nil
}
