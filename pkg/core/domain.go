// Package core holds the domain model of the tracker and the ports its
// adapters implement.
package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/fittrack/pkg/aggregate"
	"github.com/aretw0/fittrack/pkg/date"
)

// Kind selects which log an Entry belongs to.
type Kind string

const (
	Nutrition Kind = "nutrition"
	Exercise  Kind = "exercise"
)

// Kinds lists every log kind.
func Kinds() []Kind { return []Kind{Nutrition, Exercise} }

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(s)); k {
	case Nutrition, Exercise:
		return k, nil
	}
	return "", &ValidationError{Field: "kind", Reason: fmt.Sprintf("unknown log %q", s)}
}

// Entry is one logged nutrition or exercise record.
// Quantity is grams for food and minutes for exercise.
type Entry struct {
	Date     date.Date `json:"date" yaml:"date"`
	Category string    `json:"category" yaml:"category"`
	Quantity float64   `json:"quantity" yaml:"quantity"`
	Calories float64   `json:"calories" yaml:"calories"`
}

// Day implements aggregate.Dated.
func (e Entry) Day() date.Date { return e.Date }

// Validate rejects entries that must not be persisted.
func (e Entry) Validate() error {
	if strings.TrimSpace(e.Category) == "" {
		return &ValidationError{Field: "category", Reason: "must not be empty"}
	}
	if e.Date.IsZero() {
		return &ValidationError{Field: "date", Reason: "must be set"}
	}
	if err := checkAmount("quantity", e.Quantity, aggregate.MaxAmount); err != nil {
		return err
	}
	return checkAmount("calories", e.Calories, aggregate.MaxCalories)
}

func checkAmount(field string, v, limit float64) error {
	return asValidation(aggregate.CheckAmount(field, v, limit))
}

// asValidation turns an aggregate.AmountError into a ValidationError.
func asValidation(err error) error {
	var aerr *aggregate.AmountError
	if errors.As(err, &aerr) {
		return &ValidationError{Field: aerr.Field, Reason: aerr.Reason}
	}
	return err
}

// UnmarshalJSON also reads the field names of older nutrition.json and
// exercise.json files (food, weight_g, exercise, duration_min, calories_burned).
func (e *Entry) UnmarshalJSON(b []byte) error {
	var raw struct {
		Date           date.Date `json:"date"`
		Category       *string   `json:"category"`
		Quantity       *float64  `json:"quantity"`
		Calories       *float64  `json:"calories"`
		Food           string    `json:"food"`
		Exercise       string    `json:"exercise"`
		WeightG        float64   `json:"weight_g"`
		DurationMin    float64   `json:"duration_min"`
		CaloriesBurned float64   `json:"calories_burned"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*e = Entry{Date: raw.Date}
	switch {
	case raw.Category != nil:
		e.Category = *raw.Category
	case raw.Food != "":
		e.Category = raw.Food
	default:
		e.Category = raw.Exercise
	}
	switch {
	case raw.Quantity != nil:
		e.Quantity = *raw.Quantity
	case raw.WeightG != 0:
		e.Quantity = raw.WeightG
	default:
		e.Quantity = raw.DurationMin
	}
	if raw.Calories != nil {
		e.Calories = *raw.Calories
	} else {
		e.Calories = raw.CaloriesBurned
	}
	return nil
}

// DailySummary is the calories in/out/goal row of one user for one day.
type DailySummary struct {
	Date   date.Date `json:"date" yaml:"date"`
	InCal  int       `json:"in_cal" yaml:"in_cal"`
	OutCal int       `json:"out_cal" yaml:"out_cal"`
	Goal   int       `json:"goal" yaml:"goal"`
}

// Day implements aggregate.Dated.
func (s DailySummary) Day() date.Date { return s.Date }

// Net is calories in minus calories out.
func (s DailySummary) Net() int { return s.InCal - s.OutCal }

// Validate rejects summaries that must not be persisted.
func (s DailySummary) Validate() error {
	if s.Date.IsZero() {
		return &ValidationError{Field: "date", Reason: "must be set"}
	}
	if err := checkAmount("in_cal", float64(s.InCal), aggregate.MaxCalories); err != nil {
		return err
	}
	if err := checkAmount("out_cal", float64(s.OutCal), aggregate.MaxCalories); err != nil {
		return err
	}
	return checkAmount("goal", float64(s.Goal), aggregate.MaxCalories)
}

// User is a stored account. Only the bcrypt hash of the password is kept.
type User struct {
	Name         string `json:"-" yaml:"-"`
	PasswordHash string `json:"password_hash,omitempty" yaml:"password_hash,omitempty"`
}

// ValidateUsername checks that name can be used as a map key and a file-name component.
func ValidateUsername(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return &ValidationError{Field: "user", Reason: "must not be empty"}
	case strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, "."):
		return &ValidationError{Field: "user", Reason: fmt.Sprintf("%q is not a valid username", name)}
	}
	return nil
}

// EventType represents the type of change in the data directory.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change to a persisted resource.
type Event struct {
	Type      EventType
	ID        string // resource path relative to the data directory
	Timestamp int64  // Unix timestamp
}

func (e Event) String() string { return fmt.Sprintf("%s %s", e.Type, e.ID) }

type contextKey string

// ChangeReasonKey is the context key for the commit message used when the data directory is versioned.
const ChangeReasonKey contextKey = "change_reason"
