package aggregate

import (
	"errors"
	"fmt"
	"math"
)

// MaxAmount bounds grams, minutes and body weight accepted by the calorie
// conversions. MaxCalories bounds a single calorie figure.
const (
	MaxAmount   = 100_000
	MaxCalories = 10_000_000
)

// ErrAmount is wrapped by every AmountError.
var ErrAmount = errors.New("amount out of range")

// AmountError reports a quantity that is not a usable number.
type AmountError struct {
	Field  string
	Reason string
}

func (e *AmountError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *AmountError) Unwrap() error { return ErrAmount }

// CheckAmount rejects NaN, infinities, negative values and values above limit.
func CheckAmount(field string, v, limit float64) error {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return &AmountError{Field: field, Reason: "must be a finite number"}
	case v < 0:
		return &AmountError{Field: field, Reason: "must not be negative"}
	case v > limit:
		return &AmountError{Field: field, Reason: fmt.Sprintf("must not exceed %g", limit)}
	}
	return nil
}

// RateTable maps a category (food or activity name) to a calorie rate.
// Rate must fail with a lookup error when the category is unknown.
type RateTable interface {
	Rate(category string) (float64, error)
}

// FoodCalories converts a food weight to calories using a kcal-per-100g table.
func FoodCalories(food string, grams float64, table RateTable) (float64, error) {
	if err := CheckAmount("quantity", grams, MaxAmount); err != nil {
		return 0, err
	}
	per100, err := table.Rate(food)
	if err != nil {
		return 0, err
	}
	return calories(per100 / 100 * grams)
}

// ExerciseCalories converts an activity duration to calories burned using a
// kcal-per-kg-per-hour table, scaled by body weight and minutes/60.
func ExerciseCalories(activity string, minutes, weightKg float64, table RateTable) (float64, error) {
	if err := CheckAmount("quantity", minutes, MaxAmount); err != nil {
		return 0, err
	}
	if err := CheckAmount("weight_kg", weightKg, MaxAmount); err != nil {
		return 0, err
	}
	perKg, err := table.Rate(activity)
	if err != nil {
		return 0, err
	}
	return calories(perKg * weightKg * (minutes / 60))
}

func calories(kcal float64) (float64, error) {
	if err := CheckAmount("calories", kcal, MaxCalories); err != nil {
		return 0, err
	}
	return Round2(kcal), nil
}
