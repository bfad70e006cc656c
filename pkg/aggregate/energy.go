package aggregate

import (
	"fmt"
	"strings"
)

// Sex selects the Harris-Benedict coefficients.
type Sex string

const (
	Male   Sex = "male"
	Female Sex = "female"
)

// ActivityLevel is a TDEE multiplier bucket.
type ActivityLevel string

const (
	Sedentary        ActivityLevel = "sedentary"
	LightlyActive    ActivityLevel = "light"
	ModeratelyActive ActivityLevel = "moderate"
	VeryActive       ActivityLevel = "very"
	ExtremelyActive  ActivityLevel = "extreme"
)

var multipliers = map[ActivityLevel]float64{
	Sedentary:        1.2,
	LightlyActive:    1.375,
	ModeratelyActive: 1.55,
	VeryActive:       1.725,
	ExtremelyActive:  1.9,
}

// ActivityLevels lists the known levels from least to most active.
func ActivityLevels() []ActivityLevel {
	return []ActivityLevel{Sedentary, LightlyActive, ModeratelyActive, VeryActive, ExtremelyActive}
}

// ParseSex accepts "male"/"female" and their first letter, case-insensitively.
func ParseSex(s string) (Sex, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "m", "male":
		return Male, nil
	case "f", "female":
		return Female, nil
	}
	return "", fmt.Errorf("unknown sex %q (want male or female)", s)
}

// ParseActivityLevel accepts any ActivityLevel constant value.
func ParseActivityLevel(s string) (ActivityLevel, error) {
	l := ActivityLevel(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := multipliers[l]; !ok {
		return "", fmt.Errorf("unknown activity level %q", s)
	}
	return l, nil
}

// BMR is the basal metabolic rate in kcal/day from the Harris-Benedict equation.
func BMR(sex Sex, weightKg, heightCm float64, ageYears int) float64 {
	age := float64(ageYears)
	if sex == Female {
		return 447.593 + 9.247*weightKg + 3.098*heightCm - 4.330*age
	}
	return 88.362 + 13.397*weightKg + 4.799*heightCm - 5.677*age
}

// TDEE scales a BMR by the activity multiplier.
func TDEE(bmr float64, level ActivityLevel) (float64, error) {
	m, ok := multipliers[level]
	if !ok {
		return 0, fmt.Errorf("unknown activity level %q", level)
	}
	return bmr * m, nil
}

// Targets are daily intake goals around a maintenance figure.
type Targets struct {
	Lose     float64 `json:"lose"`
	Maintain float64 `json:"maintain"`
	Gain     float64 `json:"gain"`
}

// TargetsFor applies a 500 kcal deficit and surplus to tdee.
func TargetsFor(tdee float64) Targets {
	return Targets{Lose: tdee - 500, Maintain: tdee, Gain: tdee + 500}
}
