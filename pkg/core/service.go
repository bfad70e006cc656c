package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/fittrack/pkg/aggregate"
	"github.com/aretw0/fittrack/pkg/date"
)

// topGroups is how many foods and activities an Overview ranks.
const topGroups = 10

// ServiceConfig carries the optional collaborators of a Service.
type ServiceConfig struct {
	Food     aggregate.RateTable // kcal per 100 g
	Exercise aggregate.RateTable // kcal per kg per hour
	Logger   *slog.Logger
	Clock    func() time.Time
}

// Service handles the business logic of logging and summarizing.
// Every call names the user explicitly; the service keeps no session.
type Service struct {
	repo     Repository
	food     aggregate.RateTable
	exercise aggregate.RateTable
	logger   *slog.Logger
	now      func() time.Time
	mu       sync.RWMutex
}

// NewService creates a new Service.
func NewService(repo Repository, cfg ServiceConfig) *Service {
	s := &Service{
		repo:     repo,
		food:     cfg.Food,
		exercise: cfg.Exercise,
		logger:   cfg.Logger,
		now:      cfg.Clock,
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Repository exposes the underlying repository.
func (s *Service) Repository() Repository { return s.repo }

// Today is the current day according to the service clock.
func (s *Service) Today() date.Date { return date.Of(s.now()) }

// AddEntry appends an entry whose calories are already known.
func (s *Service) AddEntry(ctx context.Context, user string, kind Kind, e Entry) error {
	if err := ValidateUsername(user); err != nil {
		return err
	}
	if e.Date.IsZero() {
		e.Date = s.Today()
	}
	if err := e.Validate(); err != nil {
		return err
	}
	if err := s.repo.Append(ctx, user, kind, e); err != nil {
		return err
	}
	s.logger.Debug("entry added", "user", user, "kind", kind, "category", e.Category, "calories", e.Calories)
	return nil
}

// Entries returns the user's log of the given kind in insertion order.
func (s *Service) Entries(ctx context.Context, user string, kind Kind) ([]Entry, error) {
	if err := ValidateUsername(user); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, user, kind)
}

// LogFood computes the calories of grams of food from the food table and logs it.
func (s *Service) LogFood(ctx context.Context, user string, day date.Date, food string, grams float64) (Entry, error) {
	s.mu.RLock()
	table := s.food
	s.mu.RUnlock()
	if table == nil {
		return Entry{}, fmt.Errorf("food: %w", ErrNoReference)
	}
	if food == "" {
		return Entry{}, &ValidationError{Field: "category", Reason: "must not be empty"}
	}

	kcal, err := aggregate.FoodCalories(food, grams, table)
	if err != nil {
		return Entry{}, asValidation(err)
	}
	e := Entry{Date: day, Category: food, Quantity: grams, Calories: kcal}
	if err := s.AddEntry(ctx, user, Nutrition, e); err != nil {
		return Entry{}, err
	}
	if e.Date.IsZero() {
		e.Date = s.Today()
	}
	return e, nil
}

// LogExercise computes calories burned from the exercise table and logs the session.
func (s *Service) LogExercise(ctx context.Context, user string, day date.Date, activity string, minutes, weightKg float64) (Entry, error) {
	s.mu.RLock()
	table := s.exercise
	s.mu.RUnlock()
	if table == nil {
		return Entry{}, fmt.Errorf("exercise: %w", ErrNoReference)
	}
	if activity == "" {
		return Entry{}, &ValidationError{Field: "category", Reason: "must not be empty"}
	}

	kcal, err := aggregate.ExerciseCalories(activity, minutes, weightKg, table)
	if err != nil {
		return Entry{}, asValidation(err)
	}
	e := Entry{Date: day, Category: activity, Quantity: minutes, Calories: kcal}
	if err := s.AddEntry(ctx, user, Exercise, e); err != nil {
		return Entry{}, err
	}
	if e.Date.IsZero() {
		e.Date = s.Today()
	}
	return e, nil
}

// RecordDay stores the daily summary, replacing an earlier one for the same date.
func (s *Service) RecordDay(ctx context.Context, user string, sum DailySummary) error {
	if err := ValidateUsername(user); err != nil {
		return err
	}
	if sum.Date.IsZero() {
		sum.Date = s.Today()
	}
	if err := sum.Validate(); err != nil {
		return err
	}
	return s.repo.SaveSummary(ctx, user, sum)
}

// Days returns the user's daily summaries in insertion order.
func (s *Service) Days(ctx context.Context, user string) ([]DailySummary, error) {
	if err := ValidateUsername(user); err != nil {
		return nil, err
	}
	return s.repo.ListSummaries(ctx, user)
}

// Overview is the dashboard view of one user over a trailing window.
type Overview struct {
	User          string            `json:"user"`
	From          date.Date         `json:"from"`
	To            date.Date         `json:"to"`
	Intake        aggregate.Stats   `json:"intake"`
	Burned        aggregate.Stats   `json:"burned"`
	Net           float64           `json:"net"`
	IntakeSeries  []aggregate.Point `json:"intake_series"`
	BurnedSeries  []aggregate.Point `json:"burned_series"`
	TopFoods      []aggregate.Group `json:"top_foods"`
	TopActivities []aggregate.Group `json:"top_activities"`
	Days          []DailySummary    `json:"days"`
}

// Window returns the inclusive range covered by o.
func (o Overview) Window() date.Range { return date.Range{From: o.From, To: o.To} }

// Overview loads the user's logs once and aggregates the last `days` days.
func (s *Service) Overview(ctx context.Context, user string, days int) (Overview, error) {
	if days <= 0 {
		return Overview{}, &ValidationError{Field: "days", Reason: "must be positive"}
	}
	food, err := s.Entries(ctx, user, Nutrition)
	if err != nil {
		return Overview{}, err
	}
	sport, err := s.Entries(ctx, user, Exercise)
	if err != nil {
		return Overview{}, err
	}
	summaries, err := s.Days(ctx, user)
	if err != nil {
		return Overview{}, err
	}

	window := aggregate.Trailing(s.Today(), days)
	food = aggregate.Windowed(food, window)
	sport = aggregate.Windowed(sport, window)

	calories := func(e Entry) float64 { return e.Calories }
	minutes := func(e Entry) float64 { return e.Quantity }
	category := func(e Entry) string { return e.Category }

	o := Overview{
		User:          user,
		From:          window.From,
		To:            window.To,
		Intake:        aggregate.Summarize(food, calories),
		Burned:        aggregate.Summarize(sport, calories),
		IntakeSeries:  aggregate.DailySeries(food, window.To, window.Len(), calories),
		BurnedSeries:  aggregate.DailySeries(sport, window.To, window.Len(), calories),
		TopFoods:      aggregate.TopN(food, category, calories, topGroups),
		TopActivities: aggregate.TopN(sport, category, minutes, topGroups),
		Days:          aggregate.Windowed(summaries, window),
	}
	o.Net = aggregate.Round2(o.Intake.Total - o.Burned.Total)
	return o, nil
}

// SetReferenceTables swaps the food and exercise tables; nil keeps the current one.
func (s *Service) SetReferenceTables(food, exercise aggregate.RateTable) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if food != nil {
		s.food = food
	}
	if exercise != nil {
		s.exercise = exercise
	}
}

// ReferenceTables returns the current food and exercise tables; either may be nil.
func (s *Service) ReferenceTables() (food, exercise aggregate.RateTable) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.food, s.exercise
}

// Watch observes changes in the repository if supported.
func (s *Service) Watch(ctx context.Context, pattern string) (<-chan Event, error) {
	w, ok := s.repo.(Watchable)
	if !ok {
		return nil, errors.New("repository does not support watching")
	}
	return w.Watch(ctx, pattern)
}
