// Package sample fills a user's logs with random entries drawn from the
// reference tables, for demos and manual testing.
package sample

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/aretw0/fittrack/pkg/aggregate"
	"github.com/aretw0/fittrack/pkg/core"
)

// Defaults of a generation run.
const (
	DefaultCount = 20
	DefaultDays  = 30
)

// Result counts the entries written per log.
type Result struct {
	Nutrition int `json:"nutrition"`
	Exercise  int `json:"exercise"`
}

// Generator writes random entries through the service.
type Generator struct {
	svc    *core.Service
	rng    *rand.Rand
	logger *slog.Logger
	days   int
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed makes runs reproducible.
func WithSeed(seed uint64) Option {
	return func(g *Generator) { g.rng = rand.New(rand.NewPCG(seed, seed)) }
}

// WithDays spreads the entries over the last n days, today included.
func WithDays(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.days = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// New returns a Generator over svc.
func New(svc *core.Service, opts ...Option) *Generator {
	g := &Generator{
		svc:    svc,
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		logger: slog.New(slog.DiscardHandler),
		days:   DefaultDays,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type namedTable interface {
	Names() []string
}

func names(kind core.Kind, t aggregate.RateTable) ([]string, error) {
	nt, ok := t.(namedTable)
	if t == nil || !ok || len(nt.Names()) == 0 {
		return nil, fmt.Errorf("%s: %w", kind, core.ErrNoReference)
	}
	return nt.Names(), nil
}

// Generate appends n food entries (50 to 400 g) and n exercise sessions
// (20 to 90 minutes at 60 to 90 kg) to the user's logs. Existing entries
// are kept.
func (g *Generator) Generate(ctx context.Context, user string, n int) (Result, error) {
	var res Result
	if n <= 0 {
		return res, &core.ValidationError{Field: "count", Reason: "must be positive"}
	}

	foodTable, exerciseTable := g.svc.ReferenceTables()
	foods, err := names(core.Nutrition, foodTable)
	if err != nil {
		return res, err
	}
	activities, err := names(core.Exercise, exerciseTable)
	if err != nil {
		return res, err
	}

	today := g.svc.Today()
	for range n {
		day := today.Add(-g.rng.IntN(g.days))
		food := foods[g.rng.IntN(len(foods))]
		grams := round1(50 + g.rng.Float64()*350)
		if _, err := g.svc.LogFood(ctx, user, day, food, grams); err != nil {
			return res, err
		}
		res.Nutrition++
	}

	for range n {
		day := today.Add(-g.rng.IntN(g.days))
		activity := activities[g.rng.IntN(len(activities))]
		minutes := float64(20 + g.rng.IntN(71))
		weight := round1(60 + g.rng.Float64()*30)
		if _, err := g.svc.LogExercise(ctx, user, day, activity, minutes, weight); err != nil {
			return res, err
		}
		res.Exercise++
	}

	g.logger.Info("sample logs generated", "user", user, "nutrition", res.Nutrition, "exercise", res.Exercise)
	return res, nil
}

func round1(x float64) float64 { return math.Round(x*10) / 10 }
