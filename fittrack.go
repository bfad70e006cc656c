package fittrack

import (
	"log/slog"
	"time"

	"github.com/aretw0/fittrack/internal/platform"
	"github.com/aretw0/fittrack/pkg/aggregate"
	"github.com/aretw0/fittrack/pkg/core"
)

// --- Types ---

// Service is the domain service returned by New.
type Service = core.Service

// Entry is one logged nutrition or exercise record.
type Entry = core.Entry

// DailySummary is the calories in/out/goal row of one day.
type DailySummary = core.DailySummary

// Overview is the aggregate of one user's trailing window.
type Overview = core.Overview

// Kind selects the nutrition or the exercise log.
type Kind = core.Kind

// Log kinds.
const (
	Nutrition = core.Nutrition
	Exercise  = core.Exercise
)

// Config is the content of fittrack.yaml.
type Config = platform.Config

// --- Configuration ---

// Option defines a functional option for configuring the tracker.
type Option = platform.Option

// WithLogger sets the logger for the service and the repository.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRepository allows injecting a custom storage adapter.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// WithReadOnly makes every write fail with core.ErrReadOnly.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithVersioning commits every write to git.
func WithVersioning(enabled bool) Option {
	return platform.WithVersioning(enabled)
}

// WithFormat selects "json" or "yaml" log collections.
func WithFormat(format string) Option {
	return platform.WithFormat(format)
}

// WithSystemDir allows specifying the hidden directory name (e.g. ".fittrack").
func WithSystemDir(name string) Option {
	return platform.WithSystemDir(name)
}

// WithMustExist ensures the data directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithLockTimeout bounds the wait for the cross-process write lock.
func WithLockTimeout(d time.Duration) Option {
	return platform.WithLockTimeout(d)
}

// WithFoodTable sets the food reference table.
func WithFoodTable(t aggregate.RateTable) Option {
	return platform.WithFoodTable(t)
}

// WithExerciseTable sets the exercise reference table.
func WithExerciseTable(t aggregate.RateTable) Option {
	return platform.WithExerciseTable(t)
}

// WithClock overrides the source of "today".
func WithClock(now func() time.Time) Option {
	return platform.WithClock(now)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithDevSafety controls the temp-directory sandbox used under `go run`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// --- Factory ---

// New opens the data directory at path and returns the domain service.
func New(path string, opts ...Option) (*core.Service, error) {
	return platform.New(path, opts...)
}

// Init initializes a repository explicitly.
func Init(path string, opts ...Option) (core.Repository, error) {
	return platform.Init(path, opts...)
}

// LoadConfig resolves fittrack.yaml, .env-provided variables and the given overrides.
func LoadConfig(configPath, dataDir string) (Config, error) {
	return platform.LoadConfig(configPath, dataDir)
}

// --- Safety & Utils ---

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindRoot looks upwards for a data directory marker.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
