package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/fittrack/pkg/aggregate"
	"github.com/aretw0/fittrack/pkg/core"
)

// options holds the internal configuration for the tracker.
type options struct {
	repository    core.Repository
	logger        *slog.Logger
	foodTable     aggregate.RateTable
	exerciseTable aggregate.RateTable
	clock         func() time.Time

	readOnly    bool
	versioning  bool
	format      string
	systemDir   string
	mustExist   bool
	lockTimeout time.Duration
	forceTemp   bool
	devSafety   bool
}

// Option defines a functional option for configuring the tracker.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		format:    "json",
		devSafety: true,
	}
}

func apply(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger for the service and the repository.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRepository allows injecting a custom storage adapter (e.g. a mock).
// If provided, the default filesystem adapter will be skipped.
func WithRepository(repo core.Repository) Option {
	return func(o *options) {
		o.repository = repo
	}
}

// WithReadOnly enables read-only mode.
// In this mode:
// 1. Write operations return core.ErrReadOnly.
// 2. Initialization (mkdir, git init) is skipped; the directory must exist.
// 3. Dev safety (go run temp dir) is bypassed.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.readOnly = enabled
	}
}

// WithVersioning commits every write to a git repository in the data directory.
// Disabled by default.
func WithVersioning(enabled bool) Option {
	return func(o *options) {
		o.versioning = enabled
	}
}

// WithFormat selects the encoding of the log collections ("json" or "yaml").
func WithFormat(format string) Option {
	return func(o *options) {
		o.format = format
	}
}

// WithSystemDir allows specifying the hidden directory name (e.g. ".fittrack").
func WithSystemDir(name string) Option {
	return func(o *options) {
		o.systemDir = name
	}
}

// WithMustExist ensures the data directory must already exist.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}

// WithLockTimeout bounds how long a write waits for another process holding the lock.
func WithLockTimeout(d time.Duration) Option {
	return func(o *options) {
		o.lockTimeout = d
	}
}

// WithFoodTable sets the food reference table (kcal per 100 g).
func WithFoodTable(t aggregate.RateTable) Option {
	return func(o *options) {
		o.foodTable = t
	}
}

// WithExerciseTable sets the exercise reference table (kcal per kg per hour).
func WithExerciseTable(t aggregate.RateTable) Option {
	return func(o *options) {
		o.exerciseTable = t
	}
}

// WithClock overrides the source of "today" (tests, backfills).
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.clock = now
	}
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.forceTemp = force
	}
}

// WithDevSafety controls the sandbox used when running via `go run`.
// By default (true), writes go to a temporary directory to protect real data.
//
// CAUTION: Only disable this if you are sure your code is safe.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.devSafety = enabled
	}
}
