package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/fittrack/pkg/core"
	"github.com/aretw0/fittrack/pkg/date"
	"github.com/aretw0/fittrack/pkg/git"
)

const (
	// DefaultSystemDir holds the lock file; it is ignored by the watcher and by git.
	DefaultSystemDir = ".fittrack"
	// TrackerDir holds one daily-summary table per user.
	TrackerDir = "tracker"
	// UsersFile is the credentials resource.
	UsersFile = "users.json"
)

// SummaryHeader is the header row of a tracker table.
var SummaryHeader = []string{"date", "in_cal", "out_cal", "goal"}

// Repository implements core.Repository and core.Credentials over flat files
// in a data directory.
type Repository struct {
	Path   string
	config Config
	logger *slog.Logger
	ext    string
	git    *git.Client

	// write serializes load-modify-save cycles inside this process.
	write sync.Mutex

	mu            sync.RWMutex
	watcherActive bool
	lastWrite     *time.Time
	lastEvent     *time.Time
}

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path        string
	Logger      *slog.Logger
	SystemDir   string // e.g. ".fittrack"
	Format      string // "json" (default) or "yaml"
	ReadOnly    bool
	Versioned   bool // commit every write to a git repository in Path
	MustExist   bool // Initialize fails instead of creating Path
	LockTimeout time.Duration
}

var (
	_ core.Repository  = (*Repository)(nil)
	_ core.Credentials = (*Repository)(nil)
	_ core.Watchable   = (*Repository)(nil)
)

// NewRepository creates a new filesystem-backed repository.
func NewRepository(config Config) (*Repository, error) {
	ext, err := FormatExt(config.Format)
	if err != nil {
		return nil, err
	}
	if config.SystemDir == "" {
		config.SystemDir = DefaultSystemDir
	}
	if config.LockTimeout <= 0 {
		config.LockTimeout = DefaultLockTimeout
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Repository{
		Path:   config.Path,
		config: config,
		logger: logger,
		ext:    ext,
		git:    git.NewClient(config.Path, logger),
	}, nil
}

// Initialize performs the necessary setup for the repository (mkdir, git init).
func (r *Repository) Initialize(ctx context.Context) error {
	if r.config.MustExist || r.config.ReadOnly {
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("data directory does not exist: %s", r.Path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("data path is not a directory: %s", r.Path)
		}
	}
	if r.config.ReadOnly {
		return nil
	}

	for _, dir := range []string{r.Path, filepath.Join(r.Path, TrackerDir), filepath.Join(r.Path, r.config.SystemDir)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	if !r.config.Versioned {
		return nil
	}
	if !git.IsInstalled() {
		return fmt.Errorf("versioning enabled but git is not installed")
	}

	wasNewRepo := false
	if !r.git.IsRepo() {
		if err := r.git.Init(); err != nil {
			return fmt.Errorf("failed to git init: %w", err)
		}
		wasNewRepo = true
	}

	mod, err := r.ensureIgnore()
	if err != nil {
		return fmt.Errorf("failed to ensure .gitignore: %w", err)
	}
	if mod && wasNewRepo {
		if err := r.git.Add(".gitignore"); err != nil {
			return fmt.Errorf("failed to add .gitignore: %w", err)
		}
		if err := r.git.Commit(git.FormatMessage(git.CommitTypeChore, "", "configure "+r.config.SystemDir+" ignore", "")); err != nil {
			return fmt.Errorf("failed to commit .gitignore: %w", err)
		}
	}
	return nil
}

// ensureIgnore adds the system directory to .gitignore. It reports whether the file changed.
func (r *Repository) ensureIgnore() (bool, error) {
	ignorePath := filepath.Join(r.Path, ".gitignore")
	ignoreEntry := r.config.SystemDir + "/"

	content, err := os.ReadFile(ignorePath)
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}
	for line := range strings.SplitSeq(string(content), "\n") {
		if strings.TrimSpace(line) == ignoreEntry {
			return false, nil
		}
	}

	var b strings.Builder
	b.Write(content)
	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		b.WriteString("\n")
	}
	b.WriteString(ignoreEntry + "\n")
	return true, writeFileAtomic(ignorePath, []byte(b.String()), 0644)
}

// --- Paths ---

func (r *Repository) logResource(kind core.Kind) Resource {
	return Resource{
		Path:   filepath.Join(r.Path, string(kind)+r.ext),
		Codec:  DefaultCodecs()[r.ext],
		Logger: r.logger,
	}
}

func (r *Repository) summaryTable(user string) Table {
	return Table{
		Path:   filepath.Join(r.Path, TrackerDir, user+"_tracker.csv"),
		Header: SummaryHeader,
		Logger: r.logger,
	}
}

func (r *Repository) usersResource() Resource {
	return Resource{Path: filepath.Join(r.Path, UsersFile), Codec: JSONCodec{}, Logger: r.logger}
}

func (r *Repository) lockPath() string {
	return filepath.Join(r.Path, r.config.SystemDir, LockFile)
}

func (r *Repository) rel(path string) string {
	rel, err := filepath.Rel(r.Path, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

// --- Writes ---

// mutate runs fn under the write locks and commits the files it reports
// when versioning is enabled. msg is the default commit message.
func (r *Repository) mutate(ctx context.Context, msg string, fn func() ([]string, error)) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}

	r.write.Lock()
	defer r.write.Unlock()

	unlock, err := acquireLock(ctx, r.lockPath(), r.config.LockTimeout)
	if err != nil {
		return err
	}
	defer unlock()

	files, err := fn()
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return nil
	}

	now := time.Now()
	r.mu.Lock()
	r.lastWrite = &now
	r.mu.Unlock()

	if !r.config.Versioned {
		return nil
	}
	if reason, ok := ctx.Value(core.ChangeReasonKey).(string); ok && reason != "" {
		msg = git.AppendTrailer(reason)
	}
	rels := make([]string, len(files))
	for i, f := range files {
		rels[i] = r.rel(f)
	}
	if err := r.git.Add(rels...); err != nil {
		return fmt.Errorf("failed to git add: %w", err)
	}
	if err := r.git.Commit(msg); err != nil {
		return fmt.Errorf("failed to git commit: %w", err)
	}
	return nil
}

// Append adds e at the end of the user's log of the given kind.
func (r *Repository) Append(ctx context.Context, user string, kind core.Kind, e core.Entry) error {
	msg := git.FormatMessage(git.CommitTypeLog, string(kind), e.Category+" for "+user, "")
	return r.appendAll(ctx, user, kind, []core.Entry{e}, msg)
}

func (r *Repository) appendAll(ctx context.Context, user string, kind core.Kind, entries []core.Entry, msg string) error {
	if err := core.ValidateUsername(user); err != nil {
		return err
	}
	if _, err := core.ParseKind(string(kind)); err != nil {
		return err
	}
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return err
		}
	}
	if len(entries) == 0 {
		return nil
	}

	return r.mutate(ctx, msg, func() ([]string, error) {
		res := r.logResource(kind)
		logs := Load(res, map[string][]core.Entry{})
		if logs == nil {
			logs = map[string][]core.Entry{}
		}
		logs[user] = append(logs[user], entries...)
		if err := res.Save(logs); err != nil {
			return nil, err
		}
		r.logger.Debug("entries appended", "user", user, "kind", kind, "count", len(entries))
		return []string{res.Path}, nil
	})
}

// List returns the user's log in insertion order.
func (r *Repository) List(ctx context.Context, user string, kind core.Kind) ([]core.Entry, error) {
	if err := core.ValidateUsername(user); err != nil {
		return nil, err
	}
	if _, err := core.ParseKind(string(kind)); err != nil {
		return nil, err
	}
	logs := Load(r.logResource(kind), map[string][]core.Entry{})
	entries := logs[user]
	if entries == nil {
		entries = []core.Entry{}
	}
	return entries, nil
}

// SaveSummary stores s, replacing any row the user already has for s.Date.
func (r *Repository) SaveSummary(ctx context.Context, user string, s core.DailySummary) error {
	if err := core.ValidateUsername(user); err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return err
	}

	msg := git.FormatMessage(git.CommitTypeDay, "", s.Date.String()+" for "+user, "")
	return r.mutate(ctx, msg, func() ([]string, error) {
		table := r.summaryTable(user)
		kept := slices.DeleteFunc(LoadRows(table, decodeSummary), func(old core.DailySummary) bool {
			return old.Date == s.Date
		})
		kept = append(kept, s)

		rows := make([][]string, len(kept))
		for i, k := range kept {
			rows[i] = encodeSummary(k)
		}
		if err := table.Rewrite(rows); err != nil {
			return nil, err
		}
		return []string{table.Path}, nil
	})
}

// ListSummaries returns the user's summaries in file order.
func (r *Repository) ListSummaries(ctx context.Context, user string) ([]core.DailySummary, error) {
	if err := core.ValidateUsername(user); err != nil {
		return nil, err
	}
	out := LoadRows(r.summaryTable(user), decodeSummary)
	if out == nil {
		out = []core.DailySummary{}
	}
	return out, nil
}

func encodeSummary(s core.DailySummary) []string {
	return []string{s.Date.String(), strconv.Itoa(s.InCal), strconv.Itoa(s.OutCal), strconv.Itoa(s.Goal)}
}

func decodeSummary(row []string) (core.DailySummary, error) {
	d, err := date.Parse(row[0])
	if err != nil {
		return core.DailySummary{}, err
	}
	var n [3]int
	for i := range n {
		if n[i], err = parseCalories(row[i+1]); err != nil {
			return core.DailySummary{}, err
		}
	}
	return core.DailySummary{Date: d, InCal: n[0], OutCal: n[1], Goal: n[2]}, nil
}

// parseCalories accepts integers and the "1800.0" form written by spreadsheet tools.
func parseCalories(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid calories %q", s)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid calories %q", s)
	}
	return int(math.Round(f)), nil
}

// --- Credentials ---

// GetUser returns the stored account, or core.ErrNotFound.
func (r *Repository) GetUser(ctx context.Context, name string) (core.User, error) {
	users := Load(r.usersResource(), map[string]core.User{})
	u, ok := users[name]
	if !ok {
		return core.User{}, fmt.Errorf("user %q: %w", name, core.ErrNotFound)
	}
	u.Name = name
	return u, nil
}

// PutUser creates or replaces an account.
func (r *Repository) PutUser(ctx context.Context, u core.User) error {
	if err := core.ValidateUsername(u.Name); err != nil {
		return err
	}
	if u.PasswordHash == "" {
		return &core.ValidationError{Field: "password_hash", Reason: "must not be empty"}
	}

	return r.mutate(ctx, git.FormatMessage(git.CommitTypeUsers, "", "update "+u.Name, ""), func() ([]string, error) {
		res := r.usersResource()
		users := Load(res, map[string]core.User{})
		if users == nil {
			users = map[string]core.User{}
		}
		users[u.Name] = u
		data, err := res.Codec.Marshal(users)
		if err != nil {
			return nil, err
		}
		if err := writeFileAtomic(res.Path, data, 0600); err != nil {
			return nil, err
		}
		return []string{res.Path}, nil
	})
}

// History returns the last n commits of a versioned data directory.
func (r *Repository) History(n int) ([]string, error) {
	if !r.config.Versioned {
		return nil, errors.New("data directory is not versioned")
	}
	return r.git.Log(n)
}
