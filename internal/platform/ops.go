package platform

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/fittrack/pkg/adapters/fs"
	"github.com/aretw0/fittrack/pkg/auth"
	"github.com/aretw0/fittrack/pkg/core"
)

// Init opens the data directory at path and prepares it (directories, git init).
//
// It returns the configured core.Repository.
func Init(path string, opts ...Option) (core.Repository, error) {
	o := apply(opts)

	if o.repository != nil {
		return o.repository, nil
	}

	repo, err := initFS(path, o)
	if err != nil {
		return nil, err
	}
	if err := repo.Initialize(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

// initFS builds the filesystem repository from the options.
func initFS(path string, o *options) (*fs.Repository, error) {
	// Read-only is inherently safe, so it always uses the real path.
	bypassSafety := o.readOnly || !o.devSafety
	useTemp := o.forceTemp || (IsDevRun() && !bypassSafety)
	resolved := ResolveDataPath(path, useTemp)

	if o.logger != nil && resolved != path && useTemp {
		o.logger.Warn("running in SAFE MODE (dev sandbox)", "original_path", path, "resolved_path", resolved)
	}

	return fs.NewRepository(fs.Config{
		Path:        resolved,
		Logger:      o.logger,
		SystemDir:   o.systemDir,
		Format:      o.format,
		ReadOnly:    o.readOnly,
		Versioned:   o.versioning,
		MustExist:   o.mustExist,
		LockTimeout: o.lockTimeout,
	})
}

// LegacyImporter is implemented by repositories that can read older data directories.
type LegacyImporter interface {
	ImportLegacy(ctx context.Context, user, dir string) (fs.ImportResult, error)
}

// Historian is implemented by repositories that keep a change history.
type Historian interface {
	History(n int) ([]string, error)
}

// NewAuthenticator returns an authenticator over the service's repository.
func NewAuthenticator(svc *core.Service, opts ...auth.Option) (*auth.Authenticator, error) {
	creds, ok := svc.Repository().(core.Credentials)
	if !ok {
		return nil, errors.New("repository does not store credentials")
	}
	return auth.New(creds, opts...), nil
}

// ImportLegacy imports the CSV logs of an older data directory for user.
func ImportLegacy(ctx context.Context, svc *core.Service, user, dir string) (fs.ImportResult, error) {
	imp, ok := svc.Repository().(LegacyImporter)
	if !ok {
		return fs.ImportResult{}, errors.New("repository does not support legacy import")
	}
	return imp.ImportLegacy(ctx, user, dir)
}

// History returns the last n changes of a versioned data directory.
func History(svc *core.Service, n int) ([]string, error) {
	h, ok := svc.Repository().(Historian)
	if !ok {
		return nil, fmt.Errorf("repository does not keep history")
	}
	return h.History(n)
}
