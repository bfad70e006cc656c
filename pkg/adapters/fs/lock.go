package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	// LockFile is the name of the cross-process write lock inside the system directory.
	LockFile = "write.lock"

	// DefaultLockTimeout bounds how long a writer waits for another process.
	DefaultLockTimeout = 5 * time.Second

	// StaleLockAge is the minimum age after which a lock file is considered
	// abandoned by a crashed writer and removed. Twice the lock timeout is
	// used when that is longer.
	StaleLockAge = time.Minute

	lockRetry = 10 * time.Millisecond
)

// ErrLocked is returned when the write lock is still held after the timeout.
var ErrLocked = errors.New("data directory is locked by another process")

// acquireLock creates path exclusively, retrying until timeout or ctx ends.
// The returned func removes the lock file. A lock file older than the stale
// age is removed and the acquisition retried.
func acquireLock(ctx context.Context, path string, timeout time.Duration) (func(), error) {
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	staleAge := max(StaleLockAge, 2*timeout)
	deadline := time.Now().Add(timeout)
	for {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
		if err == nil {
			fmt.Fprintf(f, "%d\n", os.Getpid())
			f.Close()
			return func() { os.Remove(path) }, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to acquire lock: %w", err)
		}
		if reclaimStale(path, staleAge) {
			continue
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: %s", ErrLocked, path)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetry):
		}
	}
}

// reclaimStale removes path when its mtime is older than age.
func reclaimStale(path string, age time.Duration) bool {
	info, err := os.Stat(path)
	if err != nil {
		return os.IsNotExist(err)
	}
	if time.Since(info.ModTime()) < age {
		return false
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return false
	}
	return true
}
