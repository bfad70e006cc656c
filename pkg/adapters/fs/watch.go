package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/fittrack/pkg/core"
)

// DebounceInterval is how long a resource must stay quiet before its event is emitted.
const DebounceInterval = 50 * time.Millisecond

// Watch reports changes to the resources of the data directory whose path
// (relative, slash-separated) matches pattern. An empty pattern matches all.
// The channel is closed when ctx is cancelled.
func (r *Repository) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid watch pattern %q", pattern)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(r.Path); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", r.Path, err)
	}
	tracker := filepath.Join(r.Path, TrackerDir)
	if info, err := os.Stat(tracker); err == nil && info.IsDir() {
		_ = watcher.Add(tracker)
	}

	w := &watchLoop{
		repo:    r,
		watcher: watcher,
		pattern: pattern,
		events:  make(chan core.Event),
		known:   r.existingResources(),
		pending: make(map[string]pendingEvent),
	}

	r.setWatcherActive(true)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(w.events)
		defer r.setWatcherActive(false)
		defer watcher.Close()
		return w.run(ctx)
	}, lifecycle.WithErrorHandler(func(err error) {
		r.logger.Error("watcher stopped", "error", err)
	}))

	return w.events, nil
}

// existingResources lists the files present when watching starts, so that an
// atomic replace of one of them is reported as MODIFY rather than CREATE.
func (r *Repository) existingResources() map[string]bool {
	known := make(map[string]bool)
	for _, dir := range []string{r.Path, filepath.Join(r.Path, TrackerDir)} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if !e.IsDir() {
				known[r.rel(filepath.Join(dir, e.Name()))] = true
			}
		}
	}
	return known
}

type pendingEvent struct {
	event core.Event
	due   time.Time
}

type watchLoop struct {
	repo    *Repository
	watcher *fsnotify.Watcher
	pattern string
	events  chan core.Event
	known   map[string]bool
	pending map[string]pendingEvent
}

func (w *watchLoop) run(ctx context.Context) error {
	ticker := time.NewTicker(DebounceInterval / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("watcher events channel closed")
			}
			w.handle(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("watcher errors channel closed")
			}
			w.repo.logger.Error("fsnotify error", "error", err)

		case now := <-ticker.C:
			if !w.flush(ctx, now) {
				return nil
			}
		}
	}
}

// handle filters and classifies one filesystem event and queues it for debouncing.
func (w *watchLoop) handle(event fsnotify.Event) {
	w.repo.logger.Debug("event received", "name", event.Name, "op", event.Op.String())

	id := w.repo.rel(event.Name)
	if w.ignored(id) {
		return
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if id == TrackerDir {
				_ = w.watcher.Add(event.Name)
			}
			return
		}
	}

	var typ core.EventType
	switch {
	case event.Has(fsnotify.Create):
		typ = core.EventCreate
		if w.known[id] {
			typ = core.EventModify
		}
		w.known[id] = true
	case event.Has(fsnotify.Write):
		typ = core.EventModify
		w.known[id] = true
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		typ = core.EventDelete
		delete(w.known, id)
	default:
		return
	}

	if w.pattern != "" {
		if ok, _ := doublestar.Match(w.pattern, id); !ok {
			return
		}
	}

	// A file created and then written inside one debounce window is still new.
	if prev, ok := w.pending[id]; ok && prev.event.Type == core.EventCreate && typ == core.EventModify {
		typ = core.EventCreate
	}
	w.pending[id] = pendingEvent{
		event: core.Event{Type: typ, ID: id, Timestamp: time.Now().Unix()},
		due:   time.Now().Add(DebounceInterval),
	}
}

func (w *watchLoop) ignored(id string) bool {
	if id == "." || strings.HasPrefix(id, "../") {
		return true
	}
	first, _, _ := strings.Cut(id, "/")
	if first == w.repo.config.SystemDir || first == ".git" {
		return true
	}
	return isTempFile(id)
}

// flush emits the events whose debounce window has elapsed. It returns false
// when ctx ended while sending.
func (w *watchLoop) flush(ctx context.Context, now time.Time) bool {
	for id, p := range w.pending {
		if now.Before(p.due) {
			continue
		}
		delete(w.pending, id)
		select {
		case w.events <- p.event:
			w.repo.recordEvent()
		case <-ctx.Done():
			return false
		}
	}
	return true
}
