package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/fittrack/pkg/adapters/fs"
	"github.com/aretw0/fittrack/pkg/core"
	"github.com/aretw0/fittrack/pkg/date"
)

func waitForEvent(t *testing.T, events <-chan core.Event, id string) core.Event {
	t.Helper()

	deadline := time.After(3 * time.Second)
	for {
		select {
		case e, ok := <-events:
			require.True(t, ok, "channel closed before %s event", id)
			if e.ID == id {
				return e
			}
		case <-deadline:
			t.Fatalf("timeout waiting for event on %s", id)
		}
	}
}

func waitForWatcher(t *testing.T, repo *fs.Repository, expected bool) {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		state, ok := repo.State().(fs.RepositoryState)
		if ok && state.WatcherActive == expected {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("timeout waiting for watcher state = %v", expected)
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestWatch(t *testing.T) {
	repo, _ := initRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := repo.Watch(ctx, "")
	require.NoError(t, err)
	waitForWatcher(t, repo, true)

	require.NoError(t, repo.Append(context.Background(), "alice", core.Nutrition, food("2024-01-05", "Apple", 150, 78)))
	e := waitForEvent(t, events, "nutrition.json")
	assert.Equal(t, core.EventCreate, e.Type)
	assert.NotZero(t, e.Timestamp)

	require.NoError(t, repo.Append(context.Background(), "alice", core.Nutrition, food("2024-01-06", "Apple", 150, 78)))
	e = waitForEvent(t, events, "nutrition.json")
	assert.Equal(t, core.EventModify, e.Type)

	require.NoError(t, repo.SaveSummary(context.Background(), "alice", core.DailySummary{Date: date.MustParse("2024-01-05"), InCal: 78}))
	waitForEvent(t, events, "tracker/alice_tracker.csv")

	cancel()
	closed := make(chan struct{})
	go func() {
		for range events {
		}
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
	waitForWatcher(t, repo, false)
}

func TestWatch_Pattern(t *testing.T) {
	repo, path := initRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := repo.Watch(ctx, "tracker/**")
	require.NoError(t, err)

	require.NoError(t, repo.Append(context.Background(), "alice", core.Nutrition, food("2024-01-05", "Apple", 150, 78)))
	require.NoError(t, os.WriteFile(filepath.Join(path, fs.TrackerDir, "bob_tracker.csv"), []byte("date,in_cal,out_cal,goal\n"), 0644))

	e := waitForEvent(t, events, "tracker/bob_tracker.csv")
	assert.Equal(t, core.EventCreate, e.Type)

	// Nothing else may have been delivered for the nutrition log.
	select {
	case e := <-events:
		assert.NotEqual(t, "nutrition.json", e.ID)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatch_InvalidPattern(t *testing.T) {
	repo, _ := initRepo(t)
	_, err := repo.Watch(context.Background(), "[")
	assert.Error(t, err)
}
