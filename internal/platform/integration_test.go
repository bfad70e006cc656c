package platform_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/fittrack/internal/platform"
	"github.com/aretw0/fittrack/pkg/core"
	"github.com/aretw0/fittrack/pkg/date"
	"github.com/aretw0/fittrack/pkg/git"
	"github.com/aretw0/fittrack/pkg/reference"
)

func setupService(t *testing.T, opts ...platform.Option) (*core.Service, string) {
	t.Helper()
	tmpDir := t.TempDir()

	now := func() time.Time { return time.Date(2024, time.January, 10, 8, 0, 0, 0, time.UTC) }
	baseOpts := []platform.Option{
		platform.WithFoodTable(reference.New("food", map[string]float64{"Apple": 52, "Bread": 265})),
		platform.WithExerciseTable(reference.New("exercise", map[string]float64{"Cycling": 7.5})),
		platform.WithClock(now),
	}

	service, err := platform.New(tmpDir, append(baseOpts, opts...)...)
	require.NoError(t, err)
	return service, tmpDir
}

func TestService_LogAndOverview(t *testing.T) {
	service, _ := setupService(t)
	ctx := context.Background()

	_, err := service.LogFood(ctx, "alice", date.MustParse("2024-01-09"), "Apple", 200)
	require.NoError(t, err)
	_, err = service.LogFood(ctx, "alice", date.MustParse("2024-01-10"), "Bread", 100)
	require.NoError(t, err)
	// Outside the 7 day window.
	_, err = service.LogFood(ctx, "alice", date.MustParse("2023-12-01"), "Bread", 100)
	require.NoError(t, err)

	e, err := service.LogExercise(ctx, "alice", date.Date{}, "Cycling", 60, 80)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-10", e.Date.String(), "zero date defaults to today")
	assert.Equal(t, 600.0, e.Calories)

	require.NoError(t, service.RecordDay(ctx, "alice", core.DailySummary{InCal: 2000, OutCal: 600, Goal: 1800}))

	o, err := service.Overview(ctx, "alice", 7)
	require.NoError(t, err)
	assert.Equal(t, 2, o.Intake.Count)
	assert.Equal(t, 369.0, o.Intake.Total)
	assert.Equal(t, 600.0, o.Burned.Total)
	assert.Equal(t, -231.0, o.Net)
	assert.Len(t, o.IntakeSeries, 8)
	require.Len(t, o.Days, 1)
	assert.Equal(t, 1400, o.Days[0].Net())

	// Users are isolated.
	bob, err := service.Entries(ctx, "bob", core.Nutrition)
	require.NoError(t, err)
	assert.Empty(t, bob)
}

func TestService_UnknownCategory(t *testing.T) {
	service, _ := setupService(t)

	_, err := service.LogFood(context.Background(), "alice", date.Date{}, "Pizza", 100)
	assert.ErrorIs(t, err, core.ErrLookup)

	entries, err := service.Entries(context.Background(), "alice", core.Nutrition)
	require.NoError(t, err)
	assert.Empty(t, entries, "failed lookups are not logged")
}

func TestService_VersionedWrites(t *testing.T) {
	if !git.IsInstalled() {
		t.Skip("git not installed")
	}
	service, _ := setupService(t, platform.WithVersioning(true))

	ctx := context.WithValue(context.Background(), core.ChangeReasonKey, "breakfast")
	_, err := service.LogFood(ctx, "alice", date.MustParse("2024-01-10"), "Apple", 100)
	require.NoError(t, err)

	history, err := platform.History(service, 5)
	require.NoError(t, err)
	require.NotEmpty(t, history)
	assert.Contains(t, history[0], "breakfast")
}
