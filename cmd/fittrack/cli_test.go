package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/fittrack/internal/platform"
	"github.com/aretw0/fittrack/pkg/aggregate"
	"github.com/aretw0/fittrack/pkg/core"
)

// run executes the root command in-process with a clean flag state.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	verbose, dataDir, configPath, userName, password, reason = false, "", "", "", "", ""
	logDate, logWeight = "", 70
	listJSON, listPlain = false, false
	summaryDays, summaryPlain, summaryJSON, summaryMarkdown = 7, false, false, false
	initVersioning, initFormat = false, "json"
	calcJSON = false
	changePassword = ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	require.NoError(t, err, out)
	return out
}

func setupDataDir(t *testing.T) string {
	t.Helper()
	for _, env := range []string{platform.EnvData, platform.EnvConfig, platform.EnvUser, platform.EnvPassword, platform.EnvAddr} {
		t.Setenv(env, "")
	}

	dir := filepath.Join(t.TempDir(), "data")
	mustRun(t, "init", "--data", dir)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "food"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "food", "food.csv"),
		[]byte("Food,Calories_per_100g\nApple,52\nRice,130\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "exercise"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "exercise", "exercise.csv"),
		[]byte("\"Activity, Exercise or Sport (1 hour)\",Calories per kg\nRunning,9.8\n"), 0o644))

	mustRun(t, "register", "--data", dir, "-u", "alice", "-p", "secret")
	return dir
}

func TestInitCreatesConfig(t *testing.T) {
	dir := setupDataDir(t)

	_, err := os.Stat(filepath.Join(dir, platform.ConfigFile))
	assert.NoError(t, err)

	out := mustRun(t, "foods", "--data", dir)
	assert.Equal(t, "Apple\nRice\n", out)
	out = mustRun(t, "activities", "--data", dir)
	assert.Equal(t, "Running\n", out)
}

func TestLogAndList(t *testing.T) {
	dir := setupDataDir(t)
	as := []string{"--data", dir, "-u", "alice", "-p", "secret"}

	out := mustRun(t, append([]string{"log", "food", "Apple", "150", "--date", "2024-01-06"}, as...)...)
	assert.Contains(t, out, "78.00 kcal")

	out = mustRun(t, append([]string{"log", "exercise", "Running", "30", "--weight", "80", "--date", "2024-01-06"}, as...)...)
	assert.Contains(t, out, "392.00 kcal burned")

	mustRun(t, append([]string{"log", "entry", "nutrition", "Snack bar", "40", "180", "--date", "2024-01-07"}, as...)...)

	out = mustRun(t, append([]string{"list", "nutrition", "--json"}, as...)...)
	var entries []core.Entry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "Apple", entries[0].Category)
	assert.Equal(t, "Snack bar", entries[1].Category)
	assert.Equal(t, 180.0, entries[1].Calories)

	_, err := run(t, append([]string{"log", "food", "Pizza", "100"}, as...)...)
	assert.ErrorIs(t, err, core.ErrLookup)

	for _, bad := range []string{"NaN", "Inf", "-Inf", "1e308"} {
		_, err = run(t, append([]string{"log", "food", "Apple", bad}, as...)...)
		assert.ErrorIs(t, err, core.ErrValidation, bad)
		_, err = run(t, append([]string{"log", "entry", "exercise", "Walk", "30", bad}, as...)...)
		assert.ErrorIs(t, err, core.ErrValidation, bad)
	}
	out = mustRun(t, append([]string{"summary", "--json"}, as...)...)
	assert.Contains(t, out, `"user": "alice"`)
}

func TestLogDay(t *testing.T) {
	dir := setupDataDir(t)
	as := []string{"--data", dir, "-u", "alice", "-p", "secret"}

	mustRun(t, append([]string{"log", "day", "1800", "300", "2000", "--date", "2024-01-06"}, as...)...)
	out := mustRun(t, append([]string{"log", "day", "1900", "300", "2000", "--date", "2024-01-06"}, as...)...)
	assert.Contains(t, out, "net 1600 kcal")

	out = mustRun(t, append([]string{"days", "--json"}, as...)...)
	var days []core.DailySummary
	require.NoError(t, json.Unmarshal([]byte(out), &days))
	require.Len(t, days, 1)
	assert.Equal(t, 1900, days[0].InCal)

	_, err := run(t, append([]string{"log", "day", "lots", "300", "2000"}, as...)...)
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestSummary(t *testing.T) {
	dir := setupDataDir(t)
	as := []string{"--data", dir, "-u", "alice", "-p", "secret"}

	mustRun(t, append([]string{"log", "food", "Rice", "200"}, as...)...)

	out := mustRun(t, append([]string{"summary", "--markdown", "--days", "3"}, as...)...)
	assert.True(t, strings.HasPrefix(out, "# alice: "), out)
	assert.Contains(t, out, "1. Rice: 260.00 kcal")

	out = mustRun(t, append([]string{"summary", "--json"}, as...)...)
	var o core.Overview
	require.NoError(t, json.Unmarshal([]byte(out), &o))
	assert.Equal(t, 260.0, o.Intake.Total)
}

func TestLoginRequired(t *testing.T) {
	dir := setupDataDir(t)

	_, err := run(t, "list", "nutrition", "--data", dir, "-u", "alice", "-p", "wrong")
	assert.ErrorIs(t, err, core.ErrUnauthorized)

	_, err = run(t, "list", "nutrition", "--data", dir, "-p", "secret")
	assert.Error(t, err)

	_, err = run(t, "register", "--data", dir, "-u", "alice", "-p", "again")
	assert.Error(t, err, "names are unique")

	mustRun(t, "register", "--data", dir, "-u", "alice", "-p", "secret", "--new-password", "fresh")
	_, err = run(t, "days", "--data", dir, "-u", "alice", "-p", "fresh")
	assert.NoError(t, err)
}

func TestCalc(t *testing.T) {
	t.Setenv(platform.EnvConfig, "")
	out := mustRun(t, "calc", "--sex", "female", "--weight", "60", "--height", "165", "--age", "30", "--activity", "moderate", "--json")

	var res struct {
		BMR  float64 `json:"bmr"`
		TDEE float64 `json:"tdee"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.InDelta(t, 1383.68, res.BMR, 0.01)
	assert.InDelta(t, 2144.71, res.TDEE, 0.01)

	_, err := run(t, "calc", "--weight", "NaN", "--height", "165", "--age", "30")
	assert.ErrorIs(t, err, aggregate.ErrAmount)
}

func TestImport(t *testing.T) {
	dir := setupDataDir(t)
	legacy := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(legacy, "alice_nutrition.csv"),
		[]byte("Date,Food,Weight_g,Calories\n2024-01-01,Apple,100,52\nbad,Apple,1,1\n"), 0o644))

	out := mustRun(t, "import", legacy, "--data", dir, "-u", "alice", "-p", "secret")
	assert.Contains(t, out, "Imported 1 nutrition and 0 exercise entries (1 rows skipped, 0 already present)")

	out = mustRun(t, "import", legacy, "--data", dir, "-u", "alice", "-p", "secret")
	assert.Contains(t, out, "Imported 0 nutrition and 0 exercise entries (1 rows skipped, 1 already present)")
}

func TestVersion(t *testing.T) {
	out := mustRun(t, "version")
	assert.True(t, strings.HasPrefix(out, "fittrack version "), out)
}
