package git

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newRepo(t *testing.T) *Client {
	t.Helper()
	if !IsInstalled() {
		t.Skip("git not installed")
	}
	client := NewClient(t.TempDir(), nil)
	if err := client.Init(); err != nil {
		t.Fatalf("Failed to init: %v", err)
	}
	return client
}

func TestClient_Init(t *testing.T) {
	client := newRepo(t)

	if _, err := os.Stat(filepath.Join(client.WorkDir, ".git")); os.IsNotExist(err) {
		t.Error(".git directory not created")
	}
	if !client.IsRepo() {
		t.Error("IsRepo should be true after Init")
	}
}

func TestClient_CommitAndLog(t *testing.T) {
	client := newRepo(t)

	if err := os.WriteFile(filepath.Join(client.WorkDir, "nutrition.json"), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := client.Add("nutrition.json"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := client.Commit("nutrition: log Apple for alice"); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	// Nothing staged: skipped without error.
	if err := client.Commit("empty"); err != nil {
		t.Fatalf("empty Commit should be skipped, got %v", err)
	}

	lines, err := client.Log(5)
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	if len(lines) != 1 || !strings.HasSuffix(lines[0], "nutrition: log Apple for alice") {
		t.Errorf("unexpected log %q", lines)
	}
}
