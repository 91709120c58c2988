package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRepoRootFindsModule(t *testing.T) {
	root := RepoRoot(t)
	if _, err := os.Stat(filepath.Join(root, "go.mod")); err != nil {
		t.Fatalf("expected go.mod at %s: %v", root, err)
	}
	if _, err := os.Stat(Fixture(t, "programs/counter.volute")); err != nil {
		t.Fatalf("expected counter fixture: %v", err)
	}
}
