// Package testutil provides shared test helpers for setting up note
// collections and assembled snapshots.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/ansuz/internal/graph"
	"github.com/starford/ansuz/internal/parser"
	"github.com/starford/ansuz/internal/storage"
)

// TestCollection writes the given files (collection-relative path to
// content) into a temporary directory and returns the directory together
// with a storage provider over it.
func TestCollection(t *testing.T, files map[string]string) (string, storage.Provider) {
	t.Helper()

	dir := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// TestSnapshot assembles a small fixed collection that populates every
// snapshot table, for export and loader tests.
func TestSnapshot(t *testing.T) *graph.Snapshot {
	t.Helper()

	notes := []struct {
		path string
		src  string
	}{
		{"projects/alpha.md", "status:: active\n" +
			"tags:: Project\n" +
			"- kickoff with [[Alice]]\n" +
			"\t- notes #todo\n" +
			"\t  id:: 649abefd-2575-4ef5-8437-cb1d9b67a1e5\n" +
			"\t- ![diagram](../assets/alpha.png)\n"},
		{"alice.md", "- see [[projects/alpha]] and ((649abefd-2575-4ef5-8437-cb1d9b67a1e5))\n" +
			"- loose end\n" +
			"  tags:: Loose\n"},
	}

	p := parser.New("/", "public", nil)
	r := graph.NewResolver("/")
	for _, n := range notes {
		if err := r.AddNote(p.ParseNote(n.path, []byte(n.src))); err != nil {
			t.Fatalf("Failed to add %s: %v", n.path, err)
		}
	}

	snap, err := graph.Assemble(r)
	if err != nil {
		t.Fatalf("Failed to assemble snapshot: %v", err)
	}
	return snap
}
