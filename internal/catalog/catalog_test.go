package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdiddy/odinsource/pkg/types"
)

// --- test helpers ---

func testSetup(t *testing.T) (*Store, string) {
	t.Helper()
	return testSetupCfg(t, types.LibraryConfig{})
}

func testSetupCfg(t *testing.T, cfg types.LibraryConfig) (*Store, string) {
	t.Helper()
	tmpDir := t.TempDir()
	cfg.LibraryDir = filepath.Join(tmpDir, "library")

	store, err := Open(cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	return store, tmpDir
}

// writePDF creates a fake PDF file with the given content and returns its path.
func writePDF(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("%PDF-1.4\n"+content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func sampleDraft(t *testing.T, dir, title string, tags ...string) types.DocumentDraft {
	t.Helper()
	path := writePDF(t, dir, title+".pdf", "content of "+title)
	return types.DocumentDraft{
		Title:  title,
		Path:   path,
		Tags:   tags,
		Author: "doe, j.",
		Year:   "2019",
	}
}

func patchTags(tags *[]string) types.DocumentPatch {
	return types.DocumentPatch{Tags: tags}
}

func mustInsert(t *testing.T, store *Store, dir, title string, tags ...string) int64 {
	t.Helper()
	id, err := store.Insert(context.Background(), sampleDraft(t, dir, title, tags...))
	if err != nil {
		t.Fatalf("inserting %q: %v", title, err)
	}
	return id
}

// --- open/close tests ---

func TestOpenCreatesSchema(t *testing.T) {
	store, _ := testSetup(t)

	tables := []string{"tags", "documents", "document_tags"}
	for _, table := range tables {
		var count int
		err := store.db.QueryRow(
			`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&count)
		if err != nil {
			t.Fatalf("checking table %s: %v", table, err)
		}
		if count == 0 {
			t.Errorf("table %s does not exist", table)
		}
	}
}

func TestOpenCreatesLibraryLayout(t *testing.T) {
	tmpDir := t.TempDir()
	libDir := filepath.Join(tmpDir, "library")

	store, err := Open(types.LibraryConfig{LibraryDir: libDir})
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	for _, path := range []string{
		filepath.Join(libDir, dbFile),
		filepath.Join(libDir, filesDir),
		filepath.Join(libDir, lockFile),
	} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected %s to exist: %v", path, err)
		}
	}
}

func TestOpenRequiresLibraryDir(t *testing.T) {
	_, err := Open(types.LibraryConfig{})
	if err == nil {
		t.Fatal("expected error for empty library dir")
	}
}

func TestCloseReleasesLock(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := types.LibraryConfig{LibraryDir: filepath.Join(tmpDir, "library")}

	store, err := Open(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	// Reopening after Close must not block on the lock.
	store2, err := Open(cfg)
	if err != nil {
		t.Fatalf("reopen after close: %v", err)
	}
	store2.Close()
}

func TestIDsStableAcrossReopen(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := types.LibraryConfig{LibraryDir: filepath.Join(tmpDir, "library")}

	store, err := Open(cfg)
	if err != nil {
		t.Fatal(err)
	}
	docID := mustInsert(t, store, tmpDir, "persistent doc", "stability")
	tagID, _, err := store.LookupTag(context.Background(), "stability")
	if err != nil {
		t.Fatal(err)
	}
	store.Close()

	store2, err := Open(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer store2.Close()

	doc, err := store2.Get(context.Background(), docID)
	if err != nil {
		t.Fatalf("document id %d not found after reopen: %v", docID, err)
	}
	if doc.Title != "persistent doc" {
		t.Errorf("title = %q, want %q", doc.Title, "persistent doc")
	}
	tagID2, ok, err := store2.LookupTag(context.Background(), "stability")
	if err != nil || !ok {
		t.Fatalf("tag not found after reopen: %v", err)
	}
	if tagID2 != tagID {
		t.Errorf("tag id changed across reopen: %d != %d", tagID2, tagID)
	}
}
