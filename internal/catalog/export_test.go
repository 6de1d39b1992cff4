package catalog

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/odinsource/pkg/types"
)

func TestExportYAML(t *testing.T) {
	store, tmpDir := testSetup(t)
	ctx := context.Background()

	mustInsert(t, store, tmpDir, "exported one", "export")
	mustInsert(t, store, tmpDir, "exported two", "export")

	path := filepath.Join(tmpDir, "catalogue.yaml")
	if err := store.ExportYAML(ctx, path, ExportFilter{}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var docs []types.Document
	if err := yaml.Unmarshal(data, &docs); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	if len(docs) != 2 {
		t.Errorf("got %d documents, want 2", len(docs))
	}
	for _, d := range docs {
		if d.Fingerprint == "" || len(d.Tags) == 0 {
			t.Errorf("entry missing fields: %+v", d)
		}
	}
}

func TestExportJSONFiltered(t *testing.T) {
	store, tmpDir := testSetup(t)
	ctx := context.Background()

	wantID := mustInsert(t, store, tmpDir, "kept", "wanted")
	mustInsert(t, store, tmpDir, "skipped", "other")

	path := filepath.Join(tmpDir, "subset.json")
	if err := store.ExportJSON(ctx, path, ExportFilter{Tags: []string{"wanted"}}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var docs []types.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != wantID {
		t.Errorf("filtered export = %v, want only document %d", docs, wantID)
	}
}

func TestExportEmptyCatalogue(t *testing.T) {
	store, tmpDir := testSetup(t)

	path := filepath.Join(tmpDir, "empty.json")
	if err := store.ExportJSON(context.Background(), path, ExportFilter{}); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("export file not written: %v", err)
	}
}
