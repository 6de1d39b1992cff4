package catalog

import (
	"context"
	"errors"
	"testing"
)

func TestNormalizeTag(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Climate", "climate"},
		{" climate ", "climate"},
		{"CLIMATE", "climate"},
		{"deep  learning", "deep learning"},
		{"\tDeep \n Learning ", "deep learning"},
		{"   ", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeTag(tt.in); got != tt.want {
			t.Errorf("NormalizeTag(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolveOrCreateDeduplicatesVariants(t *testing.T) {
	store, _ := testSetup(t)
	ctx := context.Background()

	first, err := store.ResolveOrCreate(ctx, "Climate")
	if err != nil {
		t.Fatal(err)
	}

	for _, variant := range []string{" climate ", "CLIMATE", "climate"} {
		id, err := store.ResolveOrCreate(ctx, variant)
		if err != nil {
			t.Fatalf("ResolveOrCreate(%q): %v", variant, err)
		}
		if id != first {
			t.Errorf("ResolveOrCreate(%q) = %d, want %d", variant, id, first)
		}
	}

	tags, err := store.ListTags(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(tags) != 1 {
		t.Errorf("got %d tags, want 1", len(tags))
	}
}

func TestResolveOrCreateRejectsEmpty(t *testing.T) {
	store, _ := testSetup(t)

	for _, name := range []string{"", "   ", "\t\n"} {
		_, err := store.ResolveOrCreate(context.Background(), name)
		if !errors.Is(err, ErrValidation) {
			t.Errorf("ResolveOrCreate(%q): err = %v, want ErrValidation", name, err)
		}
	}
}

func TestLookupTag(t *testing.T) {
	store, _ := testSetup(t)
	ctx := context.Background()

	id, err := store.ResolveOrCreate(ctx, "networking")
	if err != nil {
		t.Fatal(err)
	}

	got, ok, err := store.LookupTag(ctx, "  Networking ")
	if err != nil {
		t.Fatal(err)
	}
	if !ok || got != id {
		t.Errorf("LookupTag = (%d, %v), want (%d, true)", got, ok, id)
	}

	_, ok, err = store.LookupTag(ctx, "unknown")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("LookupTag(unknown) reported existence")
	}
}

func TestTagExists(t *testing.T) {
	store, _ := testSetup(t)
	ctx := context.Background()

	id, err := store.ResolveOrCreate(ctx, "exists")
	if err != nil {
		t.Fatal(err)
	}

	ok, err := store.TagExists(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Errorf("TagExists(%d) = false", id)
	}

	ok, err = store.TagExists(ctx, id+100)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("TagExists reported a nonexistent id")
	}
}

func TestRenameTag(t *testing.T) {
	store, tmpDir := testSetup(t)
	ctx := context.Background()

	docID := mustInsert(t, store, tmpDir, "tagged doc", "oldname")
	tagID, _, err := store.LookupTag(ctx, "oldname")
	if err != nil {
		t.Fatal(err)
	}

	if err := store.RenameTag(ctx, tagID, "  New Name "); err != nil {
		t.Fatal(err)
	}

	// Identity is the id: the association survives the rename.
	doc, err := store.Get(ctx, docID)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Tags) != 1 || doc.Tags[0] != "new name" {
		t.Errorf("tags after rename = %v, want [new name]", doc.Tags)
	}

	docs, err := store.FindByTags(ctx, []string{"new name"}, ModeAll)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0].ID != docID {
		t.Errorf("query by renamed tag returned %v", docs)
	}
}

func TestRenameTagDuplicate(t *testing.T) {
	store, _ := testSetup(t)
	ctx := context.Background()

	aID, err := store.ResolveOrCreate(ctx, "alpha")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.ResolveOrCreate(ctx, "beta"); err != nil {
		t.Fatal(err)
	}

	err = store.RenameTag(ctx, aID, " BETA ")
	var dup *DuplicateTagError
	if !errors.As(err, &dup) {
		t.Fatalf("err = %v, want DuplicateTagError", err)
	}

	// The rejected rename must leave the tag unchanged.
	id, ok, err := store.LookupTag(ctx, "alpha")
	if err != nil {
		t.Fatal(err)
	}
	if !ok || id != aID {
		t.Error("tag changed despite rejected rename")
	}
}

func TestRenameTagToOwnName(t *testing.T) {
	store, _ := testSetup(t)
	ctx := context.Background()

	id, err := store.ResolveOrCreate(ctx, "stable")
	if err != nil {
		t.Fatal(err)
	}
	// Renaming to a variant of its own name is not a collision.
	if err := store.RenameTag(ctx, id, " STABLE "); err != nil {
		t.Errorf("rename to own normalized name failed: %v", err)
	}
}

func TestRenameTagNotFound(t *testing.T) {
	store, _ := testSetup(t)

	err := store.RenameTag(context.Background(), 999, "anything")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteTagInUse(t *testing.T) {
	store, tmpDir := testSetup(t)
	ctx := context.Background()

	docID := mustInsert(t, store, tmpDir, "still tagged", "busy")
	tagID, _, err := store.LookupTag(ctx, "busy")
	if err != nil {
		t.Fatal(err)
	}

	// Deleting a referenced tag is rejected by default.
	if err := store.DeleteTag(ctx, tagID); !errors.Is(err, ErrTagInUse) {
		t.Fatalf("err = %v, want ErrTagInUse", err)
	}

	// After detaching the document, deletion succeeds.
	empty := []string{}
	if err := store.UpdateDocument(ctx, docID, patchTags(&empty)); err != nil {
		t.Fatal(err)
	}
	if err := store.DeleteTag(ctx, tagID); err != nil {
		t.Fatalf("delete after detach: %v", err)
	}

	ok, err := store.TagExists(ctx, tagID)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("tag still exists after deletion")
	}
}

func TestDeleteTagCascade(t *testing.T) {
	store, tmpDir := testSetup(t)
	ctx := context.Background()

	docID := mustInsert(t, store, tmpDir, "cascaded doc", "doomed", "kept")
	tagID, _, err := store.LookupTag(ctx, "doomed")
	if err != nil {
		t.Fatal(err)
	}

	if err := store.DeleteTagCascade(ctx, tagID); err != nil {
		t.Fatal(err)
	}

	doc, err := store.Get(ctx, docID)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Tags) != 1 || doc.Tags[0] != "kept" {
		t.Errorf("tags after cascade = %v, want [kept]", doc.Tags)
	}
}

func TestDeleteTagNotFound(t *testing.T) {
	store, _ := testSetup(t)

	if err := store.DeleteTag(context.Background(), 42); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestOrphanTagPersists(t *testing.T) {
	store, _ := testSetup(t)
	ctx := context.Background()

	// A tag with zero documents is allowed to live for vocabulary reuse.
	if _, err := store.ResolveOrCreate(ctx, "vocabulary"); err != nil {
		t.Fatal(err)
	}

	tags, err := store.ListTags(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(tags) != 1 {
		t.Fatalf("got %d tags, want 1", len(tags))
	}
	if tags[0].Name != "vocabulary" || tags[0].DocumentCount != 0 {
		t.Errorf("tag = %+v, want vocabulary with 0 documents", tags[0])
	}
}

func TestListTagsOrderAndCounts(t *testing.T) {
	store, tmpDir := testSetup(t)
	ctx := context.Background()

	mustInsert(t, store, tmpDir, "doc one", "shared", "solo")
	mustInsert(t, store, tmpDir, "doc two", "shared")

	tags, err := store.ListTags(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(tags) != 2 {
		t.Fatalf("got %d tags, want 2", len(tags))
	}
	for i := 1; i < len(tags); i++ {
		if tags[i-1].ID >= tags[i].ID {
			t.Errorf("tags not ordered by id: %v", tags)
		}
	}
	counts := map[string]int{}
	for _, tag := range tags {
		counts[tag.Name] = tag.DocumentCount
	}
	if counts["shared"] != 2 || counts["solo"] != 1 {
		t.Errorf("counts = %v, want shared:2 solo:1", counts)
	}
}
