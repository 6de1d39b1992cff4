// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/odinsource/internal/fingerprint"
	"github.com/pdiddy/odinsource/pkg/types"
)

// Insert catalogues a new document from a draft: validates the source file,
// fingerprints its content, rejects duplicates, resolves tag names through
// the registry, copies the file into the library, and persists the record.
// The catalogue and the stored copy change together or not at all.
func (s *Store) Insert(ctx context.Context, draft types.DocumentDraft) (int64, error) {
	if err := validateDraft(draft); err != nil {
		return 0, err
	}

	fp, err := fingerprint.FromFile(draft.Path)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if existingID, found, err := findFingerprintTx(ctx, tx, string(fp), 0); err != nil {
		return 0, err
	} else if found {
		return 0, &DuplicateDocumentError{ExistingID: existingID, Fingerprint: string(fp)}
	}

	storedName := uuid.NewString() + filepath.Ext(draft.Path)
	res, err := tx.ExecContext(ctx,
		`INSERT INTO documents (title, source_path, stored_name, fingerprint,
			author, year, publication, volume, doi, added_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		strings.ToLower(strings.TrimSpace(draft.Title)), draft.Path, storedName, string(fp),
		draft.Author, draft.Year, draft.Publication, draft.Volume, draft.DOI,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting document: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading new document id: %w", err)
	}

	if err := replaceTagsTx(ctx, tx, id, draft.Tags, s.strictTags); err != nil {
		return 0, err
	}

	storedPath := filepath.Join(s.libraryDir, filesDir, storedName)
	if err := copyFile(draft.Path, storedPath); err != nil {
		os.Remove(storedPath)
		return 0, fmt.Errorf("storing library copy: %w", err)
	}

	if err := tx.Commit(); err != nil {
		os.Remove(storedPath)
		return 0, fmt.Errorf("committing insert: %w", err)
	}
	return id, nil
}

// Get returns the document with the given id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id int64) (*types.Document, error) {
	doc, err := s.scanDocument(ctx, `WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// GetByTitle returns the first document whose title matches (compared
// lowercased), or ErrNotFound.
func (s *Store) GetByTitle(ctx context.Context, title string) (*types.Document, error) {
	return s.scanDocument(ctx, `WHERE title = ? ORDER BY id LIMIT 1`,
		strings.ToLower(strings.TrimSpace(title)))
}

// UpdateDocument applies a sparse patch to a document. Only the fields the
// patch carries change; a non-nil tag set replaces the whole association
// set through the registry, exactly as at insert time. Any invariant
// violation rejects the entire patch.
func (s *Store) UpdateDocument(ctx context.Context, id int64, patch types.DocumentPatch) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx,
		`SELECT count(*) FROM documents WHERE id = ?`, id,
	).Scan(&exists); err != nil {
		return fmt.Errorf("checking document %d: %w", id, err)
	}
	if exists == 0 {
		return fmt.Errorf("document %d: %w", id, ErrNotFound)
	}

	set := func(column, value string) error {
		_, err := tx.ExecContext(ctx,
			fmt.Sprintf(`UPDATE documents SET %s = ? WHERE id = ?`, column), value, id)
		if err != nil {
			return fmt.Errorf("updating %s of document %d: %w", column, id, err)
		}
		return nil
	}

	if patch.Title != nil {
		title := strings.ToLower(strings.TrimSpace(*patch.Title))
		if title == "" {
			return validationErrorf("empty title")
		}
		if err := set("title", title); err != nil {
			return err
		}
	}
	if patch.Author != nil {
		if err := set("author", *patch.Author); err != nil {
			return err
		}
	}
	if patch.Year != nil {
		if err := set("year", *patch.Year); err != nil {
			return err
		}
	}
	if patch.Publication != nil {
		if err := set("publication", *patch.Publication); err != nil {
			return err
		}
	}
	if patch.Volume != nil {
		if err := set("volume", *patch.Volume); err != nil {
			return err
		}
	}
	if patch.DOI != nil {
		if err := set("doi", *patch.DOI); err != nil {
			return err
		}
	}

	if patch.Tags != nil {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM document_tags WHERE document_id = ?`, id,
		); err != nil {
			return fmt.Errorf("detaching tags of document %d: %w", id, err)
		}
		if err := replaceTagsTx(ctx, tx, id, *patch.Tags, s.strictTags); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Remove deletes a document, detaching every tag association first so no
// dangling pair survives. The stored library copy is removed afterwards; a
// failure there is reported to w as a warning, not an error, since the
// catalogue is already consistent.
func (s *Store) Remove(ctx context.Context, id int64, w io.Writer) error {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM document_tags WHERE document_id = ?`, id,
	); err != nil {
		return fmt.Errorf("detaching tags of document %d: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM documents WHERE id = ?`, id,
	); err != nil {
		return fmt.Errorf("deleting document %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing removal: %w", err)
	}

	if err := os.Remove(s.StoredPath(doc)); err != nil {
		fmt.Fprintf(w, "warning: could not remove stored copy %s: %v\n", doc.StoredName, err)
	}
	return nil
}

// Reimport replaces a document's content from a new source file. This is
// the only path that recomputes a fingerprint; it applies the same
// duplicate check as Insert against every other document.
func (s *Store) Reimport(ctx context.Context, id int64, path string, w io.Writer) error {
	if err := validateSourcePath(path); err != nil {
		return err
	}

	doc, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	fp, err := fingerprint.FromFile(path)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if existingID, found, err := findFingerprintTx(ctx, tx, string(fp), id); err != nil {
		return err
	} else if found {
		return &DuplicateDocumentError{ExistingID: existingID, Fingerprint: string(fp)}
	}

	storedName := uuid.NewString() + filepath.Ext(path)
	if _, err := tx.ExecContext(ctx,
		`UPDATE documents SET source_path = ?, stored_name = ?, fingerprint = ? WHERE id = ?`,
		path, storedName, string(fp), id,
	); err != nil {
		return fmt.Errorf("updating document %d: %w", id, err)
	}

	storedPath := filepath.Join(s.libraryDir, filesDir, storedName)
	if err := copyFile(path, storedPath); err != nil {
		os.Remove(storedPath)
		return fmt.Errorf("storing library copy: %w", err)
	}
	if err := tx.Commit(); err != nil {
		os.Remove(storedPath)
		return fmt.Errorf("committing reimport: %w", err)
	}

	if err := os.Remove(s.StoredPath(doc)); err != nil {
		fmt.Fprintf(w, "warning: could not remove old stored copy %s: %v\n", doc.StoredName, err)
	}
	return nil
}

// ListDocuments returns every catalogued document ordered by id.
func (s *Store) ListDocuments(ctx context.Context) ([]types.Document, error) {
	return s.scanDocuments(ctx, `SELECT `+documentColumns+` FROM documents ORDER BY id`)
}

// --- internal helpers ---

const documentColumns = `id, title, source_path, stored_name, fingerprint,
	author, year, publication, volume, doi, added_at`

func validateDraft(draft types.DocumentDraft) error {
	if strings.TrimSpace(draft.Title) == "" {
		return validationErrorf("document title required")
	}
	return validateSourcePath(draft.Path)
}

func validateSourcePath(path string) error {
	if path == "" {
		return validationErrorf("document path required")
	}
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return validationErrorf("path does not reference a regular file: %s", path)
	}
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return validationErrorf("path does not reference a PDF: %s", path)
	}
	return nil
}

// findFingerprintTx looks for a live document carrying fp, ignoring
// excludeID (zero means exclude nothing).
func findFingerprintTx(ctx context.Context, tx *sql.Tx, fp string, excludeID int64) (int64, bool, error) {
	var id int64
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM documents WHERE fingerprint = ? AND id != ?`, fp, excludeID,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("checking fingerprint: %w", err)
	}
	return id, true, nil
}

// replaceTagsTx resolves each raw tag name and associates it with the
// document. Duplicate names in the input collapse to one association.
func replaceTagsTx(ctx context.Context, tx *sql.Tx, docID int64, names []string, strict bool) error {
	seen := make(map[int64]bool)
	for _, name := range names {
		if NormalizeTag(name) == "" {
			continue
		}
		tagID, err := resolveOrCreateTx(ctx, tx, name, strict)
		if err != nil {
			return err
		}
		if seen[tagID] {
			continue
		}
		seen[tagID] = true
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO document_tags (document_id, tag_id) VALUES (?, ?)`, docID, tagID,
		); err != nil {
			return fmt.Errorf("associating tag %d with document %d: %w", tagID, docID, err)
		}
	}
	return nil
}

func (s *Store) scanDocument(ctx context.Context, where string, args ...any) (*types.Document, error) {
	docs, err := s.scanDocuments(ctx,
		`SELECT `+documentColumns+` FROM documents `+where, args...)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("document: %w", ErrNotFound)
	}
	return &docs[0], nil
}

func (s *Store) scanDocuments(ctx context.Context, query string, args ...any) ([]types.Document, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []types.Document
	for rows.Next() {
		var (
			d       types.Document
			addedAt string
		)
		if err := rows.Scan(&d.ID, &d.Title, &d.SourcePath, &d.StoredName, &d.Fingerprint,
			&d.Author, &d.Year, &d.Publication, &d.Volume, &d.DOI, &addedAt); err != nil {
			return nil, fmt.Errorf("scanning document row: %w", err)
		}
		d.AddedAt, _ = time.Parse(time.RFC3339, addedAt)
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range docs {
		tags, err := s.documentTags(ctx, docs[i].ID)
		if err != nil {
			return nil, err
		}
		docs[i].Tags = tags
	}
	return docs, nil
}

func (s *Store) documentTags(ctx context.Context, docID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.name FROM tags t
		JOIN document_tags dt ON dt.tag_id = t.id
		WHERE dt.document_id = ?`, docID)
	if err != nil {
		return nil, fmt.Errorf("loading tags of document %d: %w", docID, err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning tag name: %w", err)
		}
		tags = append(tags, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.Strings(tags)
	return tags, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying to %s: %w", dst, err)
	}
	return out.Close()
}
