// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/odinsource/pkg/types"
)

// NormalizeTag canonicalizes a tag name: surrounding whitespace trimmed,
// case folded, runs of inner whitespace collapsed to single spaces. All
// uniqueness comparisons happen on the normalized form.
func NormalizeTag(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// ResolveOrCreate returns the id of the tag whose normalized name equals
// name, creating it if absent. It never produces two tags with equal
// normalized names. This is the explicit registry operation; strict-tags
// mode only constrains the implicit creates on document insert and update.
func (s *Store) ResolveOrCreate(ctx context.Context, name string) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	id, err := resolveOrCreateTx(ctx, tx, name, false)
	if err != nil {
		return 0, err
	}
	return id, tx.Commit()
}

// resolveOrCreateTx resolves a tag name inside an open transaction. In
// strict mode an unknown name is a validation error instead of an implicit
// create.
func resolveOrCreateTx(ctx context.Context, tx *sql.Tx, name string, strict bool) (int64, error) {
	normalized := NormalizeTag(name)
	if normalized == "" {
		return 0, validationErrorf("empty tag name %q", name)
	}

	var id int64
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM tags WHERE name = ?`, normalized,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("looking up tag %q: %w", normalized, err)
	}

	if strict {
		return 0, validationErrorf("unknown tag %q (strict tags enabled)", normalized)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO tags (name) VALUES (?)`, normalized,
	)
	if err != nil {
		return 0, fmt.Errorf("creating tag %q: %w", normalized, err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading new tag id: %w", err)
	}
	return id, nil
}

// LookupTag returns the id of the tag with the given (raw) name and whether
// it exists.
func (s *Store) LookupTag(ctx context.Context, name string) (int64, bool, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM tags WHERE name = ?`, NormalizeTag(name),
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("looking up tag %q: %w", name, err)
	}
	return id, true, nil
}

// TagExists reports whether a tag id is live.
func (s *Store) TagExists(ctx context.Context, id int64) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM tags WHERE id = ?`, id,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking tag %d: %w", id, err)
	}
	return n > 0, nil
}

// RenameTag updates a tag's name in place. Associations stay valid because
// identity is the id. Fails with DuplicateTagError if the new name
// normalizes to a different live tag's name; the tag is left unchanged on
// any failure.
func (s *Store) RenameTag(ctx context.Context, id int64, newName string) error {
	normalized := NormalizeTag(newName)
	if normalized == "" {
		return validationErrorf("empty tag name %q", newName)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var current string
	err = tx.QueryRowContext(ctx, `SELECT name FROM tags WHERE id = ?`, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("tag %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("loading tag %d: %w", id, err)
	}

	var existingID int64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM tags WHERE name = ? AND id != ?`, normalized, id,
	).Scan(&existingID)
	if err == nil {
		return &DuplicateTagError{Name: normalized, ExistingID: existingID}
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking name collision: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE tags SET name = ? WHERE id = ?`, normalized, id,
	); err != nil {
		return fmt.Errorf("renaming tag %d: %w", id, err)
	}

	return tx.Commit()
}

// DeleteTag removes a tag that no document references. A referenced tag
// fails with ErrTagInUse; cascade-detach is the separate, explicit
// DeleteTagCascade.
func (s *Store) DeleteTag(ctx context.Context, id int64) error {
	return s.deleteTag(ctx, id, false)
}

// DeleteTagCascade detaches the tag from every document referencing it and
// then deletes it.
func (s *Store) DeleteTagCascade(ctx context.Context, id int64) error {
	return s.deleteTag(ctx, id, true)
}

func (s *Store) deleteTag(ctx context.Context, id int64, cascade bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx,
		`SELECT count(*) FROM tags WHERE id = ?`, id,
	).Scan(&exists); err != nil {
		return fmt.Errorf("checking tag %d: %w", id, err)
	}
	if exists == 0 {
		return fmt.Errorf("tag %d: %w", id, ErrNotFound)
	}

	var refs int
	if err := tx.QueryRowContext(ctx,
		`SELECT count(*) FROM document_tags WHERE tag_id = ?`, id,
	).Scan(&refs); err != nil {
		return fmt.Errorf("counting references to tag %d: %w", id, err)
	}

	if refs > 0 {
		if !cascade {
			return fmt.Errorf("tag %d referenced by %d document(s): %w", id, refs, ErrTagInUse)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM document_tags WHERE tag_id = ?`, id,
		); err != nil {
			return fmt.Errorf("detaching tag %d: %w", id, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting tag %d: %w", id, err)
	}

	return tx.Commit()
}

// ListTags returns all live tags with document counts, ordered by id. A tag
// with zero documents is still listed; the vocabulary outlives its uses.
func (s *Store) ListTags(ctx context.Context) ([]types.Tag, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.id, t.name, count(dt.document_id)
		FROM tags t
		LEFT JOIN document_tags dt ON dt.tag_id = t.id
		GROUP BY t.id, t.name
		ORDER BY t.id`)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer rows.Close()

	var tags []types.Tag
	for rows.Next() {
		var t types.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.DocumentCount); err != nil {
			return nil, fmt.Errorf("scanning tag row: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
