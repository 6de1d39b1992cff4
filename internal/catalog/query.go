// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"strings"

	"github.com/pdiddy/odinsource/pkg/types"
)

// Mode selects how a multi-tag query combines its tags.
type Mode string

const (
	// ModeAll matches documents whose tag set is a superset of the
	// requested tags (intersection).
	ModeAll Mode = "all"

	// ModeAny matches documents sharing at least one requested tag (union).
	ModeAny Mode = "any"
)

// ParseMode converts a user-supplied mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeAll, "":
		return ModeAll, nil
	case ModeAny:
		return ModeAny, nil
	default:
		return "", validationErrorf("unknown query mode %q: use all or any", s)
	}
}

// FindByTags returns the documents matching the requested tag names under
// the given mode, ordered by document id so output is reproducible for a
// fixed catalogue state.
//
// Unknown tag names contribute nothing instead of failing the query: in ANY
// mode they add no documents, and in ALL mode the superset test applies to
// the remaining known tags. A query whose tags are all unknown matches
// nothing.
func (s *Store) FindByTags(ctx context.Context, names []string, mode Mode) ([]types.Document, error) {
	tagIDs, err := s.resolveKnown(ctx, names)
	if err != nil {
		return nil, err
	}
	if len(tagIDs) == 0 {
		return nil, nil
	}

	var (
		qb   strings.Builder
		args []any
	)

	qb.WriteString(`SELECT ` + documentColumns + ` FROM documents
		WHERE id IN (
			SELECT document_id FROM document_tags
			WHERE tag_id IN (` + placeholders(len(tagIDs)) + `)`)
	for _, id := range tagIDs {
		args = append(args, id)
	}

	if mode == ModeAll {
		qb.WriteString(`
			GROUP BY document_id
			HAVING count(DISTINCT tag_id) = ?`)
		args = append(args, len(tagIDs))
	}

	qb.WriteString(`)
		ORDER BY id`)

	if s.maxResults > 0 {
		qb.WriteString(` LIMIT ?`)
		args = append(args, s.maxResults)
	}

	return s.scanDocuments(ctx, qb.String(), args...)
}

// resolveKnown maps raw tag names to the ids of the ones that exist,
// dropping unknowns and duplicates.
func (s *Store) resolveKnown(ctx context.Context, names []string) ([]int64, error) {
	var ids []int64
	seen := make(map[int64]bool)
	for _, name := range names {
		id, ok, err := s.LookupTag(ctx, name)
		if err != nil {
			return nil, err
		}
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
