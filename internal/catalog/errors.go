// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"errors"
	"fmt"
)

// Catalogue errors. Every failed operation returns one of these, possibly
// wrapped with context, so the CLI can render an actionable message.
var (
	// ErrNotFound reports a document or tag id that is not in the catalogue.
	ErrNotFound = errors.New("not found")

	// ErrTagInUse reports an attempt to delete a tag that documents still
	// reference without requesting cascade-detach.
	ErrTagInUse = errors.New("tag still referenced by documents")

	// ErrValidation reports a malformed draft, patch, or field.
	ErrValidation = errors.New("validation failed")
)

// DuplicateDocumentError reports an insert or reimport whose content
// fingerprint already belongs to a live document. The caller decides whether
// to update the existing record instead.
type DuplicateDocumentError struct {
	ExistingID  int64
	Fingerprint string
}

func (e *DuplicateDocumentError) Error() string {
	return fmt.Sprintf("document with identical content already catalogued as id %d", e.ExistingID)
}

// DuplicateTagError reports a tag create or rename whose normalized name
// collides with a different live tag.
type DuplicateTagError struct {
	Name       string
	ExistingID int64
}

func (e *DuplicateTagError) Error() string {
	return fmt.Sprintf("tag %q already exists as id %d", e.Name, e.ExistingID)
}

// validationErrorf wraps ErrValidation with context.
func validationErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
