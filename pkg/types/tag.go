// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Tag is a label attachable to zero or more documents. Identity is the id,
// not the name, so renames never break associations.
type Tag struct {
	// ID is the surrogate key, stable across restarts.
	ID int64 `json:"id" yaml:"id"`

	// Name is the normalized tag name: trimmed, case-folded, inner
	// whitespace collapsed. Unique among live tags.
	Name string `json:"name" yaml:"name"`

	// DocumentCount is the number of documents carrying this tag.
	// Populated by list queries.
	DocumentCount int `json:"document_count" yaml:"document_count"`
}
