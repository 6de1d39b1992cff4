// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Document is a catalogued reference document. Identity is the surrogate
// integer id; the fingerprint identifies the underlying byte content and is
// unique among live documents.
type Document struct {
	// ID is the surrogate key, stable across restarts.
	ID int64 `json:"id" yaml:"id"`

	// Title is the document title, lowercased on input.
	Title string `json:"title" yaml:"title"`

	// SourcePath is the path the document was imported from.
	SourcePath string `json:"source_path" yaml:"source_path"`

	// StoredName is the file name of the library copy (a UUID plus the
	// original extension) under the library's files directory.
	StoredName string `json:"stored_name" yaml:"stored_name"`

	// Fingerprint is the SHA-256 digest of the document's byte content.
	// It changes only on explicit reimport.
	Fingerprint string `json:"fingerprint" yaml:"fingerprint"`

	// Tags lists the document's tag names in normalized form, sorted.
	Tags []string `json:"tags" yaml:"tags"`

	// Free-form metadata, opaque to the catalogue.
	Author      string `json:"author,omitempty" yaml:"author,omitempty"`
	Year        string `json:"year,omitempty" yaml:"year,omitempty"`
	Publication string `json:"publication,omitempty" yaml:"publication,omitempty"`
	Volume      string `json:"volume,omitempty" yaml:"volume,omitempty"`
	DOI         string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// AddedAt records when the document entered the catalogue.
	AddedAt time.Time `json:"added_at" yaml:"added_at"`
}

// DocumentDraft is the caller-supplied shape of a document before insertion.
// Tag names are raw; the registry normalizes and resolves them.
type DocumentDraft struct {
	Title       string   `toml:"title"`
	Path        string   `toml:"path"`
	Tags        []string `toml:"tags"`
	Author      string   `toml:"author"`
	Year        string   `toml:"year"`
	Publication string   `toml:"publication"`
	Volume      string   `toml:"volume"`
	DOI         string   `toml:"doi"`
}

// DocumentPatch is a sparse update to a document. Nil fields are left
// untouched; a non-nil Tags replaces the full tag set.
type DocumentPatch struct {
	Title       *string
	Author      *string
	Year        *string
	Publication *string
	Volume      *string
	DOI         *string
	Tags        *[]string
}

// IsEmpty reports whether the patch changes nothing.
func (p DocumentPatch) IsEmpty() bool {
	return p.Title == nil && p.Author == nil && p.Year == nil &&
		p.Publication == nil && p.Volume == nil && p.DOI == nil && p.Tags == nil
}
