// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog persists the document library: the tag registry, the
// document store with its stored file copies, and the tag query engine.
// All state lives in one SQLite database under the library directory; every
// mutation runs in a transaction so a failure never leaves the catalogue
// half-updated.
package catalog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/odinsource/pkg/types"
)

const (
	filesDir = "files"
	dbFile   = "catalogue.db"
	lockFile = "library.lock"
)

// Store manages the library's SQLite catalogue and stored document files.
type Store struct {
	db         *sql.DB
	libraryDir string
	lock       *libraryLock
	strictTags bool
	maxResults int
}

// Open opens or creates the library at cfg.LibraryDir, acquires the
// library lock, and bootstraps the schema. Callers must Close the store to
// release the lock.
func Open(cfg types.LibraryConfig) (*Store, error) {
	if cfg.LibraryDir == "" {
		return nil, validationErrorf("library directory not configured")
	}
	if err := os.MkdirAll(filepath.Join(cfg.LibraryDir, filesDir), 0o755); err != nil {
		return nil, fmt.Errorf("creating library directory: %w", err)
	}

	lock, err := acquireLock(filepath.Join(cfg.LibraryDir, lockFile), lockTimeout)
	if err != nil {
		return nil, err
	}

	dbPath := filepath.Join(cfg.LibraryDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		lock.release()
		return nil, fmt.Errorf("opening catalogue database: %w", err)
	}

	s := &Store{
		db:         db,
		libraryDir: cfg.LibraryDir,
		lock:       lock,
		strictTags: cfg.StrictTags,
		maxResults: cfg.MaxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		lock.release()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection and the library lock.
func (s *Store) Close() error {
	dbErr := s.db.Close()
	lockErr := s.lock.release()
	if dbErr != nil {
		return dbErr
	}
	return lockErr
}

// FilesDir returns the directory holding stored document copies.
func (s *Store) FilesDir() string {
	return filepath.Join(s.libraryDir, filesDir)
}

// StoredPath returns the absolute path of a document's library copy.
func (s *Store) StoredPath(doc *types.Document) string {
	return filepath.Join(s.libraryDir, filesDir, doc.StoredName)
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS tags (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS documents (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			source_path TEXT NOT NULL,
			stored_name TEXT NOT NULL,
			fingerprint TEXT NOT NULL UNIQUE,
			author TEXT NOT NULL DEFAULT '',
			year TEXT NOT NULL DEFAULT '',
			publication TEXT NOT NULL DEFAULT '',
			volume TEXT NOT NULL DEFAULT '',
			doi TEXT NOT NULL DEFAULT '',
			added_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS document_tags (
			document_id INTEGER NOT NULL REFERENCES documents(id),
			tag_id INTEGER NOT NULL REFERENCES tags(id),
			PRIMARY KEY (document_id, tag_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_document_tags_tag ON document_tags(tag_id)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_fingerprint ON documents(fingerprint)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	return nil
}
