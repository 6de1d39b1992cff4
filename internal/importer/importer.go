// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package importer reads batch-import files describing document drafts.
// The format is TOML: a [[documents]] array of tables, each carrying the
// same fields as a single add. A file that does not parse as TOML is a
// single fatal error; everything past parsing is judged per entry by the
// catalogue's batch insert.
package importer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/pdiddy/odinsource/pkg/types"
)

// ErrParse reports a batch file that is not valid TOML.
var ErrParse = errors.New("batch file not parseable")

// batchFile mirrors the on-disk shape of a batch-import file.
type batchFile struct {
	Documents []types.DocumentDraft `toml:"documents"`
}

// ReadFile parses the batch file at path into document drafts. Relative
// document paths inside the file resolve against the file's directory.
func ReadFile(path string) ([]types.DocumentDraft, error) {
	if !strings.EqualFold(filepath.Ext(path), ".toml") {
		return nil, fmt.Errorf("%w: %s is not a .toml file", ErrParse, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading batch file %s: %w", path, err)
	}

	drafts, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	base := filepath.Dir(path)
	for i := range drafts {
		if drafts[i].Path != "" && !filepath.IsAbs(drafts[i].Path) {
			drafts[i].Path = filepath.Join(base, drafts[i].Path)
		}
	}
	return drafts, nil
}

// Parse decodes batch-file bytes into document drafts.
func Parse(data []byte) ([]types.DocumentDraft, error) {
	var file batchFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return file.Documents, nil
}
