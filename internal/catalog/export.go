// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/natefinch/atomic"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/odinsource/pkg/types"
)

// ExportFilter optionally narrows an export to the documents matching a
// tag query. An empty filter exports the whole catalogue.
type ExportFilter struct {
	Tags []string
	Mode Mode
}

// IsEmpty reports whether the filter selects everything.
func (f ExportFilter) IsEmpty() bool {
	return len(f.Tags) == 0
}

// ExportYAML writes the catalogue (or a tag-filtered subset) to path as
// YAML. The file is replaced atomically so a failed export never leaves a
// truncated file behind.
func (s *Store) ExportYAML(ctx context.Context, path string, filter ExportFilter) error {
	docs, err := s.exportDocuments(ctx, filter)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(docs)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ExportJSON writes the catalogue (or a tag-filtered subset) to path as
// indented JSON.
func (s *Store) ExportJSON(ctx context.Context, path string, filter ExportFilter) error {
	docs, err := s.exportDocuments(ctx, filter)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func (s *Store) exportDocuments(ctx context.Context, filter ExportFilter) ([]types.Document, error) {
	if filter.IsEmpty() {
		docs, err := s.ListDocuments(ctx)
		if err != nil {
			return nil, fmt.Errorf("querying for export: %w", err)
		}
		return docs, nil
	}

	mode := filter.Mode
	if mode == "" {
		mode = ModeAll
	}
	docs, err := s.FindByTags(ctx, filter.Tags, mode)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	return docs, nil
}
