// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/inout-renumber/pkg/types"
)

const exportLimit = 100000

// ExportYAML writes the matching runs to w as a YAML sequence.
func (s *Store) ExportYAML(ctx context.Context, w io.Writer, opts QueryOptions) error {
	opts.MaxResults = exportLimit
	records, err := s.Recent(ctx, opts)
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}

	data, err := yaml.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// ExportJSON writes the matching runs to w as a JSON array.
func (s *Store) ExportJSON(ctx context.Context, w io.Writer, opts QueryOptions) error {
	opts.MaxResults = exportLimit
	records, err := s.Recent(ctx, opts)
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}
	if records == nil {
		records = []types.RunRecord{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
