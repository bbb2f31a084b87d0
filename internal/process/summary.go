// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package process

import (
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/inout-renumber/pkg/types"
)

// WriteSummary prints result to w in the given format. SummaryNone writes
// nothing.
func WriteSummary(w io.Writer, format types.SummaryFormat, result BatchResult) error {
	switch format {
	case types.SummaryNone:
		return nil
	case types.SummaryYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("encoding YAML summary: %w", err)
		}
		return enc.Close()
	case types.SummaryJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("encoding JSON summary: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported summary format %q: use yaml or json", format)
	}
}
