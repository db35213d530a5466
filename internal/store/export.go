// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/qaparse/pkg/types"
)

const exportLimit = 100000

// Export writes the indexed tests matching opts to indexDir/export.<ext>
// and returns the path written. It supports the same filters as Retrieve.
// A zero MaxResults exports every match rather than the retrieve default.
func (s *Store) Export(ctx context.Context, opts QueryOptions, format types.OutputFormat) (string, error) {
	if opts.MaxResults <= 0 {
		opts.MaxResults = exportLimit
	}
	results, err := s.Retrieve(ctx, opts)
	if err != nil {
		return "", fmt.Errorf("querying for export: %w", err)
	}
	if results == nil {
		results = []QueryResult{}
	}

	var data []byte
	switch format {
	case types.FormatJSON, "":
		format = types.FormatJSON
		data, err = json.MarshalIndent(results, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshaling JSON: %w", err)
		}
	case types.FormatYAML:
		data, err = yaml.Marshal(results)
		if err != nil {
			return "", fmt.Errorf("marshaling YAML: %w", err)
		}
	default:
		return "", fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	path := filepath.Join(s.indexDir, "export."+format.Ext())
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
