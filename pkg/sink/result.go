// Package sink provides the external output surfaces of an export run: the
// result document file and the durable error log. The pipeline only sees the
// interfaces declared in pkg/export; everything here is replaceable.
package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/openmkt/campaign-export/pkg/export"
	"github.com/openmkt/campaign-export/pkg/logging"
)

// FileResult writes the export document to a JSON file, once per run.
type FileResult struct {
	path   string
	logger zerolog.Logger
}

// NewFileResult creates a result sink writing to the given path. Parent
// directories are created on demand.
func NewFileResult(path string) *FileResult {
	return &FileResult{
		path:   path,
		logger: logging.NewLogger("result-sink"),
	}
}

// Persist implements export.ResultSink.
func (s *FileResult) Persist(_ context.Context, doc *export.Document) error {
	if doc == nil {
		return fmt.Errorf("document cannot be nil")
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode export document: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write export document: %w", err)
	}

	s.logger.Info().
		Str("path", s.path).
		Int("bytes", len(data)).
		Int("campaigns", len(doc.Campaigns)).
		Msg("Export document written")

	return nil
}

var _ export.ResultSink = (*FileResult)(nil)
