package pipeline

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gayatri1064/summary-extractor/internal/schemas"
	"github.com/gayatri1064/summary-extractor/internal/types"
)

// MarshalReport encodes a report with two-space indentation.
func MarshalReport(report *types.Report) ([]byte, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteReport writes a report to path, creating parent directories.
// A report that does not match the schema is still written; the mismatch is logged.
func WriteReport(path string, report *types.Report, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	data, err := MarshalReport(report)
	if err != nil {
		return err
	}
	if err := schemas.ValidateReport(data); err != nil {
		logger.Warn("report does not match schema", "error", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
