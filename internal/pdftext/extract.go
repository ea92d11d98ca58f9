// Package pdftext turns PDF pages into styled text lines with page, position and font metadata.
//
// Two backends are available. The styled backend reads glyph positions and font names with
// github.com/ledongthuc/pdf, which decodes font encodings. The stream backend validates the file
// with pdfcpu and interprets the page content streams itself; it survives files the styled
// backend cannot parse but only decodes single-byte and simple two-byte text.
package pdftext

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/gayatri1064/summary-extractor/internal/types"
)

// Backend selects how lines are extracted.
type Backend string

// Backend constants
const (
	BackendAuto   Backend = "auto"
	BackendStyled Backend = "styled"
	BackendStream Backend = "stream"
)

// ExtractError represents a PDF that could not be read
type ExtractError struct {
	Path    string
	Message string
	Cause   error
}

func (e *ExtractError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("pdf %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("pdf %s: %s", e.Path, e.Message)
}

func (e *ExtractError) Unwrap() error {
	return e.Cause
}

// Options configure an Extractor.
type Options struct {
	Backend Backend
	Logger  *slog.Logger
}

// Extractor reads styled lines from PDF files.
type Extractor struct {
	backend Backend
	logger  *slog.Logger
}

// New creates an Extractor. An empty backend means auto: styled first, stream on failure.
func New(opts Options) *Extractor {
	if opts.Backend == "" {
		opts.Backend = BackendAuto
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Extractor{backend: opts.Backend, logger: opts.Logger}
}

// ExtractLines returns the lines of every page in content order.
// Source is set to the file's base name.
func (e *Extractor) ExtractLines(ctx context.Context, path string) ([]types.Line, error) {
	source := filepath.Base(path)

	switch e.backend {
	case BackendStyled:
		return extractStyled(ctx, path, source)
	case BackendStream:
		return extractStream(ctx, path, source)
	case BackendAuto:
		lines, err := extractStyled(ctx, path, source)
		if err == nil && len(lines) > 0 {
			return lines, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		e.logger.Debug("styled extraction gave nothing, trying content streams", "path", path, "error", err)
		return extractStream(ctx, path, source)
	default:
		return nil, &ExtractError{Path: path, Message: fmt.Sprintf("unknown backend %q", e.backend)}
	}
}
