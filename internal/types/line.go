// Package types provides type definitions for structured data used throughout the summary-extractor pipeline.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// Line is a single styled text line emitted by the layout extractor.
// Lines are immutable once created and arrive ordered by (document, page, vertical position).
type Line struct {
	Text     string  `json:"text"`
	Page     int     `json:"page"`      // 1-based page number, 0 when unknown
	X        float64 `json:"x"`         // left edge in points
	Y        float64 `json:"y"`         // distance from the top of the page in points, negative when unknown
	FontSize float64 `json:"font_size"` // 0 when unknown
	FontName string  `json:"font_name,omitempty"`
	Source   string  `json:"source"` // source document identifier (file name)
}

// Valid reports whether the line carries usable text.
func (l Line) Valid() bool {
	return strings.TrimSpace(l.Text) != ""
}

// HasPosition reports whether the line carries page and vertical position metadata.
func (l Line) HasPosition() bool {
	return l.Page > 0 && l.Y >= 0
}

// HeadingCandidate is a line classified as a likely section title.
// Index is the position of the line in the stream it was detected from.
type HeadingCandidate struct {
	Line
	Index int `json:"index"`
}
