// Package headings classifies styled text lines as section heading candidates.
package headings

import (
	"math"

	"github.com/gayatri1064/summary-extractor/internal/types"
)

const (
	// DefaultMeanFontSize is used when a document has no lines with a known font size.
	DefaultMeanFontSize = 11.0
	// DefaultStdDevFontSize is used when font sizes are unknown or do not vary.
	DefaultStdDevFontSize = 1.0
)

// FontStats summarizes the typography of one document.
type FontStats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Count  int     `json:"count"`
}

// DefaultFontStats returns the fallback statistics for documents without sized lines.
func DefaultFontStats() FontStats {
	return FontStats{Mean: DefaultMeanFontSize, StdDev: DefaultStdDevFontSize}
}

// ComputeFontStats returns the mean and population standard deviation of all positive font sizes.
// A zero deviation (one sample, or every line the same size) falls back to DefaultStdDevFontSize
// so z-scores stay finite.
func ComputeFontStats(lines []types.Line) FontStats {
	var sum float64
	count := 0
	for _, line := range lines {
		if line.FontSize > 0 {
			sum += line.FontSize
			count++
		}
	}
	if count == 0 {
		return DefaultFontStats()
	}

	mean := sum / float64(count)
	var sq float64
	for _, line := range lines {
		if line.FontSize > 0 {
			d := line.FontSize - mean
			sq += d * d
		}
	}
	std := math.Sqrt(sq / float64(count))
	if std == 0 {
		std = DefaultStdDevFontSize
	}

	return FontStats{Mean: mean, StdDev: std, Count: count}
}

// ZScore standardizes a font size against the statistics.
func (s FontStats) ZScore(fontSize float64) float64 {
	std := s.StdDev
	if std <= 0 {
		std = DefaultStdDevFontSize
	}
	return (fontSize - s.Mean) / std
}
