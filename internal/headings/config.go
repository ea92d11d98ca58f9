package headings

import (
	"fmt"
	"regexp"
)

// DefaultBoldFonts are font-name fragments that mark a heavy typeface.
var DefaultBoldFonts = []string{"Bold", "Black", "Heavy", "Semibold", "Demi", "Arial-BoldMT", "Times-Bold"}

// DefaultHeadingPatterns are the heading-shape patterns, tried in order.
var DefaultHeadingPatterns = []string{
	// 1. Intro, 1.2 Scope, 3) Results
	`^\d{1,3}(\.\d{1,3})*[.)]?\s+\p{L}`,
	// A. Overview
	`^[A-Z][.)]\s+\p{L}`,
	// Chapter 3, Section 2, Day 1
	`(?i)^(chapter|section|part|day|step|appendix|module|unit|lesson)\s+(\d+|[ivxlc]+)\b`,
	// IV. Discussion
	`^[IVXLC]+[.)]\s+\p{L}`,
	// short capitalized phrase without punctuation
	`^\p{Lu}[\p{L}\p{N}'&\-]*(\s+[\p{L}\p{N}'&\-]+){0,4}$`,
}

// DefaultNoisePatterns veto lines that look like addresses, dates, emails or bare numbers.
var DefaultNoisePatterns = []string{
	`(?i)^\d{1,5}\s+(\p{L}+\s+){0,4}(street|st|avenue|ave|road|rd|boulevard|blvd|lane|ln|drive|dr|court|ct|place|pl|square|sq|rue)\b`,
	`(?i)^\s*(\d{1,2}[/.\-]\d{1,2}[/.\-]\d{2,4}|\d{4}-\d{2}-\d{2}|(jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\.?\s+\d{1,2}(st|nd|rd|th)?,?\s+\d{4}|\d{1,2}(st|nd|rd|th)?\s+(jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\.?,?\s+\d{4})\s*$`,
	`[\w.+\-]+@[\w\-]+\.[\w.\-]+`,
	`^[\d\s.,:/()%+\-]+$`,
}

// Config holds the thresholds and pattern sets used by the classifier.
type Config struct {
	// SizeZThreshold is the minimum font-size z-score for the size signal. Default: 1.0
	SizeZThreshold float64

	// CasingDensityThreshold is the share of title-case or uppercase words above which
	// the casing signal fires. Default: 0.6
	CasingDensityThreshold float64

	// MinLength is the minimum trimmed text length of a heading. Default: 3
	MinLength int

	// BoldFonts are matched case-insensitively as substrings of the font name.
	BoldFonts []string

	// HeadingPatterns are heading-shape patterns, tried in order.
	HeadingPatterns []*regexp.Regexp

	// NoisePatterns veto a line regardless of other signals.
	NoisePatterns []*regexp.Regexp
}

// DefaultConfig returns the default classifier configuration.
func DefaultConfig() Config {
	return Config{
		SizeZThreshold:         1.0,
		CasingDensityThreshold: 0.6,
		MinLength:              3,
		BoldFonts:              append([]string(nil), DefaultBoldFonts...),
		HeadingPatterns:        mustCompileAll(DefaultHeadingPatterns),
		NoisePatterns:          mustCompileAll(DefaultNoisePatterns),
	}
}

// CompilePatterns compiles a list of regular expressions, reporting the first invalid one.
func CompilePatterns(exprs []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for i, expr := range exprs {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("pattern %d %q: %w", i, expr, err)
		}
		out = append(out, re)
	}
	return out, nil
}

func mustCompileAll(exprs []string) []*regexp.Regexp {
	out, err := CompilePatterns(exprs)
	if err != nil {
		panic(err)
	}
	return out
}
