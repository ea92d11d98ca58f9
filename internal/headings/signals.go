package headings

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/gayatri1064/summary-extractor/internal/types"
)

// Signal names one heuristic that can mark a line as a heading.
type Signal string

// Signals evaluated by the classifier, in evaluation order.
const (
	SignalSize    Signal = "size"
	SignalWeight  Signal = "weight"
	SignalPattern Signal = "pattern"
	SignalCasing  Signal = "casing"
)

// Veto names a noise check that prevents a line from being a heading.
type Veto string

// Vetoes evaluated before any signal.
const (
	VetoNone   Veto = ""
	VetoLength Veto = "length"
	VetoNoise  Veto = "noise"
)

// IsLargeFont reports whether the font size stands out from the document's typography.
// Lines with an unknown size never fire.
func IsLargeFont(fontSize float64, stats FontStats, zThreshold float64) bool {
	if fontSize <= 0 {
		return false
	}
	return stats.ZScore(fontSize) >= zThreshold
}

// IsBoldFont reports whether the font name contains one of the bold family fragments.
func IsBoldFont(fontName string, boldFonts []string) bool {
	if fontName == "" {
		return false
	}
	name := strings.ToLower(fontName)
	for _, bold := range boldFonts {
		if bold != "" && strings.Contains(name, strings.ToLower(bold)) {
			return true
		}
	}
	return false
}

// MatchHeadingPattern returns the index of the first matching pattern, or -1.
func MatchHeadingPattern(text string, patterns []*regexp.Regexp) int {
	for i, re := range patterns {
		if re.MatchString(text) {
			return i
		}
	}
	return -1
}

// CasingDensity returns the share of words that are title-case or fully uppercase.
// Words without letters are ignored; a line with no such words has density 0.
func CasingDensity(text string) float64 {
	words := 0
	capitalized := 0
	for _, word := range strings.Fields(text) {
		first, hasLetter := firstLetter(word)
		if !hasLetter {
			continue
		}
		words++
		if unicode.IsUpper(first) {
			capitalized++
		}
	}
	if words == 0 {
		return 0
	}
	return float64(capitalized) / float64(words)
}

// IsNoise reports whether the text matches any noise pattern.
func IsNoise(text string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// firstLetter returns the first letter of a word, skipping leading punctuation or digits.
func firstLetter(word string) (rune, bool) {
	for _, r := range word {
		if unicode.IsLetter(r) {
			return r, true
		}
	}
	return 0, false
}

// predicate is one independently testable heading heuristic.
type predicate struct {
	signal Signal
	test   func(line types.Line, text string, stats FontStats) bool
}

func (c *Classifier) buildPredicates() []predicate {
	cfg := c.config
	return []predicate{
		{SignalSize, func(line types.Line, _ string, stats FontStats) bool {
			return IsLargeFont(line.FontSize, stats, cfg.SizeZThreshold)
		}},
		{SignalWeight, func(line types.Line, _ string, _ FontStats) bool {
			return IsBoldFont(line.FontName, cfg.BoldFonts)
		}},
		{SignalPattern, func(_ types.Line, text string, _ FontStats) bool {
			return MatchHeadingPattern(text, cfg.HeadingPatterns) >= 0
		}},
		{SignalCasing, func(_ types.Line, text string, _ FontStats) bool {
			return CasingDensity(text) > cfg.CasingDensityThreshold
		}},
	}
}
