package headings

import (
	"strings"
	"unicode/utf8"

	"github.com/gayatri1064/summary-extractor/internal/types"
)

// Verdict is the outcome of classifying one line.
type Verdict struct {
	IsHeading bool     `json:"is_heading"`
	Veto      Veto     `json:"veto,omitempty"`
	Signals   []Signal `json:"signals,omitempty"`
}

// Classifier labels lines as heading candidates.
// The combination policy is fixed: length gate, then noise veto, then any signal.
type Classifier struct {
	config     Config
	predicates []predicate
}

// NewClassifier creates a classifier with default configuration
func NewClassifier() *Classifier {
	return NewClassifierWithConfig(DefaultConfig())
}

// NewClassifierWithConfig creates a classifier with custom configuration
func NewClassifierWithConfig(config Config) *Classifier {
	if config.MinLength <= 0 {
		config.MinLength = 3
	}
	c := &Classifier{config: config}
	c.predicates = c.buildPredicates()
	return c
}

// Config returns the configuration the classifier was built with.
func (c *Classifier) Config() Config {
	return c.config
}

// Evaluate classifies a line and reports every signal that fired.
// The result depends only on the line, the statistics and the configuration.
func (c *Classifier) Evaluate(line types.Line, stats FontStats) Verdict {
	text := strings.TrimSpace(line.Text)
	if utf8.RuneCountInString(text) < c.config.MinLength {
		return Verdict{Veto: VetoLength}
	}
	if IsNoise(text, c.config.NoisePatterns) {
		return Verdict{Veto: VetoNoise}
	}

	var fired []Signal
	for _, p := range c.predicates {
		if p.test(line, text, stats) {
			fired = append(fired, p.signal)
		}
	}
	return Verdict{IsHeading: len(fired) > 0, Signals: fired}
}

// IsHeading reports whether a line is a heading candidate.
func (c *Classifier) IsHeading(line types.Line, stats FontStats) bool {
	text := strings.TrimSpace(line.Text)
	if utf8.RuneCountInString(text) < c.config.MinLength || IsNoise(text, c.config.NoisePatterns) {
		return false
	}
	for _, p := range c.predicates {
		if p.test(line, text, stats) {
			return true
		}
	}
	return false
}

// DetectCandidates classifies every line and returns the positive ones that carry position metadata.
// Font statistics are computed per source document. Candidate indices refer to positions in lines.
func (c *Classifier) DetectCandidates(lines []types.Line) []types.HeadingCandidate {
	if len(lines) == 0 {
		return nil
	}

	stats := statsBySource(lines)

	var candidates []types.HeadingCandidate
	for i, line := range lines {
		if !line.Valid() || !line.HasPosition() {
			continue
		}
		if c.IsHeading(line, stats[line.Source]) {
			candidates = append(candidates, types.HeadingCandidate{Line: line, Index: i})
		}
	}
	return candidates
}

// statsBySource computes font statistics for each source document in the stream.
func statsBySource(lines []types.Line) map[string]FontStats {
	bySource := make(map[string][]types.Line)
	for _, line := range lines {
		bySource[line.Source] = append(bySource[line.Source], line)
	}
	stats := make(map[string]FontStats, len(bySource))
	for source, docLines := range bySource {
		stats[source] = ComputeFontStats(docLines)
	}
	return stats
}
