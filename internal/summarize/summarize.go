package summarize

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
)

// DefaultMaxSentences is the sentence budget of a summary
const DefaultMaxSentences = 5

// Options configure a Summarizer. Zero MaxSentences and MinSentenceChars take defaults.
type Options struct {
	MaxSentences     int
	MinSentenceChars int
	// SkipCleaning keeps sentences exactly as the splitter returns them.
	SkipCleaning bool
	Logger       *slog.Logger
}

func (o *Options) defaults() {
	if o.MaxSentences <= 0 {
		o.MaxSentences = DefaultMaxSentences
	}
	if o.MinSentenceChars <= 0 {
		o.MinSentenceChars = DefaultMinSentenceChars
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Summarizer picks the most representative sentences of a text.
type Summarizer struct {
	splitter Splitter
	scorer   Scorer
	opts     Options
}

// New creates a Summarizer. A nil scorer uses TF-IDF.
func New(splitter Splitter, scorer Scorer, opts Options) *Summarizer {
	opts.defaults()
	if scorer == nil {
		scorer = TFIDFScorer{}
	}
	return &Summarizer{splitter: splitter, scorer: scorer, opts: opts}
}

// Summarize returns at most MaxSentences sentences of text, in their original order,
// joined by single spaces. Text that already fits is returned whole, cleaned unless
// cleaning is skipped. Blank text or text with no sentence left after cleaning gives "".
// A scorer error falls back to TF-IDF, so Summarize never fails.
func (s *Summarizer) Summarize(ctx context.Context, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	sentences := s.splitter.Split(text)
	if !s.opts.SkipCleaning {
		sentences = CleanSentences(sentences, s.opts.MinSentenceChars)
	}
	if len(sentences) == 0 {
		return ""
	}
	if len(sentences) <= s.opts.MaxSentences {
		if s.opts.SkipCleaning {
			return text
		}
		return strings.Join(sentences, " ")
	}

	scores, err := s.scorer.Score(ctx, sentences, text)
	if err == nil && len(scores) != len(sentences) {
		err = errScoreCount
	}
	if err != nil {
		s.opts.Logger.Warn("sentence scoring failed, using TF-IDF", "error", err)
		scores, _ = TFIDFScorer{}.Score(ctx, sentences, text)
	}

	picked := topIndices(scores, s.opts.MaxSentences)
	out := make([]string, len(picked))
	for i, idx := range picked {
		out[i] = sentences[idx]
	}
	return strings.Join(out, " ")
}

var errScoreCount = errors.New("scorer returned wrong number of scores")

// topIndices returns the indexes of the n highest scores in ascending index order.
// Equal scores prefer the earlier sentence.
func topIndices(scores []float64, n int) []int {
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] > scores[idx[b]]
	})
	if len(idx) > n {
		idx = idx[:n]
	}
	sort.Ints(idx)
	return idx
}
