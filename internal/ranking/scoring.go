package ranking

import (
	"context"
	"log/slog"
	"sort"
	"unicode/utf8"

	"github.com/gayatri1064/summary-extractor/internal/embedding"
	"github.com/gayatri1064/summary-extractor/internal/types"
)

// fullLengthChars is the body length at which a section stops being penalized
const fullLengthChars = 300

// LengthPenalty scales down short sections: min(chars/300, 1).
func LengthPenalty(body string) float64 {
	n := utf8.RuneCountInString(body)
	if n >= fullLengthChars {
		return 1.0
	}
	return float64(n) / fullLengthChars
}

// PassageText is the text a section is embedded and judged by.
func PassageText(sec types.Section) string {
	if sec.Text == "" {
		return sec.Title
	}
	return sec.Title + "\n" + sec.Text
}

// PreliminaryScores embeds sections one batch per document and scores each as
// cosine(section, query) times LengthPenalty. Order is the index in sections.
// A document whose batch fails is dropped with a warning; the others still score.
func PreliminaryScores(ctx context.Context, embedder embedding.Embedder, queryVec []float32, sections []types.Section, logger *slog.Logger) []types.ScoredSection {
	if logger == nil {
		logger = slog.Default()
	}

	docs, groups := groupByDocument(sections)
	vectors := make([][]float32, len(sections))
	for _, doc := range docs {
		idx := groups[doc]
		texts := make([]string, len(idx))
		for i, j := range idx {
			texts[i] = PassageText(sections[j])
		}

		vecs, err := embedder.EmbedBatch(ctx, texts)
		if err == nil && len(vecs) != len(texts) {
			err = &Error{Message: "embedder returned wrong number of vectors"}
		}
		if err != nil {
			logger.Warn("dropping document from ranking", "document", doc, "sections", len(idx), "error", err)
			continue
		}
		for i, j := range idx {
			vectors[j] = vecs[i]
		}
	}

	scored := make([]types.ScoredSection, 0, len(sections))
	for i, sec := range sections {
		if vectors[i] == nil {
			continue
		}
		scored = append(scored, types.ScoredSection{
			Section:          sec,
			PreliminaryScore: embedding.CosineSimilarity(vectors[i], queryVec) * LengthPenalty(sec.Text),
			Vector:           vectors[i],
			Order:            i,
		})
	}
	return scored
}

// Preselect returns the k best candidates by preliminary score, ties kept in Order.
// A non-positive k keeps everything.
func Preselect(candidates []types.ScoredSection, k int) []types.ScoredSection {
	sorted := make([]types.ScoredSection, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].PreliminaryScore != sorted[j].PreliminaryScore {
			return sorted[i].PreliminaryScore > sorted[j].PreliminaryScore
		}
		return sorted[i].Order < sorted[j].Order
	})
	if k > 0 && len(sorted) > k {
		sorted = sorted[:k]
	}
	return sorted
}

// groupByDocument returns documents in first-appearance order and the section indexes of each.
func groupByDocument(sections []types.Section) ([]string, map[string][]int) {
	var docs []string
	groups := make(map[string][]int)
	for i, sec := range sections {
		if _, seen := groups[sec.Document]; !seen {
			docs = append(docs, sec.Document)
		}
		groups[sec.Document] = append(groups[sec.Document], i)
	}
	return docs, groups
}
