package selection

import (
	"sort"

	"github.com/gayatri1064/summary-extractor/internal/embedding"
	"github.com/gayatri1064/summary-extractor/internal/types"
)

// SortByEffectiveScore returns a copy of candidates ordered by Score() descending.
// Equal scores keep their Order, so the result does not depend on input permutation.
func SortByEffectiveScore(candidates []types.ScoredSection) []types.ScoredSection {
	sorted := make([]types.ScoredSection, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		si, sj := sorted[i].Score(), sorted[j].Score()
		if si != sj {
			return si > sj
		}
		return sorted[i].Order < sorted[j].Order
	})
	return sorted
}

// maxSimilarity returns the highest cosine similarity between vec and any of vectors,
// or -1 when vectors is empty.
func maxSimilarity(vec []float32, vectors [][]float32) float64 {
	best := -1.0
	for _, other := range vectors {
		if sim := embedding.CosineSimilarity(vec, other); sim > best {
			best = sim
		}
	}
	return best
}
