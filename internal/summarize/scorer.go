package summarize

import (
	"context"
	"fmt"
	"math"

	"github.com/gayatri1064/summary-extractor/internal/embedding"
)

// Scorer rates each sentence by how well it represents the whole text.
// It returns one score per sentence, higher is better.
type Scorer interface {
	Score(ctx context.Context, sentences []string, text string) ([]float64, error)
}

// EmbeddingScorer scores a sentence by cosine similarity between its
// embedding and the embedding of the whole text.
type EmbeddingScorer struct {
	embedder embedding.Embedder
}

// NewEmbeddingScorer creates a scorer backed by embedder.
func NewEmbeddingScorer(embedder embedding.Embedder) *EmbeddingScorer {
	return &EmbeddingScorer{embedder: embedder}
}

// Score embeds the sentences and the text in one batch.
func (e *EmbeddingScorer) Score(ctx context.Context, sentences []string, text string) ([]float64, error) {
	inputs := make([]string, 0, len(sentences)+1)
	inputs = append(inputs, sentences...)
	inputs = append(inputs, text)

	vecs, err := e.embedder.EmbedBatch(ctx, inputs)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(inputs) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(inputs), len(vecs))
	}

	whole := vecs[len(sentences)]
	scores := make([]float64, len(sentences))
	for i := range sentences {
		scores[i] = embedding.CosineSimilarity(vecs[i], whole)
	}
	return scores, nil
}

// TFIDFScorer treats each sentence as a document. A term weighs its frequency
// in the whole text times its inverse sentence frequency, and a sentence
// scores the mean weight of its terms. It needs no model.
type TFIDFScorer struct{}

// Score never fails.
func (TFIDFScorer) Score(_ context.Context, sentences []string, _ string) ([]float64, error) {
	tokenized := make([][]string, len(sentences))
	termFreq := make(map[string]int)
	docFreq := make(map[string]int)
	total := 0

	for i, s := range sentences {
		tokens := embedding.Tokenize(s)
		tokenized[i] = tokens
		seen := make(map[string]bool, len(tokens))
		for _, tok := range tokens {
			termFreq[tok]++
			total++
			if !seen[tok] {
				seen[tok] = true
				docFreq[tok]++
			}
		}
	}

	n := float64(len(sentences))
	scores := make([]float64, len(sentences))
	for i, tokens := range tokenized {
		if len(tokens) == 0 {
			continue
		}
		var sum float64
		for _, tok := range tokens {
			tf := float64(termFreq[tok]) / float64(total)
			idf := math.Log(1 + n/float64(docFreq[tok]))
			sum += tf * idf
		}
		scores[i] = sum / float64(len(tokens))
	}
	return scores, nil
}
