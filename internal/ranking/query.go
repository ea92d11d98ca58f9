// Package ranking scores sections against a persona and job in two passes
// and hands the result to diversity-aware selection.
package ranking

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gayatri1064/summary-extractor/internal/embedding"
)

// Query is the reader profile sections are ranked against.
type Query struct {
	Persona string
	Job     string
}

// Statement joins persona and job into the single statement given to cross-scorers.
func (q Query) Statement() string {
	return strings.TrimSpace(q.Persona) + ". " + strings.TrimSpace(q.Job)
}

// Phrasings returns the paraphrased query strings whose embeddings are averaged.
// Several wordings make the query vector less sensitive to exact phrasing.
func (q Query) Phrasings() []string {
	persona := strings.TrimSpace(q.Persona)
	job := strings.TrimSuffix(strings.TrimSpace(q.Job), ".")
	return []string{
		q.Statement(),
		fmt.Sprintf("Task: %s.", job),
		fmt.Sprintf("What does a %s need to know to %s?", persona, lowerFirst(job)),
	}
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// QueryVector embeds every phrasing in one batch and averages the vectors.
func QueryVector(ctx context.Context, embedder embedding.Embedder, q Query) ([]float32, error) {
	vectors, err := embedder.EmbedBatch(ctx, q.Phrasings())
	if err != nil {
		return nil, &Error{Message: "failed to embed query", Cause: err}
	}
	vec := embedding.Mean(vectors)
	if len(vec) == 0 {
		return nil, &Error{Message: "query embedding is empty"}
	}
	return vec, nil
}
