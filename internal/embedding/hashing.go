package embedding

import (
	"context"
	"hash/fnv"
	"strings"
	"unicode"
)

// HashingEmbedder is a deterministic bag-of-words embedder.
// Lowercased word unigrams and bigrams are hashed into a signed feature vector
// which is L2-normalized, so cosine similarity tracks vocabulary overlap.
type HashingEmbedder struct {
	dim int
}

// NewHashingEmbedder creates a local embedder producing vectors of the given dimension
func NewHashingEmbedder(dim int) *HashingEmbedder {
	if dim <= 0 {
		dim = 384
	}
	return &HashingEmbedder{dim: dim}
}

// Embed returns the embedding vector for a single text
func (h *HashingEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	return h.vector(text), nil
}

// EmbedBatch returns one vector per text, in input order
func (h *HashingEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = h.vector(text)
	}
	return out, nil
}

// Model returns the model name
func (h *HashingEmbedder) Model() string { return "local-hashing" }

func (h *HashingEmbedder) vector(text string) []float32 {
	vec := make([]float32, h.dim)
	tokens := Tokenize(text)
	for i, tok := range tokens {
		h.add(vec, tok, 1.0)
		if i > 0 {
			h.add(vec, tokens[i-1]+" "+tok, 0.5)
		}
	}
	return Normalize(vec)
}

func (h *HashingEmbedder) add(vec []float32, feature string, weight float32) {
	hasher := fnv.New64a()
	_, _ = hasher.Write([]byte(feature))
	sum := hasher.Sum64()
	idx := int(sum % uint64(h.dim))
	if sum>>63 == 1 {
		weight = -weight
	}
	vec[idx] += weight
}

// Tokenize splits text into lowercase word tokens and drops common English stopwords.
func Tokenize(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := words[:0]
	for _, w := range words {
		if _, stop := stopwords[w]; stop {
			continue
		}
		out = append(out, w)
	}
	return out
}

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "but": {}, "by": {},
	"for": {}, "from": {}, "has": {}, "have": {}, "i": {}, "in": {}, "into": {}, "is": {}, "it": {},
	"its": {}, "of": {}, "on": {}, "or": {}, "our": {}, "so": {}, "that": {}, "the": {}, "their": {},
	"there": {}, "these": {}, "this": {}, "to": {}, "was": {}, "we": {}, "were": {}, "will": {},
	"with": {}, "you": {}, "your": {},
}
