package ranking

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gayatri1064/summary-extractor/internal/llm"
	"github.com/gayatri1064/summary-extractor/internal/selection"
	"github.com/gayatri1064/summary-extractor/internal/types"
)

// keywordEmbedder maps text to counts of a few topic words, plus a small
// constant so no vector is zero.
type keywordEmbedder struct {
	failOn string
}

var topics = [][]string{
	{"trip", "travel"},
	{"restaurant"},
	{"tax"},
}

func (k keywordEmbedder) vector(text string) []float32 {
	lower := strings.ToLower(text)
	vec := make([]float32, len(topics)+1)
	for i, words := range topics {
		for _, w := range words {
			vec[i] += float32(strings.Count(lower, w))
		}
	}
	vec[len(topics)] = 0.1
	return vec
}

func (k keywordEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	return k.vector(text), nil
}

func (k keywordEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if k.failOn != "" && strings.Contains(strings.ToLower(text), k.failOn) {
			return nil, errors.New("backend unavailable")
		}
		out[i] = k.vector(text)
	}
	return out, nil
}

func (k keywordEmbedder) Model() string { return "keyword" }

var filler = strings.Repeat("lorem ipsum ", 30)

func section(doc, title, body string) types.Section {
	return types.Section{Document: doc, Page: 1, Title: title, Text: body + " " + filler}
}

func rankedTitles(ranked []types.RankedSection) []string {
	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.Title
	}
	return out
}

func TestRank_TravelPlanner(t *testing.T) {
	sections := []types.Section{
		section("a.pdf", "Dining Out", "a trip with a restaurant and another restaurant"),
		section("b.pdf", "Coastal Adventures", "trip ideas, a trip by the sea, a trip inland, one restaurant"),
		section("c.pdf", "Filing Returns", "tax forms and tax deadlines"),
	}
	ranker := NewRanker(keywordEmbedder{}, nil, Options{TopK: 2, PerDocumentCap: 1})

	ranked, err := ranker.Rank(context.Background(), sections, Query{Persona: "Travel Planner", Job: "Plan a 4-day trip"})

	require.NoError(t, err)
	assert.Equal(t, []string{"Coastal Adventures", "Dining Out"}, rankedTitles(ranked))
	assert.Equal(t, 1, ranked[0].ImportanceRank)
	assert.Equal(t, 2, ranked[1].ImportanceRank)
	for _, r := range ranked {
		assert.Nil(t, r.Vector)
		assert.Nil(t, r.PreciseScore)
	}
}

func TestRank_NearDuplicatesCollapse(t *testing.T) {
	sections := []types.Section{
		section("a.pdf", "Beaches", "trip trip trip"),
		section("b.pdf", "Beaches Again", "trip trip trip restaurant"),
		section("c.pdf", "Where to Eat", "restaurant restaurant trip"),
	}
	ranker := NewRanker(keywordEmbedder{}, nil, Options{TopK: 3, PerDocumentCap: 3, DuplicateThreshold: 0.85})

	ranked, err := ranker.Rank(context.Background(), sections, travelQuery)

	require.NoError(t, err)
	assert.Equal(t, []string{"Beaches", "Where to Eat"}, rankedTitles(ranked))
}

func TestRank_PreciseScoresReorder(t *testing.T) {
	sections := []types.Section{
		section("a.pdf", "Dining Out", "a trip with a restaurant"),
		section("b.pdf", "Coastal Adventures", "trip trip trip"),
	}
	client := &MockLLMClient{
		GenerateJSONFunc: func(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
			if strings.Contains(prompt, "Dining Out") {
				return `{"relevance_score": 0.95}`, nil
			}
			return `{"relevance_score": 0.1}`, nil
		},
	}
	ranker := NewRanker(keywordEmbedder{}, NewLLMJudge(client), Options{TopK: 2, PerDocumentCap: 1})

	ranked, err := ranker.Rank(context.Background(), sections, travelQuery)

	require.NoError(t, err)
	assert.Equal(t, []string{"Dining Out", "Coastal Adventures"}, rankedTitles(ranked))
	require.NotNil(t, ranked[0].PreciseScore)
	assert.Greater(t, ranked[1].PreliminaryScore, ranked[0].PreliminaryScore, "preliminary scores are kept alongside")
}

func TestRank_DocumentEmbeddingFailureDropsDocument(t *testing.T) {
	sections := []types.Section{
		section("a.pdf", "Broken Page", "trip trip"),
		section("b.pdf", "Coastal Adventures", "trip trip trip"),
	}
	ranker := NewRanker(keywordEmbedder{failOn: "broken"}, nil, Options{TopK: 5, PerDocumentCap: 3})

	ranked, err := ranker.Rank(context.Background(), sections, travelQuery)

	require.NoError(t, err)
	assert.Equal(t, []string{"Coastal Adventures"}, rankedTitles(ranked))
}

func TestRank_QueryEmbeddingFailure(t *testing.T) {
	ranker := NewRanker(keywordEmbedder{failOn: "travel planner"}, nil, DefaultOptions())

	_, err := ranker.Rank(context.Background(), []types.Section{section("a.pdf", "T", "x")}, travelQuery)

	var rankErr *Error
	require.ErrorAs(t, err, &rankErr)
	assert.Contains(t, err.Error(), "failed to embed query")
}

func TestRank_EmptyInput(t *testing.T) {
	ranked, err := NewRanker(keywordEmbedder{}, nil, DefaultOptions()).Rank(context.Background(), nil, travelQuery)
	assert.NoError(t, err)
	assert.Empty(t, ranked)
}

func TestRank_InvalidOptions(t *testing.T) {
	ranker := NewRanker(keywordEmbedder{}, nil, Options{TopK: -1})
	_, err := ranker.Rank(context.Background(), []types.Section{section("a.pdf", "T", "x")}, travelQuery)
	assert.Error(t, err)
}

func TestNewRanker_ZeroThresholdTakesDefault(t *testing.T) {
	ranker := NewRanker(keywordEmbedder{}, nil, Options{TopK: 3})
	assert.Equal(t, selection.DefaultDuplicateThreshold, ranker.opts.DuplicateThreshold)

	ranker = NewRanker(keywordEmbedder{}, nil, Options{TopK: 3, DuplicateThreshold: 0.4})
	assert.Equal(t, 0.4, ranker.opts.DuplicateThreshold)
}

func TestRank_DeterministicUnderPermutation(t *testing.T) {
	sections := []types.Section{
		section("a.pdf", "One", "trip"),
		section("b.pdf", "Two", "trip"),
		section("c.pdf", "Three", "trip restaurant"),
	}
	ranker := NewRanker(keywordEmbedder{}, nil, Options{TopK: 3, PerDocumentCap: 1, DuplicateThreshold: 1.01})

	first, err := ranker.Rank(context.Background(), sections, travelQuery)
	require.NoError(t, err)
	second, err := ranker.Rank(context.Background(), sections, travelQuery)
	require.NoError(t, err)

	assert.Equal(t, rankedTitles(first), rankedTitles(second))
	assert.Equal(t, []string{"One", "Two", "Three"}, rankedTitles(first), "equal scores keep input order")
}

func TestLengthPenalty(t *testing.T) {
	assert.Equal(t, 0.0, LengthPenalty(""))
	assert.InDelta(t, 0.5, LengthPenalty(strings.Repeat("a", 150)), 1e-9)
	assert.Equal(t, 1.0, LengthPenalty(strings.Repeat("a", 300)))
	assert.Equal(t, 1.0, LengthPenalty(strings.Repeat("a", 900)))
	assert.InDelta(t, 0.5, LengthPenalty(strings.Repeat("é", 150)), 1e-9, "counts characters, not bytes")
}

func TestPreselect(t *testing.T) {
	candidates := []types.ScoredSection{
		{Section: types.Section{Title: "low"}, PreliminaryScore: 0.1, Order: 0},
		{Section: types.Section{Title: "tieA"}, PreliminaryScore: 0.5, Order: 1},
		{Section: types.Section{Title: "high"}, PreliminaryScore: 0.9, Order: 2},
		{Section: types.Section{Title: "tieB"}, PreliminaryScore: 0.5, Order: 3},
	}

	got := Preselect(candidates, 3)
	require.Len(t, got, 3)
	assert.Equal(t, "high", got[0].Title)
	assert.Equal(t, "tieA", got[1].Title)
	assert.Equal(t, "tieB", got[2].Title)

	assert.Len(t, Preselect(candidates, 0), 4)
	assert.Equal(t, "low", candidates[0].Title, "input is not reordered")
}

func TestQuery_Phrasings(t *testing.T) {
	phrasings := Query{Persona: "Travel Planner", Job: "Plan a 4-day trip."}.Phrasings()

	require.Len(t, phrasings, 3)
	assert.Equal(t, "Travel Planner. Plan a 4-day trip.", phrasings[0])
	assert.Equal(t, "Task: Plan a 4-day trip.", phrasings[1])
	assert.Equal(t, "What does a Travel Planner need to know to plan a 4-day trip?", phrasings[2])
}

func TestQuery_PhrasingsNonASCII(t *testing.T) {
	phrasings := Query{Persona: "Guide", Job: "Évaluer les hôtels"}.Phrasings()

	require.Len(t, phrasings, 3)
	assert.Equal(t, "What does a Guide need to know to évaluer les hôtels?", phrasings[2])
	for _, p := range phrasings {
		assert.True(t, utf8.ValidString(p), p)
	}
}

func TestLowerFirst(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Plan", "plan"},
		{"Über", "über"},
		{"ß", "ß"},
		{"4-day", "4-day"},
		{"\xffabc", "\xffabc"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, lowerFirst(tt.in), tt.in)
	}
}
