package ranking

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/gayatri1064/summary-extractor/internal/embedding"
	"github.com/gayatri1064/summary-extractor/internal/llm"
	"github.com/gayatri1064/summary-extractor/internal/prompts"
	"github.com/gayatri1064/summary-extractor/internal/types"
)

// CrossScorer scores a (query, section) pair directly.
// Scores only need to be comparable with each other, not with cosine similarity.
type CrossScorer interface {
	Score(ctx context.Context, q Query, sec types.Section) (float64, error)
}

// LLMJudge is a CrossScorer that asks an LLM to rate section relevance from 0 to 1.
type LLMJudge struct {
	client llm.Client
	tier   llm.ModelTier
}

// NewLLMJudge creates a judge using the lite model tier.
func NewLLMJudge(client llm.Client) *LLMJudge {
	return &LLMJudge{client: client, tier: llm.TierLite}
}

// llmJudgeResponse represents the expected JSON response from the LLM.
type llmJudgeResponse struct {
	RelevanceScore *float64 `json:"relevance_score"`
	Reasoning      string   `json:"reasoning"`
}

// Score rates one section. The returned score is clamped to [0, 1].
func (j *LLMJudge) Score(ctx context.Context, q Query, sec types.Section) (float64, error) {
	prompt, err := prompts.Render("ranking.json", "judge-section-relevance", map[string]string{
		"Persona":  q.Persona,
		"Job":      q.Job,
		"Document": sec.Document,
		"Title":    sec.Title,
		"Text":     orNotSpecified(sec.Text),
	})
	if err != nil {
		return 0, err
	}

	jsonResp, err := j.client.GenerateJSON(ctx, prompt, j.tier)
	if err != nil {
		return 0, fmt.Errorf("LLM generation failed with model %s: %w", j.client.GetModel(j.tier), err)
	}
	jsonResp = llm.CleanJSONBlock(jsonResp)

	var response llmJudgeResponse
	if err := json.Unmarshal([]byte(jsonResp), &response); err != nil {
		return 0, fmt.Errorf("failed to parse LLM response: %w (content: %s)", err, jsonResp)
	}
	if response.RelevanceScore == nil {
		return 0, fmt.Errorf("LLM response has no relevance_score (content: %s)", jsonResp)
	}

	return min(max(*response.RelevanceScore, 0.0), 1.0), nil
}

func orNotSpecified(s string) string {
	if s == "" {
		return "(no body text)"
	}
	return s
}

// EmbeddingCrossScorer scores a pair by cosine similarity of the query statement
// and the passage embeddings. It lets the precise stage run offline.
type EmbeddingCrossScorer struct {
	embedder embedding.Embedder
}

// NewEmbeddingCrossScorer creates a cross-scorer backed by an embedder.
func NewEmbeddingCrossScorer(embedder embedding.Embedder) *EmbeddingCrossScorer {
	return &EmbeddingCrossScorer{embedder: embedder}
}

// Score returns cosine(statement, passage).
func (e *EmbeddingCrossScorer) Score(ctx context.Context, q Query, sec types.Section) (float64, error) {
	vecs, err := e.embedder.EmbedBatch(ctx, []string{q.Statement(), PassageText(sec)})
	if err != nil {
		return 0, err
	}
	if len(vecs) != 2 {
		return 0, fmt.Errorf("expected 2 embeddings, got %d", len(vecs))
	}
	return embedding.CosineSimilarity(vecs[0], vecs[1]), nil
}

// ScorePrecise fills PreciseScore on each candidate with scorer, running at most
// concurrency calls at a time. A candidate whose call fails keeps a nil PreciseScore,
// so selection falls back to its preliminary score. The input slice is not modified.
func ScorePrecise(ctx context.Context, scorer CrossScorer, q Query, candidates []types.ScoredSection, concurrency int, logger *slog.Logger) []types.ScoredSection {
	out := make([]types.ScoredSection, len(candidates))
	copy(out, candidates)
	if scorer == nil || len(out) == 0 {
		return out
	}
	if logger == nil {
		logger = slog.Default()
	}

	g, gctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i := range out {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			score, err := scorer.Score(gctx, q, out[i].Section)
			if err != nil {
				logger.Warn("precise scoring failed, using preliminary score",
					"document", out[i].Document, "section", out[i].Title, "error", err)
				return nil
			}
			out[i].PreciseScore = &score
			return nil
		})
	}
	_ = g.Wait()
	return out
}
