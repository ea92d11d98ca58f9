package pipeline

import (
	"context"
	"fmt"

	"github.com/gayatri1064/summary-extractor/internal/config"
	"github.com/gayatri1064/summary-extractor/internal/embedding"
	"github.com/gayatri1064/summary-extractor/internal/headings"
	"github.com/gayatri1064/summary-extractor/internal/llm"
	"github.com/gayatri1064/summary-extractor/internal/pdftext"
	"github.com/gayatri1064/summary-extractor/internal/ranking"
	"github.com/gayatri1064/summary-extractor/internal/summarize"
)

// FromConfig builds a Pipeline with the backends named in cfg. The returned
// close function releases the LLM client, if one was created.
// cfg is expected to be merged with defaults and validated.
func FromConfig(ctx context.Context, cfg *config.Config, apiKey string, opts Options) (*Pipeline, func() error, error) {
	// Config values win over Options; defaults only fill what neither sets.
	if cfg.MaxContentLinesPerSection > 0 {
		opts.MaxContentLines = cfg.MaxContentLinesPerSection
	}
	if cfg.Concurrency > 0 {
		opts.DocumentConcurrency = cfg.Concurrency
	}
	opts.defaults()
	noop := func() error { return nil }

	hc, err := cfg.HeadingClassifierConfig()
	if err != nil {
		return nil, noop, err
	}

	embCfg := cfg.Embedding
	embCfg.Logger = opts.Logger
	embedder, err := embedding.New(ctx, embCfg, apiKey)
	if err != nil {
		return nil, noop, fmt.Errorf("failed to create embedder: %w", err)
	}

	scorer, closeFn, err := crossScorer(ctx, cfg, embedder, apiKey)
	if err != nil {
		return nil, noop, err
	}

	splitter, err := summarize.NewPunktSplitter()
	if err != nil {
		_ = closeFn()
		return nil, noop, fmt.Errorf("failed to create sentence splitter: %w", err)
	}
	var sentenceScorer summarize.Scorer
	if cfg.SummaryScorer != config.SummaryScorerTFIDF {
		sentenceScorer = summarize.NewEmbeddingScorer(embedder)
	}

	p := New(
		pdftext.New(pdftext.Options{Backend: pdftext.Backend(cfg.PDFBackend), Logger: opts.Logger}),
		headings.NewClassifierWithConfig(hc),
		ranking.NewRanker(embedder, scorer, cfg.RankingOptions(opts.Logger)),
		summarize.New(splitter, sentenceScorer, cfg.SummarizeOptions(opts.Logger)),
		opts,
	)
	return p, closeFn, nil
}

func crossScorer(ctx context.Context, cfg *config.Config, embedder embedding.Embedder, apiKey string) (ranking.CrossScorer, func() error, error) {
	noop := func() error { return nil }

	switch cfg.CrossScorer {
	case config.CrossScorerLLM:
		llmCfg := llm.DefaultConfig()
		if cfg.JudgeModel != "" {
			llmCfg = llmCfg.WithModel(llm.TierLite, cfg.JudgeModel)
		}
		client, err := llm.NewClient(ctx, llmCfg, apiKey)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to create LLM client: %w", err)
		}
		return ranking.NewLLMJudge(client), client.Close, nil
	case config.CrossScorerEmbedding:
		return ranking.NewEmbeddingCrossScorer(embedder), noop, nil
	default:
		return nil, noop, nil
	}
}
