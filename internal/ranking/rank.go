package ranking

import (
	"context"
	"log/slog"

	"github.com/gayatri1064/summary-extractor/internal/embedding"
	"github.com/gayatri1064/summary-extractor/internal/selection"
	"github.com/gayatri1064/summary-extractor/internal/types"
)

const (
	// DefaultPreselectK bounds how many sections reach the cross-scorer
	DefaultPreselectK = 50
	// DefaultConcurrency is the number of cross-scoring calls in flight
	DefaultConcurrency = 4
)

// Options tune the ranker. TopK and PerDocumentCap are passed to selection as given;
// zero PreselectK, DuplicateThreshold and Concurrency take their defaults. A zero
// threshold would veto every pair with non-negative similarity, so it is read as unset.
type Options struct {
	TopK               int
	PerDocumentCap     int
	PreselectK         int
	DuplicateThreshold float64
	Concurrency        int
	Logger             *slog.Logger
}

// DefaultOptions returns the default ranking options.
func DefaultOptions() Options {
	c := selection.DefaultConstraints()
	return Options{
		TopK:               c.TopK,
		PerDocumentCap:     c.PerDocumentCap,
		PreselectK:         DefaultPreselectK,
		DuplicateThreshold: c.DuplicateThreshold,
		Concurrency:        DefaultConcurrency,
	}
}

func (o *Options) defaults() {
	if o.PreselectK <= 0 {
		o.PreselectK = DefaultPreselectK
	}
	if o.DuplicateThreshold == 0 {
		o.DuplicateThreshold = selection.DefaultDuplicateThreshold
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Ranker ranks sections from all documents against one query.
type Ranker struct {
	embedder embedding.Embedder
	scorer   CrossScorer
	opts     Options
}

// NewRanker creates a ranker. A nil scorer skips precise scoring.
func NewRanker(embedder embedding.Embedder, scorer CrossScorer, opts Options) *Ranker {
	opts.defaults()
	return &Ranker{embedder: embedder, scorer: scorer, opts: opts}
}

// Rank returns at most TopK sections, ranked 1..n. Sections are processed in input
// order and ties are broken by it, so the same input always gives the same result.
// Only a failure to embed the query is returned as an error.
func (r *Ranker) Rank(ctx context.Context, sections []types.Section, q Query) ([]types.RankedSection, error) {
	if len(sections) == 0 {
		return nil, nil
	}
	if err := r.constraints().Validate(); err != nil {
		return nil, &Error{Message: "invalid options", Cause: err}
	}

	queryVec, err := QueryVector(ctx, r.embedder, q)
	if err != nil {
		return nil, err
	}

	scored := PreliminaryScores(ctx, r.embedder, queryVec, sections, r.opts.Logger)
	pool := Preselect(scored, r.opts.PreselectK)
	r.opts.Logger.Debug("preselected sections", "scored", len(scored), "pool", len(pool))

	pool = ScorePrecise(ctx, r.scorer, q, pool, r.opts.Concurrency, r.opts.Logger)

	ranked := selection.SelectDiverse(pool, r.constraints())
	r.opts.Logger.Debug("selected sections", "count", len(ranked))
	return ranked, nil
}

func (r *Ranker) constraints() selection.Constraints {
	return selection.Constraints{
		TopK:               r.opts.TopK,
		PerDocumentCap:     r.opts.PerDocumentCap,
		DuplicateThreshold: r.opts.DuplicateThreshold,
	}
}
