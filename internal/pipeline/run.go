// Package pipeline provides the high-level orchestration of a digest run:
// per-document line extraction, heading detection and segmentation, then ranking,
// summarization and report assembly over the merged section pool.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/gayatri1064/summary-extractor/internal/headings"
	"github.com/gayatri1064/summary-extractor/internal/observability"
	"github.com/gayatri1064/summary-extractor/internal/pipeline/steps"
	"github.com/gayatri1064/summary-extractor/internal/ranking"
	"github.com/gayatri1064/summary-extractor/internal/sections"
	"github.com/gayatri1064/summary-extractor/internal/summarize"
	"github.com/gayatri1064/summary-extractor/internal/types"
)

// DefaultDocumentConcurrency bounds how many documents are extracted at once
const DefaultDocumentConcurrency = 4

// LineExtractor reads the styled lines of one document.
type LineExtractor interface {
	ExtractLines(ctx context.Context, path string) ([]types.Line, error)
}

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	RunID    string `json:"run_id,omitempty"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Options configure a Pipeline.
type Options struct {
	// DataDir is prepended to every document file name.
	DataDir             string
	MaxContentLines     int
	DocumentConcurrency int
	Verbose             bool
	// Out receives verbose box output. Defaults to os.Stdout.
	Out        io.Writer
	Logger     *slog.Logger
	OnProgress ProgressCallback
	// Now stamps the report. Defaults to time.Now.
	Now func() time.Time
}

func (o *Options) defaults() {
	if o.MaxContentLines <= 0 {
		o.MaxContentLines = sections.DefaultMaxContentLines
	}
	if o.DocumentConcurrency <= 0 {
		o.DocumentConcurrency = DefaultDocumentConcurrency
	}
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// Pipeline wires the four stages together.
type Pipeline struct {
	extractor  LineExtractor
	classifier *headings.Classifier
	ranker     *ranking.Ranker
	summarizer *summarize.Summarizer
	printer    *observability.Printer
	opts       Options
}

// New creates a Pipeline from its stages.
func New(extractor LineExtractor, classifier *headings.Classifier, ranker *ranking.Ranker, summarizer *summarize.Summarizer, opts Options) *Pipeline {
	opts.defaults()
	return &Pipeline{
		extractor:  extractor,
		classifier: classifier,
		ranker:     ranker,
		summarizer: summarizer,
		printer:    observability.NewPrinter(opts.Out),
		opts:       opts,
	}
}

// DocumentResult holds the document-local stage outputs for one input file.
type DocumentResult struct {
	Document   string
	Lines      []types.Line
	Candidates []types.HeadingCandidate
	Sections   []types.Section
	// Err is set when the document could not be read; its sections are then empty.
	Err error
}

// run tracks the state of one Run call.
type run struct {
	id        string
	completed map[string]bool

	in        *Input
	docs      []DocumentResult
	pool      []types.Section
	ranked    []types.RankedSection
	summaries []types.SummarizedSection
	report    *types.Report
}

// Run executes the full digest for a manifest, stepping through the stages in
// dependency order.
// A document that cannot be read is skipped with a warning; only cancellation
// and a failure to embed the query abort the run.
func (p *Pipeline) Run(ctx context.Context, in *Input) (*types.Report, error) {
	r := &run{id: uuid.New().String(), completed: make(map[string]bool), in: in}
	p.opts.Logger.Info("starting digest", "run_id", r.id, "documents", len(in.Documents))

	for _, step := range steps.Order() {
		if err := p.begin(r, step); err != nil {
			return nil, err
		}
		message, content, err := p.runStep(ctx, r, step)
		if err != nil {
			return nil, err
		}
		p.complete(r, step, message, content)
	}

	p.opts.Logger.Info("digest complete", "run_id", r.id, "sections", len(r.ranked))
	return r.report, nil
}

// runStep executes one stage and returns its progress message and payload.
// The per-document stages all run inside ProcessDocuments on the first of them;
// the later per-document cases only report on what it produced.
func (p *Pipeline) runStep(ctx context.Context, r *run, step string) (string, any, error) {
	switch step {
	case steps.StepExtractLines:
		docs, err := p.ProcessDocuments(ctx, r.in.Documents)
		if err != nil {
			return "", nil, err
		}
		r.docs = docs
		lines := 0
		for _, d := range docs {
			lines += len(d.Lines)
		}
		return fmt.Sprintf("Extracted %d lines from %d documents", lines, len(docs)), nil, nil

	case steps.StepDetectHeadings:
		candidates := 0
		for _, d := range r.docs {
			candidates += len(d.Candidates)
		}
		return fmt.Sprintf("Detected %d heading candidates", candidates), nil, nil

	case steps.StepSegment:
		r.pool = MergeSections(r.docs)
		if p.opts.Verbose {
			stats := make([]observability.DocumentStats, len(r.docs))
			for i, d := range r.docs {
				stats[i] = observability.DocumentStats{Document: d.Document, Lines: len(d.Lines), Candidates: len(d.Candidates), Sections: len(d.Sections)}
			}
			p.printer.PrintDocumentStats(stats)
		}
		return fmt.Sprintf("Segmented %d sections from %d documents", len(r.pool), len(r.docs)), nil, nil

	case steps.StepRank:
		q := ranking.Query{Persona: r.in.Persona.Role, Job: r.in.JobToBeDone.Task}
		ranked, err := p.ranker.Rank(ctx, r.pool, q)
		if err != nil {
			return "", nil, fmt.Errorf("ranking sections failed: %w", err)
		}
		r.ranked = ranked
		if p.opts.Verbose {
			p.printer.PrintRankedSections(ranked)
		}
		return fmt.Sprintf("Selected %d of %d sections", len(ranked), len(r.pool)), ranked, nil

	case steps.StepSummarize:
		summaries, err := p.Summarize(ctx, r.ranked)
		if err != nil {
			return "", nil, err
		}
		r.summaries = summaries
		return fmt.Sprintf("Summarized %d sections", len(summaries)), nil, nil

	case steps.StepBuildReport:
		report := BuildReport(r.in, r.ranked, r.summaries, r.id, p.opts.Now())
		r.report = &report
		if p.opts.Verbose {
			p.printer.PrintSummaries(report.SubsectionAnalysis)
		}
		return "Report ready", nil, nil

	default:
		return "", nil, fmt.Errorf("no handler for step %s", step)
	}
}

// ProcessDocuments runs extraction, heading detection and segmentation for every
// document concurrently. Results come back in input order.
func (p *Pipeline) ProcessDocuments(ctx context.Context, docs []Document) ([]DocumentResult, error) {
	results := make([]DocumentResult, len(docs))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.DocumentConcurrency)
	for i, doc := range docs {
		g.Go(func() error {
			res := p.processDocument(gCtx, doc)
			if res.Err != nil {
				if gCtx.Err() != nil {
					return gCtx.Err()
				}
				p.opts.Logger.Warn("skipping document", "document", doc.Filename, "error", res.Err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (p *Pipeline) processDocument(ctx context.Context, doc Document) DocumentResult {
	res := DocumentResult{Document: doc.Filename}

	lines, err := p.extractor.ExtractLines(ctx, filepath.Join(p.opts.DataDir, doc.Filename))
	if err != nil {
		res.Err = err
		return res
	}
	// The manifest name identifies the document, whatever the extractor reported.
	for i := range lines {
		lines[i].Source = doc.Filename
	}

	res.Lines = lines
	res.Candidates = p.classifier.DetectCandidates(lines)
	res.Sections = sections.Segment(lines, res.Candidates, p.opts.MaxContentLines)
	p.opts.Logger.Debug("document processed",
		"document", doc.Filename,
		"lines", len(lines),
		"headings", len(res.Candidates),
		"sections", len(res.Sections))
	return res
}

// MergeSections concatenates per-document sections in document order.
func MergeSections(docs []DocumentResult) []types.Section {
	var pool []types.Section
	for _, d := range docs {
		pool = append(pool, d.Sections...)
	}
	return pool
}

// Summarize produces one summary per ranked section, in rank order.
func (p *Pipeline) Summarize(ctx context.Context, ranked []types.RankedSection) ([]types.SummarizedSection, error) {
	out := make([]types.SummarizedSection, len(ranked))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.DocumentConcurrency)
	for i, sec := range ranked {
		g.Go(func() error {
			out[i] = types.SummarizedSection{
				Document:    sec.Document,
				Page:        sec.Page,
				RefinedText: p.summarizer.Summarize(gCtx, sec.Text),
			}
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// BuildReport assembles the final report. Ranked and summaries are parallel slices.
func BuildReport(in *Input, ranked []types.RankedSection, summaries []types.SummarizedSection, runID string, now time.Time) types.Report {
	report := types.Report{
		Metadata: types.ReportMetadata{
			InputDocuments:      in.Filenames(),
			Persona:             in.Persona.Role,
			JobToBeDone:         in.JobToBeDone.Task,
			ProcessingTimestamp: now.Format(time.RFC3339),
			RunID:               runID,
		},
		ExtractedSections:  make([]types.ExtractedSection, 0, len(ranked)),
		SubsectionAnalysis: make([]types.SubsectionAnalysis, 0, len(summaries)),
	}

	for _, sec := range ranked {
		report.ExtractedSections = append(report.ExtractedSections, types.ExtractedSection{
			Document:       sec.Document,
			SectionTitle:   sec.Title,
			ImportanceRank: sec.ImportanceRank,
			PageNumber:     sec.Page,
		})
	}
	for _, s := range summaries {
		report.SubsectionAnalysis = append(report.SubsectionAnalysis, types.SubsectionAnalysis{
			Document:    s.Document,
			RefinedText: s.RefinedText,
			PageNumber:  s.Page,
		})
	}
	return report
}

func (p *Pipeline) begin(r *run, step string) error {
	if err := steps.ValidateDependencies(r.completed, step); err != nil {
		return fmt.Errorf("pipeline out of order: %w", err)
	}
	return nil
}

func (p *Pipeline) complete(r *run, step, message string, content any) {
	r.completed[step] = true
	if message != "" {
		p.emit(r, step, message, content)
	}
}

// emit calls the progress callback if configured
func (p *Pipeline) emit(r *run, step, message string, content any) {
	if p.opts.OnProgress == nil {
		return
	}
	p.opts.OnProgress(ProgressEvent{
		Step:     step,
		Category: steps.StepRegistry[step].Category,
		Message:  message,
		RunID:    r.id,
		Content:  content,
	})
}
