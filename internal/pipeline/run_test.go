package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gayatri1064/summary-extractor/internal/config"
	"github.com/gayatri1064/summary-extractor/internal/embedding"
	"github.com/gayatri1064/summary-extractor/internal/headings"
	"github.com/gayatri1064/summary-extractor/internal/pipeline/steps"
	"github.com/gayatri1064/summary-extractor/internal/ranking"
	"github.com/gayatri1064/summary-extractor/internal/schemas"
	"github.com/gayatri1064/summary-extractor/internal/summarize"
	"github.com/gayatri1064/summary-extractor/internal/types"
)

// fakeExtractor serves canned lines keyed by file base name.
type fakeExtractor struct {
	docs map[string][]types.Line
	errs map[string]error
}

func (f *fakeExtractor) ExtractLines(ctx context.Context, path string) ([]types.Line, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := filepath.Base(path)
	if err, ok := f.errs[name]; ok {
		return nil, err
	}
	lines, ok := f.docs[name]
	if !ok {
		return nil, errors.New("no such document")
	}
	out := make([]types.Line, len(lines))
	copy(out, lines)
	for i := range out {
		out[i].Source = "extractor-" + name
	}
	return out, nil
}

// docLines lays out headings at 18pt followed by 10pt body lines, one section per page.
func docLines(sections map[string][]string, order ...string) []types.Line {
	var lines []types.Line
	for page, title := range order {
		y := 72.0
		lines = append(lines, types.Line{Text: title, Page: page + 1, X: 72, Y: y, FontSize: 18, FontName: "Helvetica"})
		for _, body := range sections[title] {
			y += 14
			lines = append(lines, types.Line{Text: body, Page: page + 1, X: 72, Y: y, FontSize: 10, FontName: "Helvetica"})
		}
	}
	return lines
}

func travelDocs() map[string][]types.Line {
	return map[string][]types.Line{
		"cities.pdf": docLines(map[string][]string{
			"Coastal Towns": {
				"the trip along the coast is ideal for a group of friends.",
				"plan a day in each town and travel by train between them.",
				"the beaches are busy in summer so book early.",
			},
			"Museum Hours": {
				"most museums close on mondays and open at nine.",
				"tickets can be bought online in advance.",
			},
		}, "Coastal Towns", "Museum Hours"),
		"food.pdf": docLines(map[string][]string{
			"Local Markets": {
				"markets open early and sell cheese, olives and bread.",
				"a group trip to the market is a cheap way to plan lunch.",
			},
		}, "Local Markets"),
	}
}

func travelInput(files ...string) *Input {
	in := &Input{
		Persona:     Persona{Role: "Travel Planner"},
		JobToBeDone: JobToBeDone{Task: "Plan a trip of 4 days for a group of 10 college friends."},
	}
	for _, f := range files {
		in.Documents = append(in.Documents, Document{Filename: f})
	}
	return in
}

func newTestPipeline(t *testing.T, extractor LineExtractor, rankOpts ranking.Options, opts Options) *Pipeline {
	t.Helper()
	embedder := embedding.NewHashingEmbedder(256)
	splitter, err := summarize.NewPunktSplitter()
	require.NoError(t, err)

	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC) }
	}
	return New(
		extractor,
		headings.NewClassifier(),
		ranking.NewRanker(embedder, nil, rankOpts),
		summarize.New(splitter, summarize.NewEmbeddingScorer(embedder), summarize.Options{MaxSentences: 2}),
		opts,
	)
}

func TestRun_EndToEnd(t *testing.T) {
	var (
		mu     sync.Mutex
		events []ProgressEvent
	)
	var out bytes.Buffer
	p := newTestPipeline(t, &fakeExtractor{docs: travelDocs()}, ranking.DefaultOptions(), Options{
		Verbose: true,
		Out:     &out,
		OnProgress: func(e ProgressEvent) {
			mu.Lock()
			defer mu.Unlock()
			events = append(events, e)
		},
	})

	report, err := p.Run(context.Background(), travelInput("cities.pdf", "food.pdf"))
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.Equal(t, []string{"cities.pdf", "food.pdf"}, report.Metadata.InputDocuments)
	assert.Equal(t, "Travel Planner", report.Metadata.Persona)
	assert.Equal(t, "2026-01-10T12:00:00Z", report.Metadata.ProcessingTimestamp)
	assert.NotEmpty(t, report.Metadata.RunID)

	require.Len(t, report.ExtractedSections, 3)
	require.Len(t, report.SubsectionAnalysis, 3)
	titles := map[string]bool{}
	for i, sec := range report.ExtractedSections {
		assert.Equal(t, i+1, sec.ImportanceRank, "ranks are dense and 1-based")
		assert.Contains(t, []string{"cities.pdf", "food.pdf"}, sec.Document, "manifest names replace extractor sources")
		assert.Equal(t, sec.Document, report.SubsectionAnalysis[i].Document)
		assert.Equal(t, sec.PageNumber, report.SubsectionAnalysis[i].PageNumber)
		titles[sec.SectionTitle] = true
	}
	assert.True(t, titles["Coastal Towns"])
	assert.True(t, titles["Local Markets"])

	for _, a := range report.SubsectionAnalysis {
		assert.NotEmpty(t, a.RefinedText)
	}

	data, err := MarshalReport(report)
	require.NoError(t, err)
	assert.NoError(t, schemas.ValidateReport(data))

	var stepNames []string
	for _, e := range events {
		stepNames = append(stepNames, e.Step)
		assert.Equal(t, report.Metadata.RunID, e.RunID)
		assert.NotEmpty(t, e.Category)
	}
	assert.Equal(t, steps.Order(), stepNames, "one event per stage, in dependency order")
	assert.Equal(t, steps.CategoryExtraction, events[0].Category)
	assert.Contains(t, events[1].Message, "heading candidates")

	assert.Contains(t, out.String(), "DOCUMENTS")
	assert.Contains(t, out.String(), "TOP RANKED SECTIONS")
}

func TestRun_UnreadableDocumentIsSkipped(t *testing.T) {
	extractor := &fakeExtractor{
		docs: travelDocs(),
		errs: map[string]error{"broken.pdf": errors.New("not a pdf")},
	}
	p := newTestPipeline(t, extractor, ranking.DefaultOptions(), Options{})

	report, err := p.Run(context.Background(), travelInput("broken.pdf", "food.pdf"))
	require.NoError(t, err)

	assert.Equal(t, []string{"broken.pdf", "food.pdf"}, report.Metadata.InputDocuments)
	require.Len(t, report.ExtractedSections, 1)
	assert.Equal(t, "food.pdf", report.ExtractedSections[0].Document)
}

func TestRun_PerDocumentCap(t *testing.T) {
	opts := ranking.DefaultOptions()
	opts.PerDocumentCap = 1
	p := newTestPipeline(t, &fakeExtractor{docs: travelDocs()}, opts, Options{})

	report, err := p.Run(context.Background(), travelInput("cities.pdf", "food.pdf"))
	require.NoError(t, err)

	require.Len(t, report.ExtractedSections, 2)
	assert.NotEqual(t, report.ExtractedSections[0].Document, report.ExtractedSections[1].Document)
}

func TestRun_NoSections(t *testing.T) {
	extractor := &fakeExtractor{docs: map[string][]types.Line{"blank.pdf": nil}}
	p := newTestPipeline(t, extractor, ranking.DefaultOptions(), Options{})

	report, err := p.Run(context.Background(), travelInput("blank.pdf"))
	require.NoError(t, err)

	assert.Empty(t, report.ExtractedSections)
	assert.Empty(t, report.SubsectionAnalysis)

	data, err := MarshalReport(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"extracted_sections": []`)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := newTestPipeline(t, &fakeExtractor{docs: travelDocs()}, ranking.DefaultOptions(), Options{})
	_, err := p.Run(ctx, travelInput("cities.pdf"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProcessDocuments_PreservesInputOrder(t *testing.T) {
	docs := map[string][]types.Line{}
	var manifest []Document
	for _, name := range []string{"e.pdf", "d.pdf", "c.pdf", "b.pdf", "a.pdf"} {
		title := "Overview " + strings.ToUpper(name[:1])
		docs[name] = docLines(map[string][]string{title: {"some body text for the section.", "and a second line of it."}}, title)
		manifest = append(manifest, Document{Filename: name})
	}
	p := newTestPipeline(t, &fakeExtractor{docs: docs}, ranking.DefaultOptions(), Options{DocumentConcurrency: 3})

	results, err := p.ProcessDocuments(context.Background(), manifest)
	require.NoError(t, err)

	pool := MergeSections(results)
	require.Len(t, pool, 5)
	for i, doc := range manifest {
		assert.Equal(t, doc.Filename, results[i].Document)
		assert.Equal(t, doc.Filename, pool[i].Document)
		assert.Equal(t, "Overview "+strings.ToUpper(doc.Filename[:1]), pool[i].Title)
	}
}

func TestBuildReport(t *testing.T) {
	in := travelInput("a.pdf", "b.pdf")
	ranked := []types.RankedSection{
		{ScoredSection: types.ScoredSection{Section: types.Section{Document: "b.pdf", Page: 2, Title: "Nightlife"}}, ImportanceRank: 1},
		{ScoredSection: types.ScoredSection{Section: types.Section{Document: "a.pdf", Page: 1, Title: "Beaches"}}, ImportanceRank: 2},
	}
	summaries := []types.SummarizedSection{
		{Document: "b.pdf", Page: 2, RefinedText: "Bars stay open late."},
		{Document: "a.pdf", Page: 1, RefinedText: ""},
	}
	now := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	report := BuildReport(in, ranked, summaries, "run-1", now)

	assert.Equal(t, "run-1", report.Metadata.RunID)
	assert.Equal(t, "2026-03-01T09:30:00Z", report.Metadata.ProcessingTimestamp)
	assert.Equal(t, types.ExtractedSection{Document: "b.pdf", SectionTitle: "Nightlife", ImportanceRank: 1, PageNumber: 2}, report.ExtractedSections[0])
	assert.Equal(t, types.SubsectionAnalysis{Document: "a.pdf", RefinedText: "", PageNumber: 1}, report.SubsectionAnalysis[1])
}

func TestWriteReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.json")
	report := BuildReport(travelInput("a.pdf"), nil, nil, "run-2", time.Now())

	require.NoError(t, WriteReport(path, &report, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "{\n  \"metadata\""))
	assert.NoError(t, schemas.ValidateReport(data))
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	p, closeFn, err := FromConfig(context.Background(), &cfg, "", Options{})
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.NoError(t, closeFn())

	cfg.CrossScorer = config.CrossScorerEmbedding
	cfg.SummaryScorer = config.SummaryScorerTFIDF
	_, _, err = FromConfig(context.Background(), &cfg, "", Options{})
	assert.NoError(t, err)

	cfg.CrossScorer = config.CrossScorerLLM
	_, _, err = FromConfig(context.Background(), &cfg, "", Options{})
	assert.ErrorContains(t, err, "API key is required")

	cfg = config.Default()
	cfg.Embedding.Provider = embedding.ProviderGemini
	_, _, err = FromConfig(context.Background(), &cfg, "", Options{})
	assert.Error(t, err)
}

func TestFromConfig_SegmentationSettings(t *testing.T) {
	cfg := config.Config{MaxContentLinesPerSection: 2, Concurrency: 7}
	cfg = cfg.MergeWithDefaults(config.Default())
	require.NoError(t, cfg.Validate())

	p, closeFn, err := FromConfig(context.Background(), &cfg, "", Options{MaxContentLines: 9, DocumentConcurrency: 1})
	require.NoError(t, err)
	defer func() { _ = closeFn() }()

	assert.Equal(t, 2, p.opts.MaxContentLines, "config value reaches the segmenter")
	assert.Equal(t, 7, p.opts.DocumentConcurrency)

	cfg.MaxContentLinesPerSection = 0
	cfg.Concurrency = 0
	p, _, err = FromConfig(context.Background(), &cfg, "", Options{MaxContentLines: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, p.opts.MaxContentLines, "options apply when config leaves it unset")
	assert.Equal(t, DefaultDocumentConcurrency, p.opts.DocumentConcurrency)
}
