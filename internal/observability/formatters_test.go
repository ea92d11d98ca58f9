package observability

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gayatri1064/summary-extractor/internal/types"
)

func TestPrintDocumentStats(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintDocumentStats([]DocumentStats{
		{Document: "a.pdf", Lines: 120, Candidates: 9, Sections: 8},
		{Document: "b.pdf", Lines: 40, Candidates: 3, Sections: 3},
	})
	output := buf.String()

	assert.Contains(t, output, "DOCUMENTS")
	assert.Contains(t, output, "a.pdf")
	assert.Contains(t, output, "lines: 120  headings: 9  sections: 8")
	assert.Contains(t, output, "Total sections: 11")
}

func TestPrintDocumentStats_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintDocumentStats(nil)
	assert.Empty(t, buf.String())
}

func TestPrintHeadingCandidates(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintHeadingCandidates("france.pdf", []types.HeadingCandidate{
		{Line: types.Line{Text: "Coastal Adventures", Page: 2, FontSize: 18}, Index: 4},
		{Line: types.Line{Text: "Nightlife", Page: 5, FontSize: 14}, Index: 40},
	})
	output := buf.String()

	assert.Contains(t, output, "HEADINGS: france.pdf")
	assert.Contains(t, output, "Coastal Adventures")
	assert.Contains(t, output, "18.0pt")
	assert.Contains(t, output, "Nightlife")
}

func TestPrintHeadingCandidates_None(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintHeadingCandidates("empty.pdf", nil)
	assert.Contains(t, buf.String(), "No headings detected")
}

func TestPrintRankedSections(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	precise := 0.92
	ranked := []types.RankedSection{
		{
			ScoredSection: types.ScoredSection{
				Section:          types.Section{Document: "cities.pdf", Page: 3, Title: "Nice"},
				PreliminaryScore: 0.61,
				PreciseScore:     &precise,
			},
			ImportanceRank: 1,
		},
		{
			ScoredSection: types.ScoredSection{
				Section:          types.Section{Document: "food.pdf", Page: 1, Title: "Local Wines"},
				PreliminaryScore: 0.5,
			},
			ImportanceRank: 2,
		},
	}

	p.PrintRankedSections(ranked)
	output := buf.String()

	assert.Contains(t, output, "TOP RANKED SECTIONS")
	assert.Contains(t, output, "#1  Nice")
	assert.Contains(t, output, "cities.pdf, page 3")
	assert.Contains(t, output, "precise: 0.920")
	assert.Contains(t, output, "#2  Local Wines")
	assert.NotContains(t, output, "more sections")
}

func TestPrintRankedSections_Truncated(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	var ranked []types.RankedSection
	for i := 1; i <= 8; i++ {
		ranked = append(ranked, types.RankedSection{
			ScoredSection:  types.ScoredSection{Section: types.Section{Document: "d.pdf", Title: fmt.Sprintf("Section %d", i)}},
			ImportanceRank: i,
		})
	}

	p.PrintRankedSections(ranked)
	output := buf.String()

	assert.Contains(t, output, "Section 5")
	assert.NotContains(t, output, "Section 6")
	assert.Contains(t, output, "and 3 more sections")
}

func TestPrintSummaries(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintSummaries([]types.SubsectionAnalysis{
		{Document: "cities.pdf", PageNumber: 3, RefinedText: strings.Repeat("Nice has a long seafront promenade. ", 4)},
		{Document: "food.pdf", PageNumber: 1},
	})
	output := buf.String()

	assert.Contains(t, output, "SUMMARIES")
	assert.Contains(t, output, "cities.pdf (page 3)")
	assert.Contains(t, output, "...")
	assert.Contains(t, output, "(empty)")
}

func TestPrintBox_LongLinesTruncated(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("é", 100))

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), boxWidth, line)
	}
}
