// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/gayatri1064/summary-extractor/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

// DocumentStats summarizes the document-local stages for one input file.
type DocumentStats struct {
	Document   string
	Lines      int
	Candidates int
	Sections   int
}

// PrintDocumentStats outputs line, heading and section counts per document.
func (p *Printer) PrintDocumentStats(stats []DocumentStats) {
	if len(stats) == 0 {
		return
	}

	var sb strings.Builder
	total := 0
	for _, s := range stats {
		sb.WriteString(fmt.Sprintf("%s\n", s.Document))
		sb.WriteString(fmt.Sprintf("  lines: %d  headings: %d  sections: %d\n", s.Lines, s.Candidates, s.Sections))
		total += s.Sections
	}
	sb.WriteString(fmt.Sprintf("\nTotal sections: %d", total))

	p.printBox("DOCUMENTS", sb.String())
}

// PrintHeadingCandidates outputs the detected headings of one document.
func (p *Printer) PrintHeadingCandidates(document string, candidates []types.HeadingCandidate) {
	var sb strings.Builder
	if len(candidates) == 0 {
		sb.WriteString("No headings detected")
	}
	for i, c := range candidates {
		sb.WriteString(fmt.Sprintf("p%-3d %5.1fpt  %s", c.Page, c.FontSize, strings.TrimSpace(c.Text)))
		if i < len(candidates)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("HEADINGS: "+document, sb.String())
}

// PrintRankedSections outputs the selected sections with their scores.
func (p *Printer) PrintRankedSections(ranked []types.RankedSection) {
	if len(ranked) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Selected sections: %d\n\n", len(ranked)))

	count := min(len(ranked), maxItemsToShow)
	for i := 0; i < count; i++ {
		sec := ranked[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", sec.ImportanceRank, sec.Title))
		sb.WriteString(fmt.Sprintf("    %s, page %d\n", sec.Document, sec.Page))
		sb.WriteString(fmt.Sprintf("    Score: %.3f", sec.PreliminaryScore))
		if sec.PreciseScore != nil {
			sb.WriteString(fmt.Sprintf(" (precise: %.3f)", *sec.PreciseScore))
		}
		if i < count-1 {
			sb.WriteString("\n\n")
		}
	}

	if len(ranked) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n\n... and %d more sections", len(ranked)-maxItemsToShow))
	}

	p.printBox("TOP RANKED SECTIONS", sb.String())
}

// PrintSummaries outputs the refined text of each ranked section.
func (p *Printer) PrintSummaries(analysis []types.SubsectionAnalysis) {
	if len(analysis) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(analysis), maxItemsToShow)
	for i := 0; i < count; i++ {
		a := analysis[i]
		sb.WriteString(fmt.Sprintf("• %s (page %d)\n", a.Document, a.PageNumber))
		text := a.RefinedText
		if text == "" {
			text = "(empty)"
		}
		sb.WriteString("  " + truncate(text, 50))
		if i < count-1 {
			sb.WriteString("\n\n")
		}
	}

	if len(analysis) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n\n... and %d more", len(analysis)-maxItemsToShow))
	}

	p.printBox("SUMMARIES", sb.String())
}
