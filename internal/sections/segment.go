// Package sections groups a line stream into sections anchored by heading candidates.
package sections

import (
	"sort"
	"strings"

	"github.com/gayatri1064/summary-extractor/internal/types"
)

// DefaultMaxContentLines bounds the number of body lines collected per section.
const DefaultMaxContentLines = 10

// Segment produces one section per heading candidate.
//
// A section's body is every line following its heading in the stream, stopping at
// the next heading candidate, at the first line on a different page, or at a line
// from another document, whichever comes first. At most maxContentLines body lines
// are kept. Lines without position metadata are skipped. Candidate indices must
// refer to positions in lines.
func Segment(lines []types.Line, candidates []types.HeadingCandidate, maxContentLines int) []types.Section {
	if len(lines) == 0 || len(candidates) == 0 {
		return nil
	}
	if maxContentLines <= 0 {
		maxContentLines = DefaultMaxContentLines
	}

	isHeading := make(map[int]bool, len(candidates))
	for _, c := range candidates {
		if c.Index >= 0 && c.Index < len(lines) {
			isHeading[c.Index] = true
		}
	}

	ordered := sortCandidates(lines, candidates)

	sections := make([]types.Section, 0, len(ordered))
	for _, heading := range ordered {
		if heading.Index < 0 || heading.Index >= len(lines) {
			continue
		}
		body := collectBody(lines, heading, isHeading, maxContentLines)
		sections = append(sections, types.Section{
			Document:     heading.Source,
			Page:         heading.Page,
			Title:        strings.TrimSpace(heading.Text),
			Text:         joinLines(body),
			HeadingIndex: heading.Index,
		})
	}
	return sections
}

// collectBody walks forward from the heading and returns its body lines.
func collectBody(lines []types.Line, heading types.HeadingCandidate, isHeading map[int]bool, maxContentLines int) []types.Line {
	var body []types.Line
	for j := heading.Index + 1; j < len(lines) && len(body) < maxContentLines; j++ {
		line := lines[j]
		if line.Source != heading.Source {
			break
		}
		if isHeading[j] {
			break
		}
		if !line.Valid() || !line.HasPosition() {
			continue
		}
		if line.Page != heading.Page {
			break
		}
		body = append(body, line)
	}
	return body
}

// sortCandidates orders candidates by document (first appearance in the stream),
// then page, then vertical position. Equal keys keep their input order.
func sortCandidates(lines []types.Line, candidates []types.HeadingCandidate) []types.HeadingCandidate {
	docOrder := make(map[string]int)
	for _, line := range lines {
		if _, ok := docOrder[line.Source]; !ok {
			docOrder[line.Source] = len(docOrder)
		}
	}

	ordered := make([]types.HeadingCandidate, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if docOrder[a.Source] != docOrder[b.Source] {
			return docOrder[a.Source] < docOrder[b.Source]
		}
		if a.Page != b.Page {
			return a.Page < b.Page
		}
		return a.Y < b.Y
	})
	return ordered
}

func joinLines(lines []types.Line) string {
	if len(lines) == 0 {
		return ""
	}
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		parts = append(parts, strings.TrimSpace(line.Text))
	}
	return strings.Join(parts, " ")
}
