package pdftext

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/gayatri1064/summary-extractor/internal/types"
)

// spaceGapRatio is the horizontal gap, relative to font size, read as a word break
const spaceGapRatio = 0.15

// assembleLines joins consecutive runs sharing a baseline into lines, keeping
// content stream order. Y is converted to distance from the top of the page.
func assembleLines(runs []run, page int, pageHeight float64, source string) []types.Line {
	var (
		lines []types.Line
		cur   []run
	)
	flush := func() {
		if line, ok := buildLine(cur, page, pageHeight, source); ok {
			lines = append(lines, line)
		}
		cur = cur[:0]
	}

	for _, r := range runs {
		if len(cur) > 0 && !sameBaseline(cur[len(cur)-1], r) {
			flush()
		}
		cur = append(cur, r)
	}
	flush()
	return lines
}

func sameBaseline(a, b run) bool {
	tol := math.Max(1, 0.5*math.Min(a.FontSize, b.FontSize))
	return math.Abs(a.Y-b.Y) <= tol
}

func buildLine(runs []run, page int, pageHeight float64, source string) (types.Line, bool) {
	if len(runs) == 0 {
		return types.Line{}, false
	}

	var sb strings.Builder
	size := 0.0
	font, fontChars := "", -1
	for i, r := range runs {
		if i > 0 && needsSpace(runs[i-1], r, sb.String()) {
			sb.WriteByte(' ')
		}
		sb.WriteString(r.Text)

		size = math.Max(size, r.FontSize)
		if n := utf8.RuneCountInString(strings.TrimSpace(r.Text)); n > fontChars {
			font, fontChars = r.Font, n
		}
	}

	text := strings.Join(strings.Fields(sb.String()), " ")
	if text == "" {
		return types.Line{}, false
	}

	y := runs[0].Y
	if pageHeight > 0 {
		y = pageHeight - y
	}
	return types.Line{
		Text:     text,
		Page:     page,
		X:        round2(runs[0].X),
		Y:        round2(math.Max(0, y)),
		FontSize: round2(size),
		FontName: font,
		Source:   source,
	}, true
}

func needsSpace(prev, next run, sofar string) bool {
	if strings.HasSuffix(sofar, " ") || strings.HasPrefix(next.Text, " ") {
		return false
	}
	gap := next.X - (prev.X + prev.Width)
	return gap > spaceGapRatio*math.Max(prev.FontSize, 1)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
