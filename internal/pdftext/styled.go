package pdftext

import (
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/gayatri1064/summary-extractor/internal/types"
)

// maxParentDepth bounds the walk up the page tree for an inherited MediaBox
const maxParentDepth = 32

func extractStyled(ctx context.Context, path, source string) (lines []types.Line, err error) {
	// The parser panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			lines = nil
			err = &ExtractError{Path: path, Message: "styled parser failed", Cause: fmt.Errorf("%v", r)}
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, &ExtractError{Path: path, Message: "open", Cause: err}
	}
	defer func() { _ = f.Close() }()

	for pageNr := 1; pageNr <= reader.NumPage(); pageNr++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := reader.Page(pageNr)
		if page.V.IsNull() {
			continue
		}

		content := page.Content()
		runs := make([]run, 0, len(content.Text))
		for _, t := range content.Text {
			runs = append(runs, run{Text: t.S, X: t.X, Y: t.Y, Width: t.W, FontSize: t.FontSize, Font: t.Font})
		}
		lines = append(lines, assembleLines(runs, pageNr, pageTop(page), source)...)
	}
	return lines, nil
}

// pageTop returns the upper y of the page's MediaBox, looking through parent
// nodes for an inherited box. Zero when none is found.
func pageTop(page pdf.Page) float64 {
	v := page.V
	for i := 0; i < maxParentDepth && !v.IsNull(); i++ {
		box := v.Key("MediaBox")
		if box.Kind() == pdf.Array && box.Len() == 4 {
			return box.Index(3).Float64()
		}
		v = v.Key("Parent")
	}
	return 0
}
