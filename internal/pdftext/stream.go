package pdftext

import (
	"context"
	"io"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/gayatri1064/summary-extractor/internal/types"
)

func extractStream(ctx context.Context, path, source string) ([]types.Line, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ExtractError{Path: path, Message: "open", Cause: err}
	}
	defer func() { _ = f.Close() }()

	pdfCtx, err := api.ReadValidateAndOptimize(f, model.NewDefaultConfiguration())
	if err != nil {
		return nil, &ExtractError{Path: path, Message: "pdfcpu read", Cause: err}
	}

	dims, err := pdfCtx.PageDims()
	if err != nil {
		return nil, &ExtractError{Path: path, Message: "page dimensions", Cause: err}
	}

	var lines []types.Line
	for pageNr := 1; pageNr <= pdfCtx.PageCount; pageNr++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		r, err := pdfcpu.ExtractPageContent(pdfCtx, pageNr)
		if err != nil || r == nil {
			continue
		}
		data, err := io.ReadAll(r)
		if err != nil || len(data) == 0 {
			continue
		}

		height := 0.0
		if pageNr-1 < len(dims) {
			height = dims[pageNr-1].Height
		}
		runs := interpret(lexContent(data), pageFonts(pdfCtx, pageNr))
		lines = append(lines, assembleLines(runs, pageNr, height, source)...)
	}
	return lines, nil
}

// pageFonts maps the font resource names used on a page to base font names.
// It relies on the font inventory pdfcpu builds while optimizing.
func pageFonts(ctx *model.Context, pageNr int) map[string]string {
	fonts := make(map[string]string)
	if ctx.Optimize == nil || pageNr-1 >= len(ctx.Optimize.PageFonts) {
		return fonts
	}
	for objNr := range ctx.Optimize.PageFonts[pageNr-1] {
		fo, ok := ctx.Optimize.FontObjects[objNr]
		if !ok || fo == nil {
			continue
		}
		for _, name := range fo.ResourceNames {
			fonts[name] = fo.FontName
		}
	}
	return fonts
}
