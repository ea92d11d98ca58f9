package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gayatri1064/summary-extractor/internal/config"
	"github.com/gayatri1064/summary-extractor/internal/headings"
	"github.com/gayatri1064/summary-extractor/internal/observability"
	"github.com/gayatri1064/summary-extractor/internal/pdftext"
	"github.com/gayatri1064/summary-extractor/internal/types"
)

type headingsOptions struct {
	in         string
	configPath string
	pdfBackend string
	asJSON     bool
	verbose    bool
}

// headingRow is one detected heading with the signals that fired for it.
type headingRow struct {
	Document string            `json:"document"`
	Index    int               `json:"index"`
	Page     int               `json:"page"`
	Y        float64           `json:"y"`
	FontSize float64           `json:"font_size"`
	FontName string            `json:"font_name,omitempty"`
	Text     string            `json:"text"`
	ZScore   float64           `json:"z_score"`
	Signals  []headings.Signal `json:"signals"`
}

func newHeadingsCmd() *cobra.Command {
	var o headingsOptions

	cmd := &cobra.Command{
		Use:   "headings",
		Short: "Show the heading candidates detected in a PDF or a JSON line dump",
		Long: `Runs line extraction and heading detection only, and prints every candidate with the
signals that fired. Useful for tuning thresholds and patterns against a labeled sample.

The input is a PDF, or a .json file holding an array of lines
({"text", "page", "x", "y", "font_size", "font_name", "source"}).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHeadings(cmd, &o)
		},
	}

	cmd.Flags().StringVarP(&o.in, "in", "i", "", "Path to a PDF or a JSON line dump (required)")
	cmd.Flags().StringVar(&o.configPath, "config", "", "Path to a JSON or YAML config file")
	cmd.Flags().StringVar(&o.pdfBackend, "pdf-backend", "", "PDF text backend: auto, styled or stream")
	cmd.Flags().BoolVar(&o.asJSON, "json", false, "Print candidates as JSON")
	cmd.Flags().BoolVarP(&o.verbose, "verbose", "v", false, "Print detailed debug information")

	if err := cmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}
	return cmd
}

func runHeadings(cmd *cobra.Command, o *headingsOptions) error {
	var cfg config.Config
	if o.configPath != "" {
		loaded, err := config.LoadConfig(o.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}
	if cmd.Flags().Changed("pdf-backend") {
		cfg.PDFBackend = o.pdfBackend
	}
	cfg = cfg.MergeWithDefaults(config.Default())
	if err := cfg.Validate(); err != nil {
		return err
	}
	hc, err := cfg.HeadingClassifierConfig()
	if err != nil {
		return err
	}

	lines, err := loadLines(cmd, o.in, pdftext.Backend(cfg.PDFBackend), o.verbose)
	if err != nil {
		return err
	}

	rows := detectHeadings(headings.NewClassifierWithConfig(hc), lines)

	if o.asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(rows); err != nil {
			return fmt.Errorf("failed to encode candidates: %w", err)
		}
		return nil
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	for _, doc := range documentsOf(lines) {
		var candidates []types.HeadingCandidate
		for _, r := range rows {
			if r.Document == doc {
				candidates = append(candidates, types.HeadingCandidate{
					Line:  types.Line{Text: r.Text, Page: r.Page, Y: r.Y, FontSize: r.FontSize, FontName: r.FontName, Source: r.Document},
					Index: r.Index,
				})
			}
		}
		printer.PrintHeadingCandidates(doc, candidates)
	}
	return nil
}

// loadLines reads lines from a JSON dump or extracts them from a PDF.
func loadLines(cmd *cobra.Command, path string, backend pdftext.Backend, verbose bool) ([]types.Line, error) {
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		extractor := pdftext.New(pdftext.Options{Backend: backend, Logger: newLogger(cmd.ErrOrStderr(), verbose)})
		return extractor.ExtractLines(cmdContext(cmd), path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lines file: %w", err)
	}
	var lines []types.Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("failed to parse lines JSON: %w", err)
	}
	for i := range lines {
		if lines[i].Source == "" {
			lines[i].Source = filepath.Base(path)
		}
	}
	return lines, nil
}

// detectHeadings runs candidate detection and explains each positive.
func detectHeadings(classifier *headings.Classifier, lines []types.Line) []headingRow {
	stats := make(map[string]headings.FontStats)
	for _, doc := range documentsOf(lines) {
		var docLines []types.Line
		for _, l := range lines {
			if l.Source == doc {
				docLines = append(docLines, l)
			}
		}
		stats[doc] = headings.ComputeFontStats(docLines)
	}

	rows := []headingRow{}
	for _, c := range classifier.DetectCandidates(lines) {
		s := stats[c.Source]
		rows = append(rows, headingRow{
			Document: c.Source,
			Index:    c.Index,
			Page:     c.Page,
			Y:        c.Y,
			FontSize: c.FontSize,
			FontName: c.FontName,
			Text:     strings.TrimSpace(c.Text),
			ZScore:   s.ZScore(c.FontSize),
			Signals:  classifier.Evaluate(c.Line, s).Signals,
		})
	}
	return rows
}

// documentsOf returns the distinct sources in first-seen order.
func documentsOf(lines []types.Line) []string {
	seen := make(map[string]bool)
	var docs []string
	for _, l := range lines {
		if !seen[l.Source] {
			seen[l.Source] = true
			docs = append(docs, l.Source)
		}
	}
	return docs
}
