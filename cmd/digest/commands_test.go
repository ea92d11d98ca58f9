package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gayatri1064/summary-extractor/internal/headings"
	"github.com/gayatri1064/summary-extractor/internal/schemas"
	"github.com/gayatri1064/summary-extractor/internal/types"
)

// execute runs the CLI in-process and returns everything written to stdout and stderr.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func writeManifest(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "input.json")
	writeJSON(t, path, map[string]any{
		"documents":      []map[string]string{{"filename": "missing-a.pdf"}, {"filename": "missing-b.pdf"}},
		"persona":        map[string]string{"role": "Travel Planner"},
		"job_to_be_done": map[string]string{"task": "Plan a trip of 4 days for a group of 10 college friends."},
	})
	return path
}

func TestRunCommand_MissingInput(t *testing.T) {
	_, err := execute(t, "run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "input" not set`)
}

func TestRunCommand_UnreadableDocumentsStillWriteReport(t *testing.T) {
	dir := t.TempDir()
	manifest := writeManifest(t, dir)
	outPath := filepath.Join(dir, "out", "output.json")

	output, err := execute(t, "run", "--input", manifest, "--out", outPath, "--pdf-backend", "stream")
	require.NoError(t, err)
	assert.Contains(t, output, "Done! 0 sections written to")

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.NoError(t, schemas.ValidateReport(data))

	var report types.Report
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, []string{"missing-a.pdf", "missing-b.pdf"}, report.Metadata.InputDocuments)
	assert.Equal(t, "Travel Planner", report.Metadata.Persona)
	assert.Empty(t, report.ExtractedSections)
}

func TestRunCommand_MissingAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	manifest := writeManifest(t, t.TempDir())

	_, err := execute(t, "run", "--input", manifest, "--cross-scorer", "llm")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY environment variable or --api-key flag is required")
}

func TestRunCommand_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	manifest := writeManifest(t, dir)
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("duplicate_similarity_threshold: 1.5\n"), 0644))

	_, err := execute(t, "run", "--input", manifest, "--config", cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DuplicateSimilarityThreshold")
}

func TestRunCommand_FlagOverridesAreValidated(t *testing.T) {
	manifest := writeManifest(t, t.TempDir())

	_, err := execute(t, "run", "--input", manifest, "--cross-scorer", "bm25")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CrossScorer")
}

func TestRunCommand_BadManifest(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "input.json")
	require.NoError(t, os.WriteFile(manifest, []byte(`{"documents": []}`), 0644))

	_, err := execute(t, "run", "--input", manifest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "manifest does not match schema")
}

func headingLines() []types.Line {
	return []types.Line{
		{Text: "1. Getting Started", Page: 1, Y: 72, FontSize: 18, FontName: "Arial-BoldMT", Source: "guide.pdf"},
		{Text: "open the file and choose a tool from the menu.", Page: 1, Y: 90, FontSize: 10, FontName: "ArialMT", Source: "guide.pdf"},
		{Text: "the tool panel lists every action available.", Page: 1, Y: 104, FontSize: 10, FontName: "ArialMT", Source: "guide.pdf"},
		{Text: "support@example.com", Page: 1, Y: 118, FontSize: 18, FontName: "Arial-BoldMT", Source: "guide.pdf"},
		{Text: "2. Filling Forms", Page: 2, Y: 72, FontSize: 10, FontName: "ArialMT", Source: "guide.pdf"},
		{Text: "fields can be typed into directly.", Page: 2, Y: 90, FontSize: 10, FontName: "ArialMT", Source: "guide.pdf"},
	}
}

func TestHeadingsCommand_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lines.json")
	writeJSON(t, path, headingLines())

	output, err := execute(t, "headings", "--in", path, "--json")
	require.NoError(t, err)

	var rows []headingRow
	require.NoError(t, json.Unmarshal([]byte(output), &rows))
	require.Len(t, rows, 2, "the email line is vetoed as noise")

	assert.Equal(t, "1. Getting Started", rows[0].Text)
	assert.Equal(t, 0, rows[0].Index)
	assert.Contains(t, rows[0].Signals, headings.SignalSize)
	assert.Contains(t, rows[0].Signals, headings.SignalWeight)
	assert.Contains(t, rows[0].Signals, headings.SignalPattern)
	assert.Greater(t, rows[0].ZScore, 1.0)

	assert.Equal(t, "2. Filling Forms", rows[1].Text)
	assert.Equal(t, 2, rows[1].Page)
	assert.NotContains(t, rows[1].Signals, headings.SignalSize)
	assert.Contains(t, rows[1].Signals, headings.SignalPattern)
}

func TestHeadingsCommand_Table(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.json")
	lines := headingLines()
	for i := range lines {
		lines[i].Source = ""
	}
	writeJSON(t, path, lines)

	output, err := execute(t, "headings", "--in", path)
	require.NoError(t, err)
	assert.Contains(t, output, "HEADINGS: dump.json")
	assert.Contains(t, output, "1. Getting Started")
	assert.NotContains(t, output, "support@example.com")
}

func TestHeadingsCommand_MissingPDF(t *testing.T) {
	_, err := execute(t, "headings", "--in", filepath.Join(t.TempDir(), "nope.pdf"))
	assert.Error(t, err)
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()

	valid := filepath.Join(dir, "output.json")
	writeJSON(t, valid, types.Report{
		Metadata: types.ReportMetadata{
			InputDocuments:      []string{"a.pdf"},
			Persona:             "HR professional",
			JobToBeDone:         "Create fillable forms",
			ProcessingTimestamp: "2026-01-10T12:00:00Z",
		},
		ExtractedSections:  []types.ExtractedSection{{Document: "a.pdf", SectionTitle: "Forms", ImportanceRank: 1, PageNumber: 2}},
		SubsectionAnalysis: []types.SubsectionAnalysis{{Document: "a.pdf", RefinedText: "Use the form tool.", PageNumber: 2}},
	})
	output, err := execute(t, "validate", "--in", valid)
	require.NoError(t, err)
	assert.Contains(t, output, "is a valid report")

	invalid := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(invalid, []byte(`{"metadata": {}}`), 0644))
	output, err = execute(t, "validate", "--in", invalid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not a valid report")
	assert.Contains(t, output, "validation failed")

	manifest := writeManifest(t, dir)
	_, err = execute(t, "validate", "--in", manifest, "--kind", "input")
	assert.NoError(t, err)

	_, err = execute(t, "validate", "--in", manifest, "--kind", "yaml")
	assert.ErrorContains(t, err, "unknown kind")
}

func TestValidateCommand_CustomSchema(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "lines.schema.json")
	require.NoError(t, os.WriteFile(schemaPath, []byte(`{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "array",
		"items": {"type": "object", "required": ["text", "page"]}
	}`), 0644))

	good := filepath.Join(dir, "lines.json")
	writeJSON(t, good, headingLines())
	output, err := execute(t, "validate", "--in", good, "--schema", schemaPath)
	require.NoError(t, err)
	assert.Contains(t, output, "is a valid lines.schema.json document")

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`[{"text": "no page"}]`), 0644))
	_, err = execute(t, "validate", "--in", bad, "--schema", schemaPath, "--kind", "ignored")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not a valid lines.schema.json document (1 errors)")

	_, err = execute(t, "validate", "--in", good, "--schema", filepath.Join(dir, "missing.json"))
	assert.ErrorContains(t, err, "schema file not found")
}
