// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/gayatri1064/summary-extractor/internal/embedding"
	"github.com/gayatri1064/summary-extractor/internal/headings"
	"github.com/gayatri1064/summary-extractor/internal/llm"
	"github.com/gayatri1064/summary-extractor/internal/pdftext"
	"github.com/gayatri1064/summary-extractor/internal/ranking"
	"github.com/gayatri1064/summary-extractor/internal/sections"
	"github.com/gayatri1064/summary-extractor/internal/selection"
	"github.com/gayatri1064/summary-extractor/internal/summarize"
)

// Cross-scorer choices for the precise ranking pass
const (
	CrossScorerNone      = "none"
	CrossScorerLLM       = "llm"
	CrossScorerEmbedding = "embedding"
)

// Sentence scorer choices for the summarizer
const (
	SummaryScorerEmbedding = "embedding"
	SummaryScorerTFIDF     = "tfidf"
)

// Config is the tunable surface of a digest run. It loads from JSON or YAML;
// zero values are filled from Default by MergeWithDefaults.
type Config struct {
	// Ranking
	TopK                         int     `json:"top_k,omitempty" yaml:"top_k,omitempty" validate:"gte=0"`
	PerDocumentCap               int     `json:"per_document_cap,omitempty" yaml:"per_document_cap,omitempty" validate:"gte=0"`
	PreselectK                   int     `json:"preselect_k,omitempty" yaml:"preselect_k,omitempty" validate:"gte=0"`
	// DuplicateSimilarityThreshold is the cosine at or above which a candidate is vetoed
	// as a near-duplicate. 0 means unset and takes the default; 1 vetoes only identical vectors.
	DuplicateSimilarityThreshold float64 `json:"duplicate_similarity_threshold,omitempty" yaml:"duplicate_similarity_threshold,omitempty" validate:"omitempty,gt=0,lte=1"`
	Concurrency                  int     `json:"concurrency,omitempty" yaml:"concurrency,omitempty" validate:"gte=0"`

	// Segmentation and summarization
	MaxContentLinesPerSection int    `json:"max_content_lines_per_section,omitempty" yaml:"max_content_lines_per_section,omitempty" validate:"gte=0"`
	MaxSummarySentences       int    `json:"max_summary_sentences,omitempty" yaml:"max_summary_sentences,omitempty" validate:"gte=0"`
	MinSentenceChars          int    `json:"min_sentence_chars,omitempty" yaml:"min_sentence_chars,omitempty" validate:"gte=0"`
	SkipCleaning              bool   `json:"skip_cleaning,omitempty" yaml:"skip_cleaning,omitempty"`
	SummaryScorer             string `json:"summary_scorer,omitempty" yaml:"summary_scorer,omitempty" validate:"omitempty,oneof=embedding tfidf"`

	Headings HeadingConfig `json:"headings" yaml:"headings"`

	// Backends
	Embedding   embedding.Config `json:"embedding" yaml:"embedding"`
	CrossScorer string           `json:"cross_scorer,omitempty" yaml:"cross_scorer,omitempty" validate:"omitempty,oneof=none llm embedding"`
	JudgeModel  string           `json:"judge_model,omitempty" yaml:"judge_model,omitempty"`
	PDFBackend  string           `json:"pdf_backend,omitempty" yaml:"pdf_backend,omitempty" validate:"omitempty,oneof=auto styled stream"`

	// Behavior
	APIKey  string `json:"api_key,omitempty" yaml:"api_key,omitempty"` // Gemini API key; GEMINI_API_KEY wins when set
	Verbose bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"`
}

// HeadingConfig holds heading classifier thresholds and pattern sets as plain strings.
type HeadingConfig struct {
	SizeZThreshold         float64  `json:"size_z_threshold,omitempty" yaml:"size_z_threshold,omitempty"`
	CasingDensityThreshold float64  `json:"casing_density_threshold,omitempty" yaml:"casing_density_threshold,omitempty" validate:"gte=0,lte=1"`
	MinLength              int      `json:"min_length,omitempty" yaml:"min_length,omitempty" validate:"gte=0"`
	BoldFonts              []string `json:"bold_fonts,omitempty" yaml:"bold_fonts,omitempty" validate:"dive,required"`
	HeadingPatterns        []string `json:"heading_patterns,omitempty" yaml:"heading_patterns,omitempty" validate:"dive,required"`
	NoisePatterns          []string `json:"noise_patterns,omitempty" yaml:"noise_patterns,omitempty" validate:"dive,required"`
}

// Error represents an invalid or unreadable configuration
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("config error: %s: %v", e.Message, e.Cause)
	}
	return "config error: " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Default returns the documented defaults.
func Default() Config {
	hc := headings.DefaultConfig()
	return Config{
		TopK:                         selection.DefaultTopK,
		PerDocumentCap:               selection.DefaultPerDocumentCap,
		PreselectK:                   ranking.DefaultPreselectK,
		DuplicateSimilarityThreshold: selection.DefaultDuplicateThreshold,
		Concurrency:                  ranking.DefaultConcurrency,
		MaxContentLinesPerSection:    sections.DefaultMaxContentLines,
		MaxSummarySentences:          summarize.DefaultMaxSentences,
		MinSentenceChars:             summarize.DefaultMinSentenceChars,
		Headings: HeadingConfig{
			SizeZThreshold:         hc.SizeZThreshold,
			CasingDensityThreshold: hc.CasingDensityThreshold,
			MinLength:              hc.MinLength,
			BoldFonts:              append([]string(nil), headings.DefaultBoldFonts...),
			HeadingPatterns:        append([]string(nil), headings.DefaultHeadingPatterns...),
			NoisePatterns:          append([]string(nil), headings.DefaultNoisePatterns...),
		},
		Embedding:     embedding.Config{Provider: embedding.ProviderLocal},
		CrossScorer:   CrossScorerNone,
		SummaryScorer: SummaryScorerEmbedding,
		JudgeModel:    llm.DefaultConfig().GetModel(llm.TierLite),
		PDFBackend:    string(pdftext.BackendAuto),
	}
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension
// (.yaml and .yml are YAML, anything else JSON). Relative paths resolve against the cwd.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, &Error{Message: "config path is empty"}
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, &Error{Message: "failed to get current directory", Cause: err}
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Message: fmt.Sprintf("failed to read config file %s", path), Cause: err}
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, &Error{Message: "failed to parse config YAML", Cause: err}
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, &Error{Message: "failed to parse config JSON", Cause: err}
		}
	}
	return &cfg, nil
}

// Validate checks field ranges and that every pattern compiles.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return &Error{Message: fmt.Sprintf("invalid field %s", verrs[0].Namespace()), Cause: err}
		}
		return &Error{Message: "invalid configuration", Cause: err}
	}
	if _, err := headings.CompilePatterns(c.Headings.HeadingPatterns); err != nil {
		return &Error{Message: "invalid heading pattern", Cause: err}
	}
	if _, err := headings.CompilePatterns(c.Headings.NoisePatterns); err != nil {
		return &Error{Message: "invalid noise pattern", Cause: err}
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero fields filled from defaults.
// Bools cannot be told apart from unset, so they are left as loaded.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	setInt(&result.TopK, defaults.TopK)
	setInt(&result.PerDocumentCap, defaults.PerDocumentCap)
	setInt(&result.PreselectK, defaults.PreselectK)
	setInt(&result.Concurrency, defaults.Concurrency)
	setInt(&result.MaxContentLinesPerSection, defaults.MaxContentLinesPerSection)
	setInt(&result.MaxSummarySentences, defaults.MaxSummarySentences)
	setInt(&result.MinSentenceChars, defaults.MinSentenceChars)
	if result.DuplicateSimilarityThreshold == 0 {
		result.DuplicateSimilarityThreshold = defaults.DuplicateSimilarityThreshold
	}

	h, dh := &result.Headings, defaults.Headings
	if h.SizeZThreshold == 0 {
		h.SizeZThreshold = dh.SizeZThreshold
	}
	if h.CasingDensityThreshold == 0 {
		h.CasingDensityThreshold = dh.CasingDensityThreshold
	}
	setInt(&h.MinLength, dh.MinLength)
	if len(h.BoldFonts) == 0 {
		h.BoldFonts = dh.BoldFonts
	}
	if len(h.HeadingPatterns) == 0 {
		h.HeadingPatterns = dh.HeadingPatterns
	}
	if len(h.NoisePatterns) == 0 {
		h.NoisePatterns = dh.NoisePatterns
	}

	setString(&result.CrossScorer, defaults.CrossScorer)
	setString(&result.SummaryScorer, defaults.SummaryScorer)
	setString(&result.JudgeModel, defaults.JudgeModel)
	setString(&result.PDFBackend, defaults.PDFBackend)
	setString(&result.APIKey, defaults.APIKey)
	if result.Embedding.Provider == "" {
		result.Embedding.Provider = defaults.Embedding.Provider
	}
	setString(&result.Embedding.Model, defaults.Embedding.Model)
	setString(&result.Embedding.Endpoint, defaults.Embedding.Endpoint)

	return result
}

func setInt(dst *int, def int) {
	if *dst == 0 {
		*dst = def
	}
}

func setString(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}

// HeadingClassifierConfig compiles the heading settings for the classifier.
func (c *Config) HeadingClassifierConfig() (headings.Config, error) {
	hp, err := headings.CompilePatterns(c.Headings.HeadingPatterns)
	if err != nil {
		return headings.Config{}, &Error{Message: "invalid heading pattern", Cause: err}
	}
	np, err := headings.CompilePatterns(c.Headings.NoisePatterns)
	if err != nil {
		return headings.Config{}, &Error{Message: "invalid noise pattern", Cause: err}
	}
	return headings.Config{
		SizeZThreshold:         c.Headings.SizeZThreshold,
		CasingDensityThreshold: c.Headings.CasingDensityThreshold,
		MinLength:              c.Headings.MinLength,
		BoldFonts:              c.Headings.BoldFonts,
		HeadingPatterns:        hp,
		NoisePatterns:          np,
	}, nil
}

// RankingOptions converts the ranking settings.
func (c *Config) RankingOptions(logger *slog.Logger) ranking.Options {
	return ranking.Options{
		TopK:               c.TopK,
		PerDocumentCap:     c.PerDocumentCap,
		PreselectK:         c.PreselectK,
		DuplicateThreshold: c.DuplicateSimilarityThreshold,
		Concurrency:        c.Concurrency,
		Logger:             logger,
	}
}

// SummarizeOptions converts the summarization settings.
func (c *Config) SummarizeOptions(logger *slog.Logger) summarize.Options {
	return summarize.Options{
		MaxSentences:     c.MaxSummarySentences,
		MinSentenceChars: c.MinSentenceChars,
		SkipCleaning:     c.SkipCleaning,
		Logger:           logger,
	}
}
