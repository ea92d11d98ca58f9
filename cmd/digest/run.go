package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gayatri1064/summary-extractor/internal/config"
	"github.com/gayatri1064/summary-extractor/internal/embedding"
	"github.com/gayatri1064/summary-extractor/internal/pipeline"
)

type runOptions struct {
	configPath        string
	input             string
	dataDir           string
	out               string
	topK              int
	perDocumentCap    int
	preselectK        int
	crossScorer       string
	embeddingProvider string
	pdfBackend        string
	apiKey            string
	verbose           bool
}

func newRunCmd() *cobra.Command {
	var o runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full digest: extract, segment, rank and summarize",
		Long: `Reads the input manifest, extracts styled lines from every listed PDF, detects headings,
segments sections, ranks them against the persona and job, summarizes the selection and writes the report.

Configuration can be loaded from a JSON or YAML file using --config. Command-line flags override config file values.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDigest(cmd, &o)
		},
	}

	cmd.Flags().StringVar(&o.configPath, "config", "", "Path to a JSON or YAML config file (values can be overridden by other flags)")
	cmd.Flags().StringVarP(&o.input, "input", "i", "", "Path to the input manifest JSON (required)")
	cmd.Flags().StringVar(&o.dataDir, "data-dir", "", "Directory holding the PDFs (default: the manifest's directory)")
	cmd.Flags().StringVarP(&o.out, "out", "o", "output.json", "Path of the report to write")
	cmd.Flags().IntVar(&o.topK, "top-k", 0, "Maximum number of sections in the report")
	cmd.Flags().IntVar(&o.perDocumentCap, "per-document-cap", 0, "Maximum sections taken from one document")
	cmd.Flags().IntVar(&o.preselectK, "preselect-k", 0, "Sections passed to the precise scorer")
	cmd.Flags().StringVar(&o.crossScorer, "cross-scorer", "", "Precise scorer: none, llm or embedding")
	cmd.Flags().StringVar(&o.embeddingProvider, "embedding-provider", "", "Embedding backend: local, gemini or openai")
	cmd.Flags().StringVar(&o.pdfBackend, "pdf-backend", "", "PDF text backend: auto, styled or stream")
	cmd.Flags().BoolVarP(&o.verbose, "verbose", "v", false, "Print detailed debug information")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	cmd.Flags().StringVar(&o.apiKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")

	if err := cmd.MarkFlagRequired("input"); err != nil {
		panic(fmt.Sprintf("failed to mark input flag as required: %v", err))
	}
	return cmd
}

func runDigest(cmd *cobra.Command, o *runOptions) error {
	cfg, err := resolveConfig(cmd, o)
	if err != nil {
		return err
	}

	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if needsAPIKey(cfg) && cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required for the configured backends")
	}

	in, err := pipeline.LoadInput(o.input)
	if err != nil {
		return err
	}
	dataDir := o.dataDir
	if dataDir == "" {
		dataDir = filepath.Dir(o.input)
	}

	ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := newLogger(cmd.ErrOrStderr(), cfg.Verbose)
	p, closeFn, err := pipeline.FromConfig(ctx, cfg, cfg.APIKey, pipeline.Options{
		DataDir: dataDir,
		Verbose: cfg.Verbose,
		Out:     cmd.OutOrStdout(),
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()

	report, err := p.Run(ctx, in)
	if err != nil {
		return fmt.Errorf("digest failed: %w", err)
	}

	if err := pipeline.WriteReport(o.out, report, logger); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Done! %d sections written to %s\n", len(report.ExtractedSections), o.out)
	return nil
}

// resolveConfig loads the config file, applies flag overrides, fills defaults and validates.
func resolveConfig(cmd *cobra.Command, o *runOptions) (*config.Config, error) {
	var cfg config.Config
	if o.configPath != "" {
		loaded, err := config.LoadConfig(o.configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}

	// Only override if the flag was explicitly set
	flags := cmd.Flags()
	if flags.Changed("top-k") {
		cfg.TopK = o.topK
	}
	if flags.Changed("per-document-cap") {
		cfg.PerDocumentCap = o.perDocumentCap
	}
	if flags.Changed("preselect-k") {
		cfg.PreselectK = o.preselectK
	}
	if flags.Changed("cross-scorer") {
		cfg.CrossScorer = o.crossScorer
	}
	if flags.Changed("embedding-provider") {
		cfg.Embedding.Provider = embedding.Provider(o.embeddingProvider)
	}
	if flags.Changed("pdf-backend") {
		cfg.PDFBackend = o.pdfBackend
	}
	if flags.Changed("api-key") {
		cfg.APIKey = o.apiKey
	}
	if flags.Changed("verbose") {
		cfg.Verbose = o.verbose
	}

	cfg = cfg.MergeWithDefaults(config.Default())
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func needsAPIKey(cfg *config.Config) bool {
	return cfg.Embedding.Provider == embedding.ProviderGemini || cfg.CrossScorer == config.CrossScorerLLM
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
