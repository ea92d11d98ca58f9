// Package embedding converts text to fixed-length vectors through a pluggable backend.
//
// Three backends are available: Google Gemini embedding models, any server speaking the
// OpenAI /v1/embeddings format, and a deterministic local hashing embedder that needs no
// network and is used for offline runs and tests.
package embedding

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Embedder converts text to vectors. Implementations must be deterministic for a fixed model.
type Embedder interface {
	// Embed returns the embedding vector for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns one vector per text, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Model returns the model name.
	Model() string
}

// Provider selects an embedding backend.
type Provider string

// Provider constants define supported embedding backends
const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
	ProviderLocal  Provider = "local"
)

// Config configures the embedding backend.
type Config struct {
	Provider Provider `json:"provider" yaml:"provider" validate:"omitempty,oneof=gemini openai local"`

	// Model is the model name sent to the backend (e.g. "text-embedding-004").
	Model string `json:"model" yaml:"model"`

	// Endpoint is the base URL of an OpenAI-compatible server (e.g. "http://localhost:8003").
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`

	// Dimension of the local hashing embedder. Default: 384.
	Dimension int `json:"dimension,omitempty" yaml:"dimension,omitempty" validate:"gte=0"`

	// BatchSize is the maximum number of texts per request. Default: 32 (Gemini: 100).
	BatchSize int `json:"batch_size,omitempty" yaml:"batch_size,omitempty" validate:"gte=0"`

	// Timeout per HTTP request. Default: 30s.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`

	// Logger for debug/error messages. Defaults to slog.Default().
	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.Provider == "" {
		c.Provider = ProviderLocal
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 32
		if c.Provider == ProviderGemini {
			c.BatchSize = geminiMaxBatch
		}
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.Dimension <= 0 {
		c.Dimension = 384
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// New creates an Embedder for the configured provider.
// The Gemini backend requires an API key; the others ignore it.
func New(ctx context.Context, cfg Config, apiKey string) (Embedder, error) {
	cfg.defaults()

	switch cfg.Provider {
	case ProviderGemini:
		return NewGeminiEmbedder(ctx, cfg, apiKey)
	case ProviderOpenAI:
		if cfg.Endpoint == "" {
			return nil, &ConfigError{Message: "openai provider requires an endpoint"}
		}
		return NewHTTPEmbedder(cfg), nil
	case ProviderLocal:
		return NewHashingEmbedder(cfg.Dimension), nil
	default:
		return nil, &ConfigError{Message: fmt.Sprintf("unknown embedding provider %q", cfg.Provider)}
	}
}
