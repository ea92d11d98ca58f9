package embedding

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	// DefaultGeminiModel is the embedding model used when none is configured
	DefaultGeminiModel = "text-embedding-004"
	// geminiMaxBatch is the request limit of BatchEmbedContents
	geminiMaxBatch = 100
)

// GeminiEmbedder implements Embedder with Google Gemini embedding models
type GeminiEmbedder struct {
	client    *genai.Client
	model     *genai.EmbeddingModel
	modelName string
	batchSize int
}

// NewGeminiEmbedder creates a new Gemini embedder
func NewGeminiEmbedder(ctx context.Context, cfg Config, apiKey string) (*GeminiEmbedder, error) {
	if apiKey == "" {
		return nil, &APICallError{Message: "API key is required"}
	}
	cfg.defaults()

	modelName := cfg.Model
	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	batchSize := cfg.BatchSize
	if batchSize > geminiMaxBatch {
		batchSize = geminiMaxBatch
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, &APICallError{Message: "failed to create Gemini client", Cause: err}
	}

	model := client.EmbeddingModel(modelName)
	model.TaskType = genai.TaskTypeSemanticSimilarity

	return &GeminiEmbedder{
		client:    client,
		model:     model,
		modelName: modelName,
		batchSize: batchSize,
	}, nil
}

// Embed returns the embedding vector for a single text
func (e *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, &APICallError{Message: "embed content", Cause: err}
	}
	if resp.Embedding == nil {
		return nil, &APICallError{Message: "no embedding in response"}
	}
	return resp.Embedding.Values, nil
}

// EmbedBatch embeds texts in chunks of at most batchSize per request
func (e *GeminiEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	result := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += e.batchSize {
		end := min(start+e.batchSize, len(texts))

		batch := e.model.NewBatch()
		for _, text := range texts[start:end] {
			batch.AddContent(genai.Text(text))
		}

		resp, err := e.model.BatchEmbedContents(ctx, batch)
		if err != nil {
			return nil, &APICallError{Message: fmt.Sprintf("batch [%d:%d]", start, end), Cause: err}
		}
		if len(resp.Embeddings) != end-start {
			return nil, &APICallError{
				Message: fmt.Sprintf("batch [%d:%d]: got %d embeddings", start, end, len(resp.Embeddings)),
			}
		}
		for _, emb := range resp.Embeddings {
			result = append(result, emb.Values)
		}
	}
	return result, nil
}

// Model returns the model name
func (e *GeminiEmbedder) Model() string {
	return e.modelName
}

// Close releases resources held by the client
func (e *GeminiEmbedder) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}
