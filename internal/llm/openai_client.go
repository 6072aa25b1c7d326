// ABOUTME: OpenAI client for generating message embeddings
// ABOUTME: Uses text-embedding-3-small by default with retry and timeout handling
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathanprozzi/mastra-agent-surreal-starter/internal/config"
	"github.com/jonathanprozzi/mastra-agent-surreal-starter/internal/util"
	openai "github.com/sashabaranov/go-openai"
)

// DefaultEmbeddingModel is the default model for embeddings
const DefaultEmbeddingModel = openai.SmallEmbedding3

// EmbeddingClient wraps the OpenAI API client with retry logic
type EmbeddingClient struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
}

// NewEmbeddingClient creates an embedding client from configuration
func NewEmbeddingClient(cfg *config.Config) (*EmbeddingClient, error) {
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	model := openai.EmbeddingModel(cfg.EmbeddingModel)
	if model == "" {
		model = DefaultEmbeddingModel
	}

	return &EmbeddingClient{
		client:     openai.NewClient(cfg.OpenAIKey),
		model:      model,
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
	}, nil
}

// GenerateEmbedding generates an embedding vector for the given text
func (c *EmbeddingClient) GenerateEmbedding(ctx context.Context, text string) ([]float64, error) {
	var embedding []float64

	err := util.Retry(ctx, c.maxRetries, c.retryDelay, func() error {
		reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		resp, err := c.client.CreateEmbeddings(reqCtx, openai.EmbeddingRequestStrings{
			Input: []string{text},
			Model: c.model,
		})
		if err != nil {
			return err
		}
		if len(resp.Data) == 0 {
			return fmt.Errorf("no embeddings returned")
		}

		// Convert []float32 to []float64
		raw := resp.Data[0].Embedding
		embedding = make([]float64, len(raw))
		for i, v := range raw {
			embedding[i] = float64(v)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	return embedding, nil
}
