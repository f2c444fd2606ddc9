package pipeline

import (
	"context"
	"fmt"

	"github.com/knights-analytics/hugot"
	"github.com/sashabaranov/go-openai"
	"github.com/siherrmann/matchmaker/helper"
)

const (
	DefaultEmbeddingModel     = "sentence-transformers/all-MiniLM-L6-v2"
	DefaultEmbeddingDimension = 384

	OpenAIEmbeddingModel     = "text-embedding-3-small"
	OpenAIEmbeddingDimension = 1536
)

// DefaultEmbedder creates an embedder using a local sentence transformer model
// Uses the all-MiniLM-L6-v2 model which produces 384-dimensional embeddings
func DefaultEmbedder() (EmbedFunc, error) {
	modelPath, err := helper.PrepareModel(DefaultEmbeddingModel)
	if err != nil {
		return nil, err
	}

	// Initialize hugot session with Go backend
	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create hugot session: %w", err)
	}

	config := hugot.FeatureExtractionConfig{
		ModelPath: modelPath,
		Name:      "embedder-pipeline",
	}
	sentencePipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, fmt.Errorf("failed to create sentence pipeline: %w (cleanup error: %v)", err, destroyErr)
		}
		return nil, fmt.Errorf("failed to create sentence pipeline: %w", err)
	}

	return func(ctx context.Context, text string) ([]float32, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := sentencePipeline.RunPipeline([]string{text})
		if err != nil {
			return nil, fmt.Errorf("failed to generate embedding: %w", err)
		}

		if len(result.Embeddings) == 0 {
			return nil, fmt.Errorf("no embedding generated")
		}

		return result.Embeddings[0], nil
	}, nil
}

// OpenAIEmbedderConfig configures an OpenAI compatible embedding provider.
type OpenAIEmbedderConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int
}

// OpenAIEmbedder creates an embedder backed by the OpenAI embeddings API.
// Model defaults to text-embedding-3-small; a positive Dimensions shortens
// the returned vectors to match the storage column.
func OpenAIEmbedder(cfg OpenAIEmbedderConfig) EmbedFunc {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	client := openai.NewClientWithConfig(clientConfig)

	embeddingModel := cfg.Model
	if embeddingModel == "" {
		embeddingModel = OpenAIEmbeddingModel
	}

	return func(ctx context.Context, text string) ([]float32, error) {
		req := openai.EmbeddingRequest{
			Input: []string{text},
			Model: openai.EmbeddingModel(embeddingModel),
		}
		if cfg.Dimensions > 0 {
			req.Dimensions = cfg.Dimensions
		}

		resp, err := client.CreateEmbeddings(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("failed to create embedding: %w", err)
		}

		if len(resp.Data) == 0 {
			return nil, fmt.Errorf("no embedding generated")
		}

		return resp.Data[0].Embedding, nil
	}
}
