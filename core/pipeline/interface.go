package pipeline

import (
	"context"

	"github.com/siherrmann/matchmaker/model"
)

// EmbedFunc is a function that generates embeddings for text
type EmbedFunc func(ctx context.Context, text string) ([]float32, error)

// TopicExtractFunc extracts discussion topics from text
type TopicExtractFunc func(ctx context.Context, text string) ([]string, error)

// Pipeline turns intake answers into an embedding and optional topics
type Pipeline struct {
	Embedder       EmbedFunc
	TopicExtractor TopicExtractFunc // Optional
}

// NewPipeline creates a new processing pipeline
func NewPipeline(embedder EmbedFunc) *Pipeline {
	return &Pipeline{
		Embedder: embedder,
	}
}

// SetTopicExtractor sets the topic extraction function
func (p *Pipeline) SetTopicExtractor(extractor TopicExtractFunc) {
	p.TopicExtractor = extractor
}

// ProcessingResult contains the embedded text of one response
type ProcessingResult struct {
	Text      string
	Embedding []float32
	Topics    []string
}

// ProcessResponse joins the answers in key order and embeds them.
// Answers without any text produce no embedding, so the attendee stays
// out of matching until a usable response arrives.
func (p *Pipeline) ProcessResponse(ctx context.Context, answers model.Answers) (*ProcessingResult, error) {
	result := &ProcessingResult{Text: answers.Text()}
	if result.Text == "" {
		return result, nil
	}

	embedding, err := p.Embedder(ctx, result.Text)
	if err != nil {
		return nil, err
	}
	result.Embedding = embedding

	// Topics are best effort
	if p.TopicExtractor != nil {
		topics, err := p.TopicExtractor(ctx, result.Text)
		if err == nil {
			result.Topics = topics
		}
	}

	return result, nil
}
