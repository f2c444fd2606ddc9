package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/siherrmann/matchmaker/model"
)

const (
	DefaultChatModel = openai.GPT4oMini
	DefaultMaxTokens = 150
)

// ErrNotConfigured is returned by a summarizer without provider credentials.
var ErrNotConfigured = errors.New("text generation provider not configured")

const commonInterestsPrompt = `Based on these two attendee profiles, identify 2-3 common interests or topics they could discuss.

Attendee 1 (%s):
%s

Attendee 2 (%s):
%s

Write a brief, friendly description (2-3 sentences) of what they have in common and why they'd enjoy meeting. Focus on shared interests, challenges, or goals.`

// Config holds the settings of an OpenAI compatible provider.
type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
}

// OpenAISummarizer generates common interests with a chat completion.
type OpenAISummarizer struct {
	client    *openai.Client
	model     string
	maxTokens int
	logger    *slog.Logger
}

// NewOpenAISummarizer creates a summarizer for an OpenAI compatible API.
func NewOpenAISummarizer(cfg Config, logger *slog.Logger) *OpenAISummarizer {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	chatModel := cfg.Model
	if chatModel == "" {
		chatModel = DefaultChatModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &OpenAISummarizer{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     chatModel,
		maxTokens: maxTokens,
		logger:    logger,
	}
}

// CommonInterestsPrompt builds the prompt for two attendees.
func CommonInterestsPrompt(a *model.AttendeeProfile, b *model.AttendeeProfile) string {
	return fmt.Sprintf(commonInterestsPrompt,
		a.DisplayName(), a.Answers.Bullets(),
		b.DisplayName(), b.Answers.Bullets(),
	)
}

// SummarizeCommonInterests asks the model what both attendees have in common.
// An empty completion is returned as an empty string.
func (s *OpenAISummarizer) SummarizeCommonInterests(ctx context.Context, a *model.AttendeeProfile, b *model.AttendeeProfile) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:     s.model,
		MaxTokens: s.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: CommonInterestsPrompt(a, b),
			},
		},
	}

	start := time.Now()
	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		s.logger.Debug("Common interests request failed",
			slog.String("model", s.model),
			slog.Int64("latency_ms", time.Since(start).Milliseconds()),
			slog.String("error", err.Error()),
		)
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("empty response from chat completion")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// UnconfiguredSummarizer fails every call with ErrNotConfigured so that
// every pair gets the fallback text.
type UnconfiguredSummarizer struct{}

func (UnconfiguredSummarizer) SummarizeCommonInterests(ctx context.Context, a *model.AttendeeProfile, b *model.AttendeeProfile) (string, error) {
	return "", ErrNotConfigured
}
