package openai

import (
	"context"
	"fmt"

	"github.com/mikey/email-guardian/internal/core"
	"github.com/mikey/email-guardian/internal/utils"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// SentimentModel is an implementation of the SentimentModel interface using OpenAI
type SentimentModel struct {
	client      *openai.Client
	modelName   string
	maxTokens   int
	temperature float32
	topP        float32
	logger      *zap.Logger
}

// NewSentimentModel creates a new OpenAI sentiment model
func NewSentimentModel(
	client *openai.Client,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
) *SentimentModel {
	return &SentimentModel{
		client:      client,
		modelName:   modelName,
		maxTokens:   maxTokens,
		temperature: temperature,
		topP:        topP,
		logger:      logger,
	}
}

// Name returns the model name
func (m *SentimentModel) Name() string {
	return "openai:" + m.modelName
}

// Predict asks the chat model for the sentiment of text
func (m *SentimentModel) Predict(ctx context.Context, text string) (*core.Sentiment, error) {
	req := openai.ChatCompletionRequest{
		Model: m.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a sentiment classifier. Respond only with JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(utils.SentimentPrompt, text),
			},
		},
		MaxTokens:   m.maxTokens,
		Temperature: m.temperature,
		TopP:        m.topP,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := m.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from OpenAI")
	}

	parsed, err := utils.ParseSentimentResponse(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	m.logger.Debug("OpenAI sentiment received",
		zap.String("request_id", resp.ID),
		zap.String("label", parsed.Label),
		zap.Float64("score", parsed.Score))

	return &core.Sentiment{Label: parsed.Label, Score: parsed.Score}, nil
}
