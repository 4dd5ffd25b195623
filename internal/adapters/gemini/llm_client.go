package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/mikey/email-guardian/internal/core"
	"github.com/mikey/email-guardian/internal/utils"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// SentimentModel is an implementation of the SentimentModel interface using Google Gemini
type SentimentModel struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
	logger    *zap.Logger
}

// NewSentimentModel creates a new Gemini sentiment model
func NewSentimentModel(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
) (*SentimentModel, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))
	model.ResponseMIMEType = "application/json"

	return &SentimentModel{
		client:    client,
		model:     model,
		modelName: modelName,
		logger:    logger,
	}, nil
}

// Close closes the Gemini client
func (m *SentimentModel) Close() error {
	if m.client != nil {
		return m.client.Close()
	}
	return nil
}

// Name returns the model name
func (m *SentimentModel) Name() string {
	return "gemini:" + m.modelName
}

// Predict asks Gemini for the sentiment of text
func (m *SentimentModel) Predict(ctx context.Context, text string) (*core.Sentiment, error) {
	resp, err := m.model.GenerateContent(ctx, genai.Text(fmt.Sprintf(utils.SentimentPrompt, text)))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content with Gemini: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	responseText := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])

	parsed, err := utils.ParseSentimentResponse(responseText)
	if err != nil {
		return nil, err
	}

	m.logger.Debug("Gemini sentiment received",
		zap.String("label", parsed.Label),
		zap.Float64("score", parsed.Score))

	return &core.Sentiment{Label: parsed.Label, Score: parsed.Score}, nil
}
