package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/mikey/email-guardian/internal/core"
	"github.com/mikey/email-guardian/internal/utils"
	"go.uber.org/zap"
)

// InvokeModelAPI is the subset of the Bedrock runtime client used by SentimentModel
type InvokeModelAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// SentimentModel is an implementation of the SentimentModel interface using Amazon Bedrock
type SentimentModel struct {
	client      InvokeModelAPI
	modelID     string
	maxTokens   int
	temperature float32
	topP        float32
	logger      *zap.Logger
}

// NewSentimentModel creates a new Bedrock sentiment model
func NewSentimentModel(
	client InvokeModelAPI,
	modelID string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
) *SentimentModel {
	return &SentimentModel{
		client:      client,
		modelID:     modelID,
		maxTokens:   maxTokens,
		temperature: temperature,
		topP:        topP,
		logger:      logger,
	}
}

// Name returns the model name
func (m *SentimentModel) Name() string {
	return "bedrock:" + m.modelID
}

// Predict invokes the Bedrock model and parses its sentiment answer
func (m *SentimentModel) Predict(ctx context.Context, text string) (*core.Sentiment, error) {
	prompt := fmt.Sprintf(utils.SentimentPrompt, text)

	payload, err := m.buildPayload(prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := m.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(m.modelID),
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke Bedrock model: %w", err)
	}

	responseText, err := m.responseText(resp.Body)
	if err != nil {
		return nil, err
	}

	parsed, err := utils.ParseSentimentResponse(responseText)
	if err != nil {
		return nil, err
	}

	m.logger.Debug("Bedrock sentiment received",
		zap.String("model_id", m.modelID),
		zap.String("label", parsed.Label),
		zap.Float64("score", parsed.Score))

	return &core.Sentiment{Label: parsed.Label, Score: parsed.Score}, nil
}

// buildPayload encodes the request body in the format of the model family
func (m *SentimentModel) buildPayload(prompt string) ([]byte, error) {
	switch {
	case m.isAnthropicModel():
		return json.Marshal(map[string]interface{}{
			"prompt":               fmt.Sprintf("\n\nHuman: %s\n\nAssistant:", prompt),
			"max_tokens_to_sample": m.maxTokens,
			"temperature":          m.temperature,
			"top_p":                m.topP,
		})
	case m.isAmazonTitanModel():
		return json.Marshal(map[string]interface{}{
			"inputText": prompt,
			"textGenerationConfig": map[string]interface{}{
				"maxTokenCount": m.maxTokens,
				"temperature":   m.temperature,
				"topP":          m.topP,
			},
		})
	default:
		return json.Marshal(map[string]interface{}{
			"prompt":      prompt,
			"max_tokens":  m.maxTokens,
			"temperature": m.temperature,
			"top_p":       m.topP,
		})
	}
}

// responseText pulls the generated text out of the model family's response body
func (m *SentimentModel) responseText(body []byte) (string, error) {
	switch {
	case m.isAnthropicModel():
		var claudeResp struct {
			Completion string `json:"completion"`
		}
		if err := json.Unmarshal(body, &claudeResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Claude response: %w", err)
		}
		return claudeResp.Completion, nil
	case m.isAmazonTitanModel():
		var titanResp struct {
			Results []struct {
				OutputText string `json:"outputText"`
			} `json:"results"`
		}
		if err := json.Unmarshal(body, &titanResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Titan response: %w", err)
		}
		if len(titanResp.Results) == 0 {
			return "", fmt.Errorf("empty response from Titan model")
		}
		return titanResp.Results[0].OutputText, nil
	default:
		var genericResp struct {
			Output   string `json:"output"`
			Text     string `json:"text"`
			Response string `json:"response"`
		}
		if err := json.Unmarshal(body, &genericResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal generic response: %w", err)
		}
		switch {
		case genericResp.Output != "":
			return genericResp.Output, nil
		case genericResp.Text != "":
			return genericResp.Text, nil
		case genericResp.Response != "":
			return genericResp.Response, nil
		default:
			return string(body), nil
		}
	}
}

// isAnthropicModel checks if the model is an Anthropic Claude model
func (m *SentimentModel) isAnthropicModel() bool {
	return strings.HasPrefix(m.modelID, "anthropic.claude")
}

// isAmazonTitanModel checks if the model is an Amazon Titan model
func (m *SentimentModel) isAmazonTitanModel() bool {
	return strings.HasPrefix(m.modelID, "amazon.titan")
}
