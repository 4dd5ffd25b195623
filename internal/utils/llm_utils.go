package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// SentimentPrompt is the instruction sent to hosted language models. It takes the email text.
const SentimentPrompt = `You are a binary sentiment classifier. Classify the overall sentiment of the following email text.
Respond with a JSON object containing:
- label: string, either "POSITIVE" or "NEGATIVE"
- score: number between 0 and 1 (your confidence in the label)

Text:
%s

Respond only with the JSON object and nothing else.`

// SentimentResponse is the JSON object returned by hosted language models
type SentimentResponse struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// ExtractJSON decodes a JSON object from text, falling back to the outermost
// braces when the model wrapped the object in prose or code fences
func ExtractJSON(text string, v any) error {
	err := json.Unmarshal([]byte(text), v)
	if err == nil {
		return nil
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return fmt.Errorf("failed to extract JSON from LLM response: %w", err)
	}

	if err := json.Unmarshal([]byte(text[start:end+1]), v); err != nil {
		return fmt.Errorf("failed to parse LLM response as JSON: %w", err)
	}
	return nil
}

// ParseSentimentResponse extracts and validates the sentiment object from a model reply
func ParseSentimentResponse(text string) (*SentimentResponse, error) {
	var resp SentimentResponse
	if err := ExtractJSON(text, &resp); err != nil {
		return nil, err
	}

	resp.Label = strings.ToUpper(strings.TrimSpace(resp.Label))
	if resp.Label != "POSITIVE" && resp.Label != "NEGATIVE" {
		return nil, fmt.Errorf("unexpected sentiment label %q", resp.Label)
	}
	if resp.Score < 0 || resp.Score > 1 {
		return nil, errors.New("sentiment score out of range")
	}

	return &resp, nil
}
