package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSentimentResponse(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		label string
		score float64
	}{
		{"plain", `{"label":"POSITIVE","score":0.93}`, "POSITIVE", 0.93},
		{"wrapped", "Sure! Here you go:\n```json\n{\"label\": \"negative\", \"score\": 0.7}\n```", "NEGATIVE", 0.7},
		{"padded label", `{"label":" Positive ","score":1}`, "POSITIVE", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := ParseSentimentResponse(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.label, resp.Label)
			assert.Equal(t, tt.score, resp.Score)
		})
	}
}

func TestParseSentimentResponse_Errors(t *testing.T) {
	for _, text := range []string{
		"no json here",
		"{broken",
		`{"label":"NEUTRAL","score":0.5}`,
		`{"label":"POSITIVE","score":1.5}`,
	} {
		_, err := ParseSentimentResponse(text)
		assert.Error(t, err, text)
	}
}
