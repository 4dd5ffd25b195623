package core

import (
	"context"
	"math"
	"strings"

	"github.com/mikey/email-guardian/internal/utils"
	"go.uber.org/zap"
)

// DefaultMaxInputChars is the window of text handed to the sentiment model
const DefaultMaxInputChars = 512

// positiveLabel is the native model label mapped to the legitimate proxy
const positiveLabel = "POSITIVE"

// SentimentAdapter maps a pretrained sentiment model onto the proxy classification.
// Model failures are absorbed into UnknownProxy.
type SentimentAdapter struct {
	model         SentimentModel
	maxInputChars int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewSentimentAdapter creates a new sentiment adapter around an already loaded model
func NewSentimentAdapter(
	model SentimentModel,
	maxInputChars int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *SentimentAdapter {
	if maxInputChars <= 0 {
		maxInputChars = DefaultMaxInputChars
	}
	return &SentimentAdapter{
		model:         model,
		maxInputChars: maxInputChars,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// Classify runs the model on the first maxInputChars characters of text
func (a *SentimentAdapter) Classify(ctx context.Context, text string) ProxyResult {
	window := a.textProcessor.ProcessText(text, a.maxInputChars)

	sentiment, err := a.model.Predict(ctx, window)
	if err != nil {
		a.logger.Warn("Sentiment model failed, falling back to unknown",
			zap.String("model", a.model.Name()),
			zap.Error(err))
		return UnknownProxy
	}

	if sentiment == nil || math.IsNaN(sentiment.Score) || sentiment.Score < 0 || sentiment.Score > 1 {
		a.logger.Warn("Sentiment model returned an out of range score",
			zap.String("model", a.model.Name()),
			zap.Any("sentiment", sentiment))
		return UnknownProxy
	}

	label := ProxySuspicious
	if strings.EqualFold(strings.TrimSpace(sentiment.Label), positiveLabel) {
		label = ProxyLegitimate
	}

	a.logger.Debug("Sentiment classified",
		zap.String("model", a.model.Name()),
		zap.String("native_label", sentiment.Label),
		zap.String("proxy_label", string(label)),
		zap.Float64("score", sentiment.Score))

	return ProxyResult{Label: label, Confidence: sentiment.Score}
}
