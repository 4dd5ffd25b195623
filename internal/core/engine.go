package core

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// Engine classifies email text as legitimate, suspicious, spam or phishing.
// It holds no per-call state and is safe for concurrent use.
type Engine struct {
	classifier Classifier
	logger     *zap.Logger
}

// NewEngine creates a new decision engine
func NewEngine(classifier Classifier, logger *zap.Logger) *Engine {
	return &Engine{
		classifier: classifier,
		logger:     logger,
	}
}

// Analyze runs feature extraction, indicator detection and the sentiment
// classifier on text and merges them into a single result
func (e *Engine) Analyze(ctx context.Context, text string) *AnalysisResult {
	text = strings.TrimSpace(text)
	if text == "" {
		return &AnalysisResult{
			Classification: ClassificationInvalid,
			Confidence:     0.0,
			Explanation:    invalidExplanation,
			Indicators:     IndicatorSet{},
		}
	}

	features := ExtractFeatures(text)
	indicators := DetectIndicators(text)
	proxy := e.classifier.Classify(ctx, text)

	classification := Decide(proxy, features, indicators)

	e.logger.Debug("Email analyzed",
		zap.String("classification", string(classification)),
		zap.String("proxy_label", string(proxy.Label)),
		zap.Float64("confidence", proxy.Confidence),
		zap.Strings("indicators", indicators.Names()),
		zap.Int("suspicious_score", SuspiciousScore(features)))

	return &AnalysisResult{
		Classification: classification,
		Confidence:     proxy.Confidence,
		Explanation:    Explain(classification, features, indicators, proxy.Confidence),
		Features:       features,
		Indicators:     indicators,
		TextLength:     utf8.RuneCountInString(text),
	}
}
