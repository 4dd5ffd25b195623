package lexicon

import (
	"context"
	"math"
	"strings"
	"unicode"

	"github.com/mikey/email-guardian/internal/core"
	"go.uber.org/zap"
)

const (
	labelPositive = "POSITIVE"
	labelNegative = "NEGATIVE"
	// negationFactor flips and dampens a word preceded by a negator
	negationFactor = -0.5
)

// Model is a dictionary based binary sentiment model
type Model struct {
	lexicon *Lexicon
	logger  *zap.Logger
}

// NewModel creates a new lexicon sentiment model
func NewModel(lexicon *Lexicon, logger *zap.Logger) *Model {
	if lexicon == nil {
		lexicon = DefaultLexicon()
	}

	logger.Info("Loaded lexicon sentiment model",
		zap.Int("positive_words", len(lexicon.PositiveWords)),
		zap.Int("negative_words", len(lexicon.NegativeWords)))

	return &Model{
		lexicon: lexicon,
		logger:  logger,
	}
}

// Name returns the model name
func (m *Model) Name() string {
	return "lexicon"
}

// Predict scores text and returns POSITIVE or NEGATIVE with a confidence in [0.5, 1)
func (m *Model) Predict(ctx context.Context, text string) (*core.Sentiment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	net := m.Score(text)

	label := labelPositive
	if net < 0 {
		label = labelNegative
	}

	return &core.Sentiment{
		Label: label,
		Score: 0.5 + 0.5*(1-math.Exp(-math.Abs(net))),
	}, nil
}

// Score returns the net sentiment of text, positive values meaning positive sentiment
func (m *Model) Score(text string) float64 {
	words := tokenize(text)

	net := 0.0
	for i, word := range words {
		score := 0.0
		if weight, ok := m.lexicon.PositiveWords[word]; ok {
			score = weight
		} else if weight, ok := m.lexicon.NegativeWords[word]; ok {
			score = -weight
		}
		if score == 0 {
			continue
		}

		if i > 0 {
			if multiplier, ok := m.lexicon.Intensifiers[words[i-1]]; ok {
				score *= multiplier
			}
			if m.lexicon.isNegator(words[i-1]) {
				score *= negationFactor
			}
		}

		net += score
	}

	return net
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}
