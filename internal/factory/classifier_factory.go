package factory

import (
	"fmt"

	"github.com/mikey/email-guardian/internal/adapters/bedrock"
	"github.com/mikey/email-guardian/internal/adapters/gemini"
	"github.com/mikey/email-guardian/internal/adapters/lexicon"
	"github.com/mikey/email-guardian/internal/adapters/openai"
	"github.com/mikey/email-guardian/internal/config"
	"github.com/mikey/email-guardian/internal/core"
	"github.com/mikey/email-guardian/internal/utils"
	"go.uber.org/zap"
)

// ClassifierFactory creates the sentiment model and the adapter around it
type ClassifierFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewClassifierFactory creates a new classifier factory
func NewClassifierFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *ClassifierFactory {
	return &ClassifierFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateModel creates the sentiment model selected by classifier.provider
func (f *ClassifierFactory) CreateModel() (core.SentimentModel, error) {
	classifierCfg := f.cfg.GetClassifier()

	switch classifierCfg.Provider {
	case "", "lexicon":
		if classifierCfg.LexiconPath == "" {
			return lexicon.NewModel(nil, f.logger), nil
		}
		lex, err := lexicon.LoadLexicon(classifierCfg.LexiconPath)
		if err != nil {
			return nil, err
		}
		return lexicon.NewModel(lex, f.logger), nil
	case "openai":
		return openai.NewFactory(f.cfg, f.logger).CreateModel()
	case "gemini":
		return gemini.NewFactory(f.cfg, f.logger).CreateModel()
	case "bedrock":
		return bedrock.NewFactory(f.cfg, f.logger).CreateModel()
	default:
		return nil, fmt.Errorf("unsupported classifier provider: %s", classifierCfg.Provider)
	}
}

// CreateClassifier wraps a loaded model in a sentiment adapter
func (f *ClassifierFactory) CreateClassifier(model core.SentimentModel) *core.SentimentAdapter {
	f.logger.Info("Sentiment model loaded", zap.String("model", model.Name()))
	return core.NewSentimentAdapter(model, f.cfg.GetClassifier().MaxInputChars, f.logger, f.textProcessor)
}
