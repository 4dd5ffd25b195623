package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/email-guardian/internal/adapters/api"
	"github.com/mikey/email-guardian/internal/adapters/mailbox"
	"github.com/mikey/email-guardian/internal/config"
	"github.com/mikey/email-guardian/internal/core"
	"github.com/mikey/email-guardian/internal/factory"
	"github.com/mikey/email-guardian/internal/logging"
	"github.com/mikey/email-guardian/internal/ports"
	"github.com/mikey/email-guardian/internal/utils"
	"github.com/mikey/email-guardian/internal/whitelist"
)

// BuildContainer creates and configures a dependency injection container
// for the API server and the mailbox scanner
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	if err := provideEngine(container); err != nil {
		return nil, err
	}

	// Register history store
	if err := container.Provide(factory.NewHistoryFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.HistoryFactory) (ports.HistoryStore, error) {
		return f.CreateHistoryStore()
	}); err != nil {
		return nil, err
	}

	// Register whitelist checker
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *whitelist.Checker {
		whitelistedDomains := cfg.GetFilter().WhitelistedDomains
		if len(whitelistedDomains) > 0 {
			logger.Info("Loaded whitelisted domains", zap.Strings("domains", whitelistedDomains))
		}
		return whitelist.NewChecker(whitelistedDomains, logger)
	}); err != nil {
		return nil, err
	}

	// Register guard service
	if err := container.Provide(func(
		engine *core.Engine,
		store ports.HistoryStore,
		f *factory.HistoryFactory,
		logger *zap.Logger,
		checker *whitelist.Checker,
	) *core.GuardService {
		return core.NewGuardService(engine, store, logger, f.IsHistoryEnabled(), checker)
	}); err != nil {
		return nil, err
	}

	// Register API server
	if err := container.Provide(func(service *core.GuardService, logger *zap.Logger, cfg *config.Config) (*api.Server, error) {
		return api.NewServer(service, logger, cfg.GetAPI())
	}); err != nil {
		return nil, err
	}

	// Register email filter
	if err := container.Provide(factory.NewFilterFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.FilterFactory) (ports.EmailFilter, error) {
		return f.CreateEmailFilter()
	}); err != nil {
		return nil, err
	}

	// Register mailbox reader and scanner
	if err := container.Provide(factory.NewMailboxFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.MailboxFactory) (ports.MailboxReader, error) {
		return f.CreateMailboxReader()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(mailbox.NewScanner); err != nil {
		return nil, err
	}

	return container, nil
}

// provideEngine registers the text processor, sentiment model and engine.
// The model is loaded once, when the engine is first resolved.
func provideEngine(container *dig.Container) error {
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return err
	}

	if err := container.Provide(factory.NewClassifierFactory); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.ClassifierFactory) (core.SentimentModel, error) {
		return f.CreateModel()
	}); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.ClassifierFactory, model core.SentimentModel) core.Classifier {
		return f.CreateClassifier(model)
	}); err != nil {
		return err
	}

	return container.Provide(core.NewEngine)
}
