package di

import (
	"flag"
	"os"
	"strings"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/email-guardian/internal/adapters/filter"
	"github.com/mikey/email-guardian/internal/config"
	"github.com/mikey/email-guardian/internal/core"
	"github.com/mikey/email-guardian/internal/logging"
	"github.com/mikey/email-guardian/internal/ports"
	"github.com/mikey/email-guardian/internal/utils"
	"github.com/mikey/email-guardian/internal/whitelist"
)

// CLIFlags contains all command line flags for the CLI application
type CLIFlags struct {
	// Classifier flags
	Provider      string
	LexiconPath   string
	MaxInputChars int
	MaxTokens     int
	Temperature   float64
	TopP          float64

	// Bedrock flags
	BedrockRegion  string
	BedrockModelID string

	// Gemini flags
	GeminiAPIKey    string
	GeminiModelName string

	// OpenAI flags
	OpenAIAPIKey    string
	OpenAIModelName string

	// Whitelisted sender domains, comma separated
	Whitelist string

	// Input and output flags
	InputFile  string
	EML        bool
	Output     string
	Verbose    bool
	JSONLog    bool
	ConfigFile string
}

// ParseFlags parses command line flags and returns a CLIFlags struct
func ParseFlags() *CLIFlags {
	flags := &CLIFlags{}
	registerFlags(flag.CommandLine, flags)
	flag.Parse()
	return flags
}

func registerFlags(fs *flag.FlagSet, flags *CLIFlags) {
	// Classifier flags
	fs.StringVar(&flags.Provider, "provider", "lexicon", "Sentiment model provider (lexicon, openai, gemini, bedrock)")
	fs.StringVar(&flags.LexiconPath, "lexicon", "", "Path to a JSON lexicon (built-in lexicon if not specified)")
	fs.IntVar(&flags.MaxInputChars, "max-input-chars", core.DefaultMaxInputChars, "Maximum characters handed to the sentiment model")
	fs.IntVar(&flags.MaxTokens, "max-tokens", 100, "Maximum tokens for LLM response")
	fs.Float64Var(&flags.Temperature, "temperature", 0.0, "Temperature for LLM generation")
	fs.Float64Var(&flags.TopP, "top-p", 1.0, "Top-p for LLM generation")

	// Bedrock flags
	fs.StringVar(&flags.BedrockRegion, "bedrock-region", "us-east-1", "AWS region for Bedrock")
	fs.StringVar(&flags.BedrockModelID, "bedrock-model", "anthropic.claude-v2", "Bedrock model ID")

	// Gemini flags
	fs.StringVar(&flags.GeminiAPIKey, "gemini-api-key", "", "API key for Google Gemini")
	fs.StringVar(&flags.GeminiModelName, "gemini-model", "gemini-pro", "Gemini model name")

	// OpenAI flags
	fs.StringVar(&flags.OpenAIAPIKey, "openai-api-key", "", "API key for OpenAI")
	fs.StringVar(&flags.OpenAIModelName, "openai-model", "gpt-4o-mini", "OpenAI model name")

	fs.StringVar(&flags.Whitelist, "whitelist", "", "Comma-separated list of whitelisted sender domains")

	// Input and output flags
	fs.StringVar(&flags.InputFile, "file", "", "Input file (use stdin if not specified)")
	fs.BoolVar(&flags.EML, "eml", false, "Parse the input as an RFC 5322 email message")
	fs.StringVar(&flags.Output, "output", filter.FormatText, "Output format (json, text, table)")
	fs.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	fs.StringVar(&flags.ConfigFile, "config", "", "Path to config file (overrides command line flags)")
}

// BuildCLIContainer creates and configures a dependency injection container for the CLI application
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		if flags.ConfigFile != "" {
			cfg, err := config.NewFromFile(flags.ConfigFile)
			if err != nil {
				return nil, err
			}
			logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
			return cfg, nil
		}

		// Create config from command line flags
		return createConfigFromFlags(flags), nil
	}); err != nil {
		return nil, err
	}

	if err := provideEngine(container); err != nil {
		return nil, err
	}

	// Register guard service with no history
	if err := container.Provide(func(engine *core.Engine, cfg *config.Config, logger *zap.Logger) *core.GuardService {
		checker := whitelist.NewChecker(cfg.GetFilter().WhitelistedDomains, logger)
		return core.NewGuardService(engine, nil, logger, false, checker)
	}); err != nil {
		return nil, err
	}

	// Register CLI filter
	if err := container.Provide(func(
		service *core.GuardService,
		logger *zap.Logger,
		flags *CLIFlags,
		textProcessor *utils.TextProcessor,
	) (ports.EmailFilter, error) {
		return filter.NewCliFilter(service, logger, flags.Verbose, flags.Output, os.Stdout, os.Stderr, textProcessor)
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags(flags *CLIFlags) *config.Config {
	v := config.NewEmptyViper()

	// Set some cli specific settings
	v.Set("server.filter_type", "cli")
	v.Set("cli.verbose", flags.Verbose)

	v.Set("classifier.provider", flags.Provider)
	v.Set("classifier.lexicon_path", flags.LexiconPath)
	v.Set("classifier.max_input_chars", flags.MaxInputChars)

	// Set provider-specific configuration
	switch flags.Provider {
	case "bedrock":
		v.Set("bedrock.region", flags.BedrockRegion)
		v.Set("bedrock.model_id", flags.BedrockModelID)
		v.Set("bedrock.max_tokens", flags.MaxTokens)
		v.Set("bedrock.temperature", flags.Temperature)
		v.Set("bedrock.top_p", flags.TopP)
	case "gemini":
		v.Set("gemini.api_key", flags.GeminiAPIKey)
		v.Set("gemini.model_name", flags.GeminiModelName)
		v.Set("gemini.max_tokens", flags.MaxTokens)
		v.Set("gemini.temperature", flags.Temperature)
		v.Set("gemini.top_p", flags.TopP)
	case "openai":
		v.Set("openai.api_key", flags.OpenAIAPIKey)
		v.Set("openai.model_name", flags.OpenAIModelName)
		v.Set("openai.max_tokens", flags.MaxTokens)
		v.Set("openai.temperature", flags.Temperature)
		v.Set("openai.top_p", flags.TopP)
	}

	// Set whitelisted domains
	domains := []string{}
	if flags.Whitelist != "" {
		for _, domain := range strings.Split(flags.Whitelist, ",") {
			if domain = strings.TrimSpace(domain); domain != "" {
				domains = append(domains, domain)
			}
		}
	}
	v.Set("guard.whitelisted_domains", domains)

	return config.NewFromViper(v)
}
