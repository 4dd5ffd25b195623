package config

import "time"

// ClassifierConfig represents the configuration of the sentiment model
type ClassifierConfig struct {
	Provider      string
	MaxInputChars int
	LexiconPath   string
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// APIConfig represents the configuration of the HTTP API
type APIConfig struct {
	ListenAddress       string
	Key                 string
	MaxContentLength    int
	DefaultHistoryLimit int
	CORSAllowedOrigins  []string
}

// HistoryConfig represents the configuration of the scan history store
type HistoryConfig struct {
	Enabled          bool
	Type             string
	MaxEntries       int
	Retention        time.Duration
	CleanupFrequency time.Duration
	SQLitePath       string
	MySQLDSN         string
}

// FilterConfig represents the configuration of the mail server content filter
type FilterConfig struct {
	Enabled              bool
	Type                 string
	ListenAddress        string
	ClassificationHeader string
	ConfidenceHeader     string
	ReasonHeader         string
	BlockClassifications []string
	ModifySubject        bool
	SubjectPrefix        string
	PostfixAddress       string
	PostfixPort          int
	PostfixEnabled       bool
	WhitelistedDomains   []string
}

// MailboxConfig represents the configuration of the IMAP mailbox scanner
type MailboxConfig struct {
	Server     string
	Port       int
	Username   string
	Password   string
	Folders    []string
	MaxEmails  int
	ResultsDir string
}

// GetClassifier returns the classifier configuration
func (c *Config) GetClassifier() ClassifierConfig {
	return ClassifierConfig{
		Provider:      c.GetString("classifier.provider"),
		MaxInputChars: c.GetInt("classifier.max_input_chars"),
		LexiconPath:   c.GetString("classifier.lexicon_path"),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
	}
}

// GetAPI returns the HTTP API configuration
func (c *Config) GetAPI() APIConfig {
	return APIConfig{
		ListenAddress:       c.GetString("api.listen_address"),
		Key:                 c.GetString("api.key"),
		MaxContentLength:    c.GetInt("api.max_content_length"),
		DefaultHistoryLimit: c.GetInt("api.default_history_limit"),
		CORSAllowedOrigins:  c.GetStringSlice("api.cors_allowed_origins"),
	}
}

// GetHistory returns the scan history configuration.
// Invalid durations fall back to the defaults.
func (c *Config) GetHistory() HistoryConfig {
	retention, err := c.GetDuration("history.retention")
	if err != nil {
		retention = 720 * time.Hour
	}
	cleanupFreq, err := c.GetDuration("history.cleanup_frequency")
	if err != nil {
		cleanupFreq = time.Hour
	}

	return HistoryConfig{
		Enabled:          c.GetBool("history.enabled"),
		Type:             c.GetString("history.type"),
		MaxEntries:       c.GetInt("history.max_entries"),
		Retention:        retention,
		CleanupFrequency: cleanupFreq,
		SQLitePath:       c.GetString("history.sqlite_path"),
		MySQLDSN:         c.GetString("history.mysql_dsn"),
	}
}

// GetFilter returns the mail server content filter configuration
func (c *Config) GetFilter() FilterConfig {
	return FilterConfig{
		Enabled:              c.GetBool("server.filter_enabled"),
		Type:                 c.GetString("server.filter_type"),
		ListenAddress:        c.GetString("server.listen_address"),
		ClassificationHeader: c.GetString("server.headers.classification"),
		ConfidenceHeader:     c.GetString("server.headers.confidence"),
		ReasonHeader:         c.GetString("server.headers.reason"),
		BlockClassifications: c.GetStringSlice("server.block_classifications"),
		ModifySubject:        c.GetBool("server.modify_subject"),
		SubjectPrefix:        c.GetString("server.subject_prefix"),
		PostfixAddress:       c.GetString("server.postfix.address"),
		PostfixPort:          c.GetInt("server.postfix.port"),
		PostfixEnabled:       c.GetBool("server.postfix.enabled"),
		WhitelistedDomains:   c.GetStringSlice("guard.whitelisted_domains"),
	}
}

// GetMailbox returns the IMAP mailbox configuration
func (c *Config) GetMailbox() MailboxConfig {
	return MailboxConfig{
		Server:     c.GetString("mailbox.server"),
		Port:       c.GetInt("mailbox.port"),
		Username:   c.GetString("mailbox.username"),
		Password:   c.GetString("mailbox.password"),
		Folders:    c.GetStringSlice("mailbox.folders"),
		MaxEmails:  c.GetInt("mailbox.max_emails"),
		ResultsDir: c.GetString("mailbox.results_dir"),
	}
}
