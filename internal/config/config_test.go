package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := NewFromViper(NewEmptyViper())

	classifier := cfg.GetClassifier()
	assert.Equal(t, "lexicon", classifier.Provider)
	assert.Equal(t, 512, classifier.MaxInputChars)

	api := cfg.GetAPI()
	assert.Equal(t, "0.0.0.0:8000", api.ListenAddress)
	assert.Empty(t, api.Key)
	assert.Equal(t, 10000, api.MaxContentLength)
	assert.Equal(t, 10, api.DefaultHistoryLimit)
	assert.Equal(t, []string{"*"}, api.CORSAllowedOrigins)

	history := cfg.GetHistory()
	assert.True(t, history.Enabled)
	assert.Equal(t, "memory", history.Type)
	assert.Equal(t, 100, history.MaxEntries)
	assert.Equal(t, 720*time.Hour, history.Retention)
	assert.Equal(t, time.Hour, history.CleanupFrequency)

	filter := cfg.GetFilter()
	assert.False(t, filter.Enabled)
	assert.Equal(t, "X-Email-Guard-Classification", filter.ClassificationHeader)
	assert.Equal(t, []string{"phishing"}, filter.BlockClassifications)
	assert.Equal(t, 10026, filter.PostfixPort)

	mailbox := cfg.GetMailbox()
	assert.Equal(t, 993, mailbox.Port)
	assert.Equal(t, []string{"INBOX"}, mailbox.Folders)
	assert.Equal(t, 5, mailbox.MaxEmails)

	openai := cfg.GetOpenAI()
	assert.Equal(t, 100, openai.MaxTokens)
	assert.Equal(t, float32(0.0), openai.Temperature)
}

func TestOverrides(t *testing.T) {
	v := NewEmptyViper()
	v.Set("history.type", "sqlite")
	v.Set("history.retention", "not-a-duration")
	v.Set("guard.whitelisted_domains", []string{"example.com"})
	cfg := NewFromViper(v)

	history := cfg.GetHistory()
	assert.Equal(t, "sqlite", history.Type)
	assert.Equal(t, 720*time.Hour, history.Retention)
	assert.Equal(t, []string{"example.com"}, cfg.GetFilter().WhitelistedDomains)
}

func TestNewFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
classifier:
  provider: openai
api:
  key: from-file
guard:
  whitelisted_domains:
    - example.com
`), 0644))

	cfg, err := NewFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.GetClassifier().Provider)
	assert.Equal(t, "from-file", cfg.GetAPI().Key)
	assert.Equal(t, []string{"example.com"}, cfg.GetFilter().WhitelistedDomains)
	assert.Equal(t, 10000, cfg.GetAPI().MaxContentLength)

	_, err = NewFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
