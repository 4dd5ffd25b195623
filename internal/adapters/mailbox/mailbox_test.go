package mailbox

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/emersion/go-imap/backend/memory"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-imap/server"
	"github.com/mikey/email-guardian/internal/core"
	"github.com/mikey/email-guardian/internal/utils"
	"github.com/mikey/email-guardian/internal/whitelist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const phishingMessage = "From: Security Team <alerts@secure-bank.example>\r\n" +
	"To: user@example.org\r\n" +
	"Subject: Account suspended\r\n" +
	"Date: Thu, 12 May 2016 09:00:00 +0000\r\n" +
	"Content-Type: text/plain\r\n" +
	"\r\n" +
	"Dear customer, verify your account immediately. Click here to confirm your password at http://bit.ly/x\r\n"

type fixedModel struct{}

func (m *fixedModel) Predict(_ context.Context, _ string) (*core.Sentiment, error) {
	return &core.Sentiment{Label: "NEGATIVE", Score: 0.6}, nil
}

func (m *fixedModel) Name() string {
	return "fixed"
}

func newTestService(domains ...string) *core.GuardService {
	logger := zap.NewNop()
	adapter := core.NewSentimentAdapter(&fixedModel{}, core.DefaultMaxInputChars, logger, utils.NewTextProcessor(logger))
	return core.NewGuardService(core.NewEngine(adapter, logger), nil, logger, false, whitelist.NewChecker(domains, logger))
}

// startIMAPServer serves the in-memory backend and returns a logged in client
func startIMAPServer(t *testing.T) *client.Client {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := server.New(memory.New())
	s.AllowInsecureAuth = true
	go s.Serve(l)
	t.Cleanup(func() { s.Close() })

	c, err := client.Dial(l.Addr().String())
	require.NoError(t, err)
	require.NoError(t, c.Login("username", "password"))

	return c
}

func TestIMAPReaderFetchRecent(t *testing.T) {
	c := startIMAPServer(t)
	require.NoError(t, c.Append("INBOX", nil, time.Now(), bytes.NewBufferString(phishingMessage)))

	reader := NewIMAPReader(c, zap.NewNop())
	defer reader.Close()

	emails, err := reader.FetchRecent(context.Background(), "INBOX", 10)
	require.NoError(t, err)
	require.Len(t, emails, 2)

	assert.Equal(t, "A little message, just for you", emails[0].Subject)
	assert.Equal(t, "contact@example.org", emails[0].From)
	assert.Contains(t, emails[0].Body, "Hi there :)")
	assert.Equal(t, 2016, emails[0].Date.Year())

	assert.Equal(t, "Account suspended", emails[1].Subject)
	assert.Equal(t, "alerts@secure-bank.example", emails[1].From)
	assert.Contains(t, emails[1].Body, "verify your account")
}

func TestIMAPReaderFetchRecentLimit(t *testing.T) {
	c := startIMAPServer(t)
	require.NoError(t, c.Append("INBOX", nil, time.Now(), bytes.NewBufferString(phishingMessage)))

	reader := NewIMAPReader(c, zap.NewNop())
	defer reader.Close()

	emails, err := reader.FetchRecent(context.Background(), "INBOX", 1)
	require.NoError(t, err)
	require.Len(t, emails, 1)
	assert.Equal(t, "Account suspended", emails[0].Subject)
}

func TestIMAPReaderUnknownFolder(t *testing.T) {
	reader := NewIMAPReader(startIMAPServer(t), zap.NewNop())
	defer reader.Close()

	_, err := reader.FetchRecent(context.Background(), "Archive", 10)
	assert.Error(t, err)
}

func TestDialRequiresServer(t *testing.T) {
	_, err := Dial("", 993, "user", "pass", zap.NewNop())
	assert.Error(t, err)
}

// fakeReader serves canned emails per folder
type fakeReader struct {
	folders map[string][]*core.Email
	limits  []int
}

func (r *fakeReader) FetchRecent(_ context.Context, folder string, limit int) ([]*core.Email, error) {
	r.limits = append(r.limits, limit)
	emails, ok := r.folders[folder]
	if !ok {
		return nil, errors.New("no such folder")
	}
	return emails, nil
}

func (r *fakeReader) Close() error {
	return nil
}

func newFakeReader() *fakeReader {
	return &fakeReader{folders: map[string][]*core.Email{
		"INBOX": {
			{
				From:    "alerts@secure-bank.example",
				Subject: "Account suspended",
				Date:    time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
				Body:    "Dear customer, urgent: verify your account. Click here to confirm your password.",
			},
			{
				From:    "friend@example.org",
				Subject: "Lunch",
				Date:    time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC),
				Body:    "Are we still on for lunch tomorrow?",
			},
		},
	}}
}

func TestScannerScan(t *testing.T) {
	reader := newFakeReader()
	scanner := NewScanner(reader, newTestService("example.org"), zap.NewNop())

	results, err := scanner.Scan(context.Background(), []string{"INBOX", "Missing"}, 5)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, []int{5, 5}, reader.limits)

	first := results[0]
	assert.Equal(t, "INBOX", first.Email.Folder)
	assert.Equal(t, "Account suspended", first.Email.Subject)
	assert.Equal(t, "alerts@secure-bank.example", first.Email.Sender)
	assert.Equal(t, core.ClassificationPhishing, first.Analysis.Classification)
	assert.Contains(t, first.Analysis.Indicators, core.IndicatorUrgentAction)

	second := results[1]
	assert.Equal(t, core.ClassificationLegitimate, second.Analysis.Classification)
	assert.Equal(t, 1.0, second.Analysis.Confidence)
}

func TestScannerScanCancelled(t *testing.T) {
	scanner := NewScanner(newFakeReader(), newTestService(), zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := scanner.Scan(ctx, []string{"Missing"}, 5)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWriteSummary(t *testing.T) {
	scanner := NewScanner(newFakeReader(), newTestService("example.org"), zap.NewNop())
	results, err := scanner.Scan(context.Background(), []string{"INBOX"}, 5)
	require.NoError(t, err)

	var buf bytes.Buffer
	WriteSummary(&buf, results)
	out := buf.String()

	assert.Contains(t, out, "Scan Summary (2 emails analyzed)")
	assert.Contains(t, out, "Phishing: 1")
	assert.Contains(t, out, "Legitimate: 1")
	assert.Contains(t, out, "1. Account suspended")
	assert.Contains(t, out, "Confidence: 100.0%")
	assert.Contains(t, out, "Indicators: urgent_action")
}

func TestWriteSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	WriteSummary(&buf, nil)
	assert.Equal(t, "No scan results to display.\n", buf.String())
}

func TestSaveResults(t *testing.T) {
	scanner := NewScanner(newFakeReader(), newTestService(), zap.NewNop())
	results, err := scanner.Scan(context.Background(), []string{"INBOX"}, 5)
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "results")
	path, err := SaveResults(dir, results)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "mailbox_scan_2_emails.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "Account suspended", decoded[0]["email"].(map[string]interface{})["subject"])
	assert.Equal(t, "phishing", decoded[0]["analysis"].(map[string]interface{})["classification"])
}
