package mailbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mikey/email-guardian/internal/core"
	"github.com/mikey/email-guardian/internal/ports"
	"go.uber.org/zap"
)

// MessageSummary describes a fetched message in scan results
type MessageSummary struct {
	Folder  string    `json:"folder"`
	Subject string    `json:"subject"`
	Sender  string    `json:"sender"`
	Date    time.Time `json:"date"`
	Body    string    `json:"body"`
}

// ScanResult pairs a message with its analysis
type ScanResult struct {
	Email    MessageSummary       `json:"email"`
	Analysis *core.AnalysisResult `json:"analysis"`
}

// Scanner analyzes the most recent messages of a mailbox
type Scanner struct {
	reader  ports.MailboxReader
	service *core.GuardService
	logger  *zap.Logger
}

// NewScanner creates a new mailbox scanner
func NewScanner(reader ports.MailboxReader, service *core.GuardService, logger *zap.Logger) *Scanner {
	return &Scanner{
		reader:  reader,
		service: service,
		logger:  logger,
	}
}

// Scan fetches up to maxEmails recent messages from each folder and analyzes their bodies.
// A folder that cannot be read is logged and skipped.
func (s *Scanner) Scan(ctx context.Context, folders []string, maxEmails int) ([]*ScanResult, error) {
	results := []*ScanResult{}

	for _, folder := range folders {
		emails, err := s.reader.FetchRecent(ctx, folder, maxEmails)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger.Warn("Could not scan folder", zap.String("folder", folder), zap.Error(err))
			continue
		}

		for _, email := range emails {
			analysis := s.service.AnalyzeEmail(ctx, &core.Email{From: email.From, Body: email.Body})
			results = append(results, &ScanResult{
				Email: MessageSummary{
					Folder:  folder,
					Subject: email.Subject,
					Sender:  email.From,
					Date:    email.Date,
					Body:    email.Body,
				},
				Analysis: analysis,
			})
		}
	}

	return results, nil
}

// WriteSummary prints per-classification counts followed by each result
func WriteSummary(w io.Writer, results []*ScanResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No scan results to display.")
		return
	}

	fmt.Fprintf(w, "\nScan Summary (%d emails analyzed)\n", len(results))
	fmt.Fprintln(w, strings.Repeat("=", 60))

	counts := make(map[core.Classification]int)
	for _, result := range results {
		counts[result.Analysis.Classification]++
	}
	for _, classification := range core.Classifications {
		if count := counts[classification]; count > 0 {
			fmt.Fprintf(w, "%s: %d\n", strings.ToUpper(string(classification[:1]))+string(classification[1:]), count)
		}
	}

	fmt.Fprintln(w, "\nDetailed Results:")
	fmt.Fprintln(w, strings.Repeat("-", 60))

	for i, result := range results {
		fmt.Fprintf(w, "\n%d. %s\n", i+1, result.Email.Subject)
		fmt.Fprintf(w, "   From: %s\n", result.Email.Sender)
		fmt.Fprintf(w, "   Date: %s\n", result.Email.Date.Format(time.RFC1123Z))
		fmt.Fprintf(w, "   Classification: %s\n", strings.ToUpper(string(result.Analysis.Classification)))
		fmt.Fprintf(w, "   Confidence: %.1f%%\n", result.Analysis.Confidence*100)
		fmt.Fprintf(w, "   Explanation: %s\n", result.Analysis.Explanation)
		if len(result.Analysis.Indicators) > 0 {
			fmt.Fprintf(w, "   Indicators: %s\n", result.Analysis.Indicators.String())
		}
	}
}

// SaveResults writes the results as indented JSON to mailbox_scan_<n>_emails.json in dir
func SaveResults(dir string, results []*ScanResult) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create results directory: %w", err)
	}

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode scan results: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("mailbox_scan_%d_emails.json", len(results)))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write scan results: %w", err)
	}

	return path, nil
}
