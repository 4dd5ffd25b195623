package filter

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/mikey/email-guardian/internal/core"
	"github.com/mikey/email-guardian/internal/utils"
	"go.uber.org/zap"
)

const previewSize = 500

// CliFilter implements a command-line interface for email classification
type CliFilter struct {
	service       *core.GuardService
	logger        *zap.Logger
	verbose       bool
	format        string
	out           io.Writer
	status        io.Writer
	textProcessor *utils.TextProcessor
}

// NewCliFilter creates a new CLI filter. Results go to out, progress and previews to status.
func NewCliFilter(
	service *core.GuardService,
	logger *zap.Logger,
	verbose bool,
	format string,
	out io.Writer,
	status io.Writer,
	textProcessor *utils.TextProcessor,
) (*CliFilter, error) {
	switch format {
	case FormatJSON, FormatText, FormatTable:
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}

	return &CliFilter{
		service:       service,
		logger:        logger,
		verbose:       verbose,
		format:        format,
		out:           out,
		status:        status,
		textProcessor: textProcessor,
	}, nil
}

// ProcessEmail analyzes an email and prints the result
func (f *CliFilter) ProcessEmail(ctx context.Context, email *core.Email) (*core.AnalysisResult, error) {
	f.logger.Debug("Processing email", zap.String("sender", email.From))

	if f.verbose {
		fmt.Fprintf(f.status, "\n=== Email Summary ===\n")
		fmt.Fprintf(f.status, "From: %s\n", email.From)
		fmt.Fprintf(f.status, "To: %s\n", email.To)
		fmt.Fprintf(f.status, "Subject: %s\n", email.Subject)
		fmt.Fprintf(f.status, "Body length: %d bytes\n", len(email.Body))
		fmt.Fprintf(f.status, "\nBody preview:\n%s\n\n", f.textProcessor.TruncateText(email.Body, previewSize))
	}

	fmt.Fprintf(f.status, "Analyzing email content...\n")
	startTime := time.Now()
	result := f.service.AnalyzeEmail(ctx, email)
	duration := time.Since(startTime)

	f.logger.Debug("Email analyzed",
		zap.String("classification", string(result.Classification)),
		zap.Duration("duration", duration))

	if err := FormatResult(f.out, result, f.format); err != nil {
		return nil, fmt.Errorf("failed to write result: %w", err)
	}

	return result, nil
}

// Start is a no-op for the CLI filter
func (f *CliFilter) Start() error {
	return nil
}

// Stop is a no-op for the CLI filter
func (f *CliFilter) Stop() error {
	return nil
}

// ExitCode maps a classification to the process exit status of the CLI
func ExitCode(c core.Classification) int {
	switch {
	case c.IsThreat():
		return 2
	case c == core.ClassificationInvalid:
		return 1
	default:
		return 0
	}
}
