package ports

import (
	"context"

	"github.com/mikey/email-guardian/internal/core"
)

// EmailFilter defines the interface for email filtering
type EmailFilter interface {
	// ProcessEmail classifies an email and returns the analysis
	ProcessEmail(ctx context.Context, email *core.Email) (*core.AnalysisResult, error)

	// Start starts the email filter service
	Start() error

	// Stop stops the email filter service
	Stop() error
}
