package ports

import (
	"context"

	"github.com/mikey/email-guardian/internal/core"
)

// MailboxReader fetches messages from a remote mailbox
type MailboxReader interface {
	// FetchRecent returns up to limit of the most recent messages in folder, oldest first
	FetchRecent(ctx context.Context, folder string, limit int) ([]*core.Email, error)

	// Close logs out and closes the connection
	Close() error
}
