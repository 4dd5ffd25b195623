package factory

import (
	"github.com/mikey/email-guardian/internal/adapters/mailbox"
	"github.com/mikey/email-guardian/internal/config"
	"github.com/mikey/email-guardian/internal/ports"
	"go.uber.org/zap"
)

// MailboxFactory creates mailbox readers based on configuration
type MailboxFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewMailboxFactory creates a new mailbox factory
func NewMailboxFactory(cfg *config.Config, logger *zap.Logger) *MailboxFactory {
	return &MailboxFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateMailboxReader connects and logs in to the configured IMAP server
func (f *MailboxFactory) CreateMailboxReader() (ports.MailboxReader, error) {
	mailboxCfg := f.cfg.GetMailbox()
	return mailbox.Dial(mailboxCfg.Server, mailboxCfg.Port, mailboxCfg.Username, mailboxCfg.Password, f.logger)
}
