package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mikey/email-guardian/internal/adapters/mailbox"
	"github.com/mikey/email-guardian/internal/config"
	"github.com/mikey/email-guardian/internal/di"
	"github.com/mikey/email-guardian/internal/ports"
	"go.uber.org/zap"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

func run(
	logger *zap.Logger,
	cfg *config.Config,
	reader ports.MailboxReader,
	scanner *mailbox.Scanner,
	history ports.HistoryStore,
) error {
	defer logger.Sync()
	defer history.Stop()
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mailboxCfg := cfg.GetMailbox()
	results, err := scanner.Scan(ctx, mailboxCfg.Folders, mailboxCfg.MaxEmails)
	if err != nil {
		return fmt.Errorf("failed to scan mailbox: %w", err)
	}

	mailbox.WriteSummary(os.Stdout, results)

	path, err := mailbox.SaveResults(mailboxCfg.ResultsDir, results)
	if err != nil {
		return err
	}
	logger.Info("Scan results saved", zap.String("file", path), zap.Int("emails", len(results)))

	return nil
}
