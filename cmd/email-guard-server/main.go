package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mikey/email-guardian/internal/adapters/api"
	"github.com/mikey/email-guardian/internal/config"
	"github.com/mikey/email-guardian/internal/core"
	"github.com/mikey/email-guardian/internal/di"
	"github.com/mikey/email-guardian/internal/ports"
	"go.uber.org/dig"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	var p params
	if err := container.Invoke(func(in params) { p = in }); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}

	// The content filter is only built when enabled
	var emailFilter ports.EmailFilter
	if p.Config.GetFilter().Enabled {
		if err := container.Invoke(func(f ports.EmailFilter) { emailFilter = f }); err != nil {
			fmt.Printf("Failed to create email filter: %v\n", err)
			os.Exit(1)
		}
	}

	// Run the application
	if err := run(p, emailFilter); err != nil {
		p.Logger.Error("Application error", zap.Error(err))
		os.Exit(1)
	}
}

type params struct {
	dig.In

	Logger  *zap.Logger
	Config  *config.Config
	Server  *api.Server
	Model   core.SentimentModel
	History ports.HistoryStore
}

// run serves until SIGINT or SIGTERM
func run(p params, emailFilter ports.EmailFilter) error {
	logger := p.Logger
	defer logger.Sync()

	if err := p.Server.Start(); err != nil {
		return fmt.Errorf("failed to start API server: %w", err)
	}

	if emailFilter != nil {
		if err := emailFilter.Start(); err != nil {
			return fmt.Errorf("failed to start email filter: %w", err)
		}
	}

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := p.Server.Stop(ctx); err != nil {
		logger.Error("Failed to stop API server", zap.Error(err))
	}

	if emailFilter != nil {
		if err := emailFilter.Stop(); err != nil {
			logger.Error("Failed to stop filter", zap.Error(err))
		}
	}

	// Close any resources that need closing
	if closer, ok := p.Model.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close sentiment model", zap.Error(err))
		}
	}

	p.History.Stop()

	logger.Info("Shutdown complete")
	return nil
}
