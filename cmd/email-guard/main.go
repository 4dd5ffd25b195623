package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mikey/email-guardian/internal/adapters/filter"
	"github.com/mikey/email-guardian/internal/core"
	"github.com/mikey/email-guardian/internal/di"
	"github.com/mikey/email-guardian/internal/ports"
	"go.uber.org/zap"
)

func main() {
	flags := di.ParseFlags()

	// Build the dependency injection container
	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	exitCode := 1
	if err := container.Invoke(func(
		logger *zap.Logger,
		emailFilter ports.EmailFilter,
		model core.SentimentModel,
	) {
		defer logger.Sync()
		exitCode = run(flags, logger, emailFilter)

		// Close any resources that need closing
		if closer, ok := model.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				logger.Error("Failed to close sentiment model", zap.Error(err))
			}
		}
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
		os.Exit(1)
	}

	os.Exit(exitCode)
}

// run analyzes the input and returns the process exit status
func run(flags *di.CLIFlags, logger *zap.Logger, emailFilter ports.EmailFilter) int {
	// Read input from file or stdin
	var input io.Reader
	if flags.InputFile != "" {
		file, err := os.Open(flags.InputFile)
		if err != nil {
			logger.Error("Failed to open input file", zap.Error(err), zap.String("file", flags.InputFile))
			return 1
		}
		defer file.Close()
		input = file
		logger.Info("Reading input from file", zap.String("file", flags.InputFile))
	} else {
		input = os.Stdin
		logger.Info("Reading input from stdin")
	}

	data, err := io.ReadAll(input)
	if err != nil {
		logger.Error("Failed to read input", zap.Error(err))
		return 1
	}

	email := &core.Email{Body: string(data)}
	if flags.EML {
		email, err = filter.ParseEmail(bytes.NewReader(data))
		if err != nil {
			logger.Error("Failed to parse email", zap.Error(err))
			return 1
		}
	}

	result, err := emailFilter.ProcessEmail(context.Background(), email)
	if err != nil {
		logger.Error("Failed to process email", zap.Error(err))
		return 1
	}

	return filter.ExitCode(result.Classification)
}
