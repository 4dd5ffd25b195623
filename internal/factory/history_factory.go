package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mikey/email-guardian/internal/adapters/history"
	"github.com/mikey/email-guardian/internal/config"
	"github.com/mikey/email-guardian/internal/ports"
	"go.uber.org/zap"
)

// HistoryFactory creates scan history stores based on configuration
type HistoryFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewHistoryFactory creates a new history factory
func NewHistoryFactory(cfg *config.Config, logger *zap.Logger) *HistoryFactory {
	return &HistoryFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateHistoryStore creates a history store based on the configuration
func (f *HistoryFactory) CreateHistoryStore() (ports.HistoryStore, error) {
	historyCfg := f.cfg.GetHistory()

	switch historyCfg.Type {
	case "memory":
		return history.NewMemoryHistory(f.logger, historyCfg.MaxEntries, historyCfg.Retention, historyCfg.CleanupFrequency), nil
	case "sqlite":
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(historyCfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return history.NewSQLiteHistory(historyCfg.SQLitePath, f.logger, historyCfg.MaxEntries, historyCfg.Retention, historyCfg.CleanupFrequency)
	case "mysql":
		return history.NewMySQLHistory(historyCfg.MySQLDSN, f.logger, historyCfg.MaxEntries, historyCfg.Retention, historyCfg.CleanupFrequency)
	default:
		return nil, fmt.Errorf("unsupported history type: %s", historyCfg.Type)
	}
}

// IsHistoryEnabled returns whether scans are recorded
func (f *HistoryFactory) IsHistoryEnabled() bool {
	return f.cfg.GetHistory().Enabled
}
