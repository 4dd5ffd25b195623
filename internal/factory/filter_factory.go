package factory

import (
	"fmt"
	"os"

	"github.com/mikey/email-guardian/internal/adapters/filter"
	"github.com/mikey/email-guardian/internal/config"
	"github.com/mikey/email-guardian/internal/core"
	"github.com/mikey/email-guardian/internal/ports"
	"github.com/mikey/email-guardian/internal/utils"
	"go.uber.org/zap"
)

// FilterFactory creates email filters based on configuration
type FilterFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	service       *core.GuardService
	textProcessor *utils.TextProcessor
}

// NewFilterFactory creates a new filter factory
func NewFilterFactory(cfg *config.Config, logger *zap.Logger, service *core.GuardService, textProcessor *utils.TextProcessor) *FilterFactory {
	return &FilterFactory{
		cfg:           cfg,
		logger:        logger,
		service:       service,
		textProcessor: textProcessor,
	}
}

// CreateEmailFilter creates an email filter based on the configuration
func (f *FilterFactory) CreateEmailFilter() (ports.EmailFilter, error) {
	filterCfg := f.cfg.GetFilter()

	switch filterCfg.Type {
	case "postfix":
		return filter.NewPostfixFilter(
			f.service,
			f.logger,
			filterCfg.ListenAddress,
			filterCfg.BlockClassifications,
			filterCfg.ClassificationHeader,
			filterCfg.ConfidenceHeader,
			filterCfg.ReasonHeader,
			filterCfg.PostfixAddress,
			filterCfg.PostfixPort,
			filterCfg.PostfixEnabled,
			filterCfg.SubjectPrefix,
			filterCfg.ModifySubject,
		), nil
	case "cli":
		return filter.NewCliFilter(
			f.service,
			f.logger,
			f.cfg.GetBool("cli.verbose"),
			filter.FormatText,
			os.Stdout,
			os.Stderr,
			f.textProcessor,
		)
	default:
		return nil, fmt.Errorf("unsupported filter type: %s", filterCfg.Type)
	}
}
