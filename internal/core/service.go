package core

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/mikey/email-guardian/internal/whitelist"
	"go.uber.org/zap"
)

const whitelistExplanation = "Sender domain is whitelisted."

// GuardService is the entry point used by hosting collaborators: the HTTP API,
// the mail filter, the CLI and the mailbox scanner
type GuardService struct {
	engine         *Engine
	history        HistoryRepository
	logger         *zap.Logger
	historyEnabled bool
	whitelist      *whitelist.Checker
	now            func() time.Time
}

// NewGuardService creates a new guard service
func NewGuardService(
	engine *Engine,
	history HistoryRepository,
	logger *zap.Logger,
	historyEnabled bool,
	checker *whitelist.Checker,
) *GuardService {
	return &GuardService{
		engine:         engine,
		history:        history,
		logger:         logger,
		historyEnabled: historyEnabled && history != nil,
		whitelist:      checker,
		now:            time.Now,
	}
}

// Analyze classifies raw text
func (s *GuardService) Analyze(ctx context.Context, text string) *AnalysisResult {
	return s.engine.Analyze(ctx, text)
}

// AnalyzeEmail classifies an email, skipping analysis for whitelisted sender domains.
// Empty content is invalid whoever sent it.
func (s *GuardService) AnalyzeEmail(ctx context.Context, email *Email) *AnalysisResult {
	text := strings.TrimSpace(email.Text())
	if text != "" && s.whitelist.IsWhitelisted(email.From) {
		s.logger.Info("Skipping analysis for whitelisted domain",
			zap.String("sender", email.From),
			zap.String("action", "whitelist_bypass"))

		return &AnalysisResult{
			Classification: ClassificationLegitimate,
			Confidence:     1.0,
			Explanation:    whitelistExplanation,
			Features:       ExtractFeatures(text),
			Indicators:     IndicatorSet{},
			TextLength:     utf8.RuneCountInString(text),
		}
	}

	return s.engine.Analyze(ctx, email.Text())
}

// Scan analyzes the content of a request and records the result in the history
func (s *GuardService) Scan(ctx context.Context, req ScanRequest) (*ScanRecord, error) {
	result := s.engine.Analyze(ctx, req.Content)

	now := s.now()
	record := &ScanRecord{
		ID:             newScanID(now),
		Timestamp:      now,
		Classification: result.Classification,
		Confidence:     result.Confidence,
		Explanation:    result.Explanation,
		Features:       result.Features,
		Indicators:     result.Indicators,
		UserID:         req.UserID,
	}

	if s.historyEnabled {
		if err := s.history.Add(ctx, record); err != nil {
			return nil, fmt.Errorf("failed to store scan result: %w", err)
		}
	}

	s.logger.Info("Scanned content",
		zap.String("scan_id", record.ID),
		zap.String("classification", string(record.Classification)),
		zap.Float64("confidence", record.Confidence),
		zap.String("user_id", req.UserID))

	return record, nil
}

// History returns the last limit scans, optionally restricted to one user
func (s *GuardService) History(ctx context.Context, userID string, limit int) (*HistoryPage, error) {
	if !s.historyEnabled {
		return &HistoryPage{Scans: []*ScanRecord{}}, nil
	}

	scans, total, err := s.history.List(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list scan history: %w", err)
	}
	if scans == nil {
		scans = []*ScanRecord{}
	}

	return &HistoryPage{Scans: scans, TotalCount: total}, nil
}

// Stats aggregates the scan history
func (s *GuardService) Stats(ctx context.Context) (*ScanStats, error) {
	stats := &ScanStats{Classifications: make(map[Classification]int)}
	if !s.historyEnabled {
		return stats, nil
	}

	scans, err := s.history.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read scan history: %w", err)
	}
	if len(scans) == 0 {
		return stats, nil
	}

	cutoff := s.now().Add(-24 * time.Hour)
	totalConfidence := 0.0
	for _, scan := range scans {
		stats.Classifications[scan.Classification]++
		totalConfidence += scan.Confidence
		if scan.Timestamp.After(cutoff) {
			stats.RecentActivity.Last24Hours++
		}
	}

	stats.TotalScans = len(scans)
	stats.RecentActivity.AverageConfidence = totalConfidence / float64(len(scans))

	return stats, nil
}

// newScanID builds a sortable, unique scan identifier
func newScanID(now time.Time) string {
	return fmt.Sprintf("scan_%s_%s", now.Format("20060102_150405"), strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
