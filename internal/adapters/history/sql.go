package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mikey/email-guardian/internal/core"
	"go.uber.org/zap"
)

// SQLHistory is a database/sql implementation of the HistoryRepository interface.
// The SQLite and MySQL constructors differ only in schema and trim statement.
type SQLHistory struct {
	db         *sql.DB
	driver     string
	trimQuery  string
	maxEntries int
	logger     *zap.Logger
	cleanup    *cleanupTask
}

func newSQLHistory(
	db *sql.DB,
	driver string,
	trimQuery string,
	logger *zap.Logger,
	maxEntries int,
	retention time.Duration,
	cleanupFreq time.Duration,
) *SQLHistory {
	h := &SQLHistory{
		db:         db,
		driver:     driver,
		trimQuery:  trimQuery,
		maxEntries: maxEntries,
		logger:     logger,
		cleanup:    newCleanupTask(retention, cleanupFreq, logger),
	}

	h.cleanup.start(h.Cleanup)

	return h
}

// Add stores a record, evicting the oldest ones beyond maxEntries
func (h *SQLHistory) Add(ctx context.Context, record *core.ScanRecord) error {
	features, err := json.Marshal(record.Features)
	if err != nil {
		return fmt.Errorf("failed to encode features: %w", err)
	}
	indicators, err := json.Marshal(record.Indicators)
	if err != nil {
		return fmt.Errorf("failed to encode indicators: %w", err)
	}

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO scan_history (id, created_at, classification, confidence, explanation, features, indicators, user_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, record.ID, record.Timestamp.UnixNano(), string(record.Classification), record.Confidence,
		record.Explanation, string(features), string(indicators), record.UserID)
	if err != nil {
		return fmt.Errorf("failed to insert scan record: %w", err)
	}

	if h.maxEntries > 0 {
		if _, err := h.db.ExecContext(ctx, h.trimQuery, h.maxEntries); err != nil {
			return fmt.Errorf("failed to trim scan history: %w", err)
		}
	}

	return nil
}

// List returns the last limit records for userID (all users when empty) and the filtered total
func (h *SQLHistory) List(ctx context.Context, userID string, limit int) ([]*core.ScanRecord, int, error) {
	var total int
	if err := h.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM scan_history WHERE ? = '' OR user_id = ?
	`, userID, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count scan records: %w", err)
	}

	if limit <= 0 || limit > total {
		limit = total
	}

	rows, err := h.db.QueryContext(ctx, `
		SELECT id, created_at, classification, confidence, explanation, features, indicators, user_id
		FROM scan_history
		WHERE ? = '' OR user_id = ?
		ORDER BY seq DESC
		LIMIT ?
	`, userID, userID, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query scan records: %w", err)
	}

	records, err := scanRecords(rows)
	if err != nil {
		return nil, 0, err
	}

	// newest first from the query, chronological for callers
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}

	return records, total, nil
}

// All returns every stored record in insertion order
func (h *SQLHistory) All(ctx context.Context) ([]*core.ScanRecord, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT id, created_at, classification, confidence, explanation, features, indicators, user_id
		FROM scan_history
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query scan records: %w", err)
	}

	return scanRecords(rows)
}

// Cleanup removes records older than before
func (h *SQLHistory) Cleanup(ctx context.Context, before time.Time) error {
	result, err := h.db.ExecContext(ctx, `
		DELETE FROM scan_history
		WHERE created_at < ?
	`, before.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to clean up expired scan records: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		h.logger.Warn("Failed to get rows affected during cleanup", zap.Error(err))
	} else {
		h.logger.Debug("Cleaned up expired scan history",
			zap.String("driver", h.driver),
			zap.Int64("expired_count", rowsAffected))
	}

	return nil
}

// Stop stops the background cleanup task and closes the database connection
func (h *SQLHistory) Stop() {
	h.cleanup.stop()
	if err := h.db.Close(); err != nil {
		h.logger.Error("Failed to close history database", zap.String("driver", h.driver), zap.Error(err))
	}
}

func scanRecords(rows *sql.Rows) ([]*core.ScanRecord, error) {
	defer rows.Close()

	records := []*core.ScanRecord{}
	for rows.Next() {
		var (
			record         core.ScanRecord
			createdAt      int64
			classification string
			features       string
			indicators     string
		)
		if err := rows.Scan(&record.ID, &createdAt, &classification, &record.Confidence,
			&record.Explanation, &features, &indicators, &record.UserID); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}

		record.Timestamp = time.Unix(0, createdAt)
		record.Classification = core.Classification(classification)
		if err := json.Unmarshal([]byte(features), &record.Features); err != nil {
			return nil, fmt.Errorf("failed to decode features of %s: %w", record.ID, err)
		}
		if err := json.Unmarshal([]byte(indicators), &record.Indicators); err != nil {
			return nil, fmt.Errorf("failed to decode indicators of %s: %w", record.ID, err)
		}
		if record.Indicators == nil {
			record.Indicators = core.IndicatorSet{}
		}

		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scan records: %w", err)
	}
	return records, nil
}
