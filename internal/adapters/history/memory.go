package history

import (
	"context"
	"sync"
	"time"

	"github.com/mikey/email-guardian/internal/core"
	"go.uber.org/zap"
)

// MemoryHistory is an in-memory implementation of the HistoryRepository interface
type MemoryHistory struct {
	records    []*core.ScanRecord
	mu         sync.RWMutex
	maxEntries int
	logger     *zap.Logger
	cleanup    *cleanupTask
}

// NewMemoryHistory creates a new in-memory scan history.
// maxEntries <= 0 keeps every record.
func NewMemoryHistory(logger *zap.Logger, maxEntries int, retention, cleanupFreq time.Duration) *MemoryHistory {
	h := &MemoryHistory{
		maxEntries: maxEntries,
		logger:     logger,
		cleanup:    newCleanupTask(retention, cleanupFreq, logger),
	}

	h.cleanup.start(h.Cleanup)

	return h
}

// Add appends a record, evicting the oldest ones beyond maxEntries
func (h *MemoryHistory) Add(ctx context.Context, record *core.ScanRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.records = append(h.records, record)
	if h.maxEntries > 0 && len(h.records) > h.maxEntries {
		evicted := len(h.records) - h.maxEntries
		h.records = append([]*core.ScanRecord(nil), h.records[evicted:]...)
	}

	return nil
}

// List returns the last limit records for userID (all users when empty) and the filtered total
func (h *MemoryHistory) List(ctx context.Context, userID string, limit int) ([]*core.ScanRecord, int, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	filtered := make([]*core.ScanRecord, 0, len(h.records))
	for _, record := range h.records {
		if userID == "" || record.UserID == userID {
			filtered = append(filtered, record)
		}
	}

	total := len(filtered)
	if limit > 0 && total > limit {
		filtered = filtered[total-limit:]
	}

	return filtered, total, nil
}

// All returns every stored record in insertion order
func (h *MemoryHistory) All(ctx context.Context) ([]*core.ScanRecord, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return append([]*core.ScanRecord(nil), h.records...), nil
}

// Cleanup removes records older than before
func (h *MemoryHistory) Cleanup(ctx context.Context, before time.Time) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	kept := make([]*core.ScanRecord, 0, len(h.records))
	for _, record := range h.records {
		if !record.Timestamp.Before(before) {
			kept = append(kept, record)
		}
	}

	h.logger.Debug("Cleaned up expired scan history", zap.Int("expired_count", len(h.records)-len(kept)))
	h.records = kept
	return nil
}

// Stop stops the background cleanup task
func (h *MemoryHistory) Stop() {
	h.cleanup.stop()
}
