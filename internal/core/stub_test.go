package core

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/mikey/email-guardian/internal/utils"
	"go.uber.org/zap"
)

// stubModel is a SentimentModel returning a fixed answer
type stubModel struct {
	mu        sync.Mutex
	sentiment *Sentiment
	err       error
	calls     int
	lastInput string
}

func (m *stubModel) Predict(_ context.Context, text string) (*Sentiment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastInput = text
	if m.err != nil {
		return nil, m.err
	}
	return m.sentiment, nil
}

func (m *stubModel) Name() string {
	return "stub"
}

func newStubEngine(label string, score float64) (*Engine, *stubModel) {
	model := &stubModel{sentiment: &Sentiment{Label: label, Score: score}}
	return newEngineWithModel(model), model
}

func newFailingEngine() (*Engine, *stubModel) {
	model := &stubModel{err: errors.New("inference failed")}
	return newEngineWithModel(model), model
}

func newEngineWithModel(model SentimentModel) *Engine {
	logger := zap.NewNop()
	adapter := NewSentimentAdapter(model, DefaultMaxInputChars, logger, utils.NewTextProcessor(logger))
	return NewEngine(adapter, logger)
}

// fakeHistory is an unbounded in-memory HistoryRepository
type fakeHistory struct {
	records []*ScanRecord
	err     error
}

func (h *fakeHistory) Add(_ context.Context, record *ScanRecord) error {
	if h.err != nil {
		return h.err
	}
	h.records = append(h.records, record)
	return nil
}

func (h *fakeHistory) List(_ context.Context, userID string, limit int) ([]*ScanRecord, int, error) {
	if h.err != nil {
		return nil, 0, h.err
	}
	var filtered []*ScanRecord
	for _, r := range h.records {
		if userID == "" || r.UserID == userID {
			filtered = append(filtered, r)
		}
	}
	total := len(filtered)
	if limit > 0 && len(filtered) > limit {
		filtered = filtered[len(filtered)-limit:]
	}
	return filtered, total, nil
}

func (h *fakeHistory) All(_ context.Context) ([]*ScanRecord, error) {
	if h.err != nil {
		return nil, h.err
	}
	all := append([]*ScanRecord(nil), h.records...)
	sort.SliceStable(all, func(i, j int) bool { return all[i].Timestamp.Before(all[j].Timestamp) })
	return all, nil
}

func (h *fakeHistory) Cleanup(_ context.Context, before time.Time) error {
	kept := h.records[:0]
	for _, r := range h.records {
		if !r.Timestamp.Before(before) {
			kept = append(kept, r)
		}
	}
	h.records = kept
	return nil
}
