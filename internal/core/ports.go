package core

import (
	"context"
	"time"
)

// SentimentModel is a pretrained sentiment classifier.
// Implementations return the model's native label (POSITIVE or NEGATIVE) and its score.
type SentimentModel interface {
	// Predict classifies the sentiment of text
	Predict(ctx context.Context, text string) (*Sentiment, error)

	// Name identifies the model in logs
	Name() string
}

// Classifier maps text onto the engine's proxy classification
type Classifier interface {
	Classify(ctx context.Context, text string) ProxyResult
}

// HistoryRepository defines the interface for storing scan records
type HistoryRepository interface {
	// Add stores a scan record, evicting the oldest records past capacity
	Add(ctx context.Context, record *ScanRecord) error

	// List returns the last limit records (oldest first) for userID, or for
	// everyone when userID is empty, and the total number of matching records
	List(ctx context.Context, userID string, limit int) ([]*ScanRecord, int, error)

	// All returns every stored record, oldest first
	All(ctx context.Context) ([]*ScanRecord, error)

	// Cleanup removes records older than before
	Cleanup(ctx context.Context, before time.Time) error
}
