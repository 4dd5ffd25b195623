package ports

import "github.com/mikey/email-guardian/internal/core"

// HistoryStore is a scan history with a background maintenance task
type HistoryStore interface {
	core.HistoryRepository

	// Stop ends the background cleanup
	Stop()
}
