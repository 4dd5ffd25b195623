package history

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// cleanupTask periodically prunes records older than the retention window
type cleanupTask struct {
	retention   time.Duration
	cleanupFreq time.Duration
	logger      *zap.Logger
	stopCh      chan struct{}
	stopOnce    sync.Once
}

func newCleanupTask(retention, cleanupFreq time.Duration, logger *zap.Logger) *cleanupTask {
	return &cleanupTask{
		retention:   retention,
		cleanupFreq: cleanupFreq,
		logger:      logger,
		stopCh:      make(chan struct{}),
	}
}

// start runs cleanup in the background until stop is called.
// Nothing is started unless both the retention and the frequency are positive.
func (t *cleanupTask) start(cleanup func(ctx context.Context, before time.Time) error) {
	if t.retention <= 0 || t.cleanupFreq <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(t.cleanupFreq)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := cleanup(context.Background(), time.Now().Add(-t.retention)); err != nil {
					t.logger.Error("Failed to clean up scan history", zap.Error(err))
				}
			case <-t.stopCh:
				return
			}
		}
	}()
}

func (t *cleanupTask) stop() {
	t.stopOnce.Do(func() {
		close(t.stopCh)
	})
}
