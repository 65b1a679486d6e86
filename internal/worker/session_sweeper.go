package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/gymflow/portal/internal/observability"
	"github.com/gymflow/portal/internal/session"
)

// StartSessionSweeper periodically drops idle in-memory sessions until ctx is done. It returns
// immediately when interval or idle is not positive.
func StartSessionSweeper(ctx context.Context, registry *session.Registry, interval, idle time.Duration, metrics *observability.Metrics, logger *zap.Logger) {
	if registry == nil || interval <= 0 || idle <= 0 {
		return
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				logger.Debug("session sweeper stopped")
				return
			case <-ticker.C:
				if removed := registry.Sweep(idle); removed > 0 {
					logger.Debug("session sweep", zap.Int("removed", removed))
				}
				metrics.SetActiveSessions(registry.Len())
			}
		}
	}()
}
