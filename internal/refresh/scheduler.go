package refresh

import (
	"context"
	"log/slog"
	"time"
)

// Scheduler runs full refreshes on a periodic interval, repairing any drift
// the incremental path may have accumulated.
// It is stateless: each tick independently runs one complete refresh.
type Scheduler struct {
	interval     time.Duration
	orchestrator *Orchestrator
}

// NewScheduler creates a periodic refresh scheduler.
func NewScheduler(interval time.Duration, orchestrator *Orchestrator) *Scheduler {
	return &Scheduler{
		interval:     interval,
		orchestrator: orchestrator,
	}
}

// Start begins periodic refreshing. Runs until context is cancelled.
// Unlike the HTTP path, a failed scheduled refresh is logged and retried on
// the next tick rather than surfaced.
func (s *Scheduler) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("[Scheduler] Starting periodic refresh scheduler", "interval", s.interval)

	for {
		select {
		case <-ticker.C:
			if _, err := s.orchestrator.Refresh(ctx); err != nil {
				slog.Error("[Scheduler] Scheduled refresh failed",
					"error", err,
					"note", "will retry on next tick")
			}
		case <-ctx.Done():
			slog.Info("[Scheduler] Stopping (context cancelled)")
			return nil
		}
	}
}
