package workers

import (
	"context"
	"log/slog"
	"time"

	"talk-it/contract"
)

// staleAfter is how long an address may stay idle before its rate-limit
// windows are dropped.
const staleAfter = 10 * time.Minute

// CleanupWorker periodically sweeps idle rate-limiter windows so tracked
// state stays bounded to recently active addresses.
type CleanupWorker struct {
	log      *slog.Logger
	limiter  contract.IRateLimiter
	interval time.Duration
}

func NewCleanupWorker(log *slog.Logger, limiter contract.IRateLimiter, interval time.Duration) *CleanupWorker {
	return &CleanupWorker{log: log, limiter: limiter, interval: interval}
}

func (w *CleanupWorker) Run(ctx context.Context) error {
	w.log.Info("Starting rate limiter cleanup worker", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.limiter.Sweep(staleAfter)
		}
	}
}
