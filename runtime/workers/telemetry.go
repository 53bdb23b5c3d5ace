package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"

	"talk-it/contract"
	"talk-it/security"
)

// TelemetryWorker logs process health (RSS, CPU) together with chat gauges
// (participants, history length, tracked rate-limit addresses) at a fixed
// interval.
type TelemetryWorker struct {
	log      *slog.Logger
	registry contract.ISessionRegistry
	store    contract.IMessageStore
	limiter  *security.RateLimiter
	interval time.Duration
}

func NewTelemetryWorker(log *slog.Logger, registry contract.ISessionRegistry,
	store contract.IMessageStore, limiter *security.RateLimiter, interval time.Duration) *TelemetryWorker {
	return &TelemetryWorker{log: log, registry: registry, store: store, limiter: limiter, interval: interval}
}

func (w *TelemetryWorker) Run(ctx context.Context) error {
	w.log.Info("Starting telemetry worker", "interval", w.interval)

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			rss, cpu, err := selfStats(p)
			if err != nil {
				w.log.Error("Failed to collect self stats", "err", err)
				continue
			}
			trackedMsg, trackedConn := w.limiter.Stats()
			w.log.Info("Service stats",
				"rssBytes", rss,
				"cpuPercent", cpu,
				"participants", w.registry.Count(),
				"historyLength", w.store.Len(),
				"trackedMessageIPs", trackedMsg,
				"trackedConnectionIPs", trackedConn,
			)
		}
	}
}

func selfStats(p *process.Process) (uint64, float64, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, err
	}
	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, err
	}
	return memInfo.RSS, cpuPercent, nil
}
