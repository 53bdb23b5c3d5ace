package workers

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

type countingLimiter struct {
	mu        sync.Mutex
	sweeps    int
	olderThan time.Duration
}

func (l *countingLimiter) AllowConnection(string) bool { return true }

func (l *countingLimiter) AllowMessage(string) bool { return true }

func (l *countingLimiter) Sweep(olderThan time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sweeps++
	l.olderThan = olderThan
}

func (l *countingLimiter) stats() (int, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sweeps, l.olderThan
}

func testLogger() *slog.Logger {
	return logs.GetLoggerFromLevel(slog.LevelDebug)
}

func TestCleanupWorker_SweepsOnEveryTick(t *testing.T) {
	req := require.New(t)
	limiter := &countingLimiter{}
	worker := NewCleanupWorker(testLogger(), limiter, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	// When the worker runs until its context expires
	err := worker.Run(ctx)

	// Then it stopped for the right reason and swept at least once
	req.ErrorIs(err, context.DeadlineExceeded)
	sweeps, olderThan := limiter.stats()
	req.GreaterOrEqual(sweeps, 1)
	req.Equal(staleAfter, olderThan)
}

func TestCleanupWorker_StopsWithoutTicking(t *testing.T) {
	req := require.New(t)
	limiter := &countingLimiter{}
	worker := NewCleanupWorker(testLogger(), limiter, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := worker.Run(ctx)

	req.ErrorIs(err, context.Canceled)
	sweeps, _ := limiter.stats()
	req.Equal(0, sweeps)
}
