package security

import (
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"

	"talk-it/errors"
)

func testLogger() *slog.Logger {
	return logs.GetLoggerFromLevel(slog.LevelDebug)
}

func TestWindowSet_QuotaOverSlidingWindow(t *testing.T) {
	req := require.New(t)
	quota := 3
	ws := newWindowSet(quota)
	ip := "203.0.113.77"
	now := time.Now()

	// Given a fresh address, the first Q attempts within the window pass
	for i := 0; i < quota; i++ {
		req.True(ws.tryConsume(ip, now.Add(time.Duration(i)*time.Second)))
	}

	// When the (Q+1)-th attempt arrives inside the same window
	// Then it is denied
	req.False(ws.tryConsume(ip, now.Add(3*time.Second)))

	// When the window has slid past the earliest events
	// Then attempts pass again
	req.True(ws.tryConsume(ip, now.Add(61*time.Second)))
}

func TestWindowSet_AddressesDoNotShareQuota(t *testing.T) {
	req := require.New(t)
	ws := newWindowSet(1)
	now := time.Now()

	req.True(ws.tryConsume("198.51.100.1", now))
	req.False(ws.tryConsume("198.51.100.1", now))

	// A different address has its own window
	req.True(ws.tryConsume("198.51.100.2", now))
}

func TestRateLimiter_UnknownAddressBypass(t *testing.T) {
	req := require.New(t)
	limiter, err := NewRateLimiter(testLogger(), 1, 1)
	req.NoError(err)

	// Unidentifiable sources are never limited
	for i := 0; i < 5; i++ {
		req.True(limiter.AllowMessage(""))
		req.True(limiter.AllowMessage("unknown"))
		req.True(limiter.AllowConnection("unknown"))
	}

	// A real address still hits its quota
	req.True(limiter.AllowMessage("192.0.2.1"))
	req.False(limiter.AllowMessage("192.0.2.1"))
}

func TestRateLimiter_IndependentActionClasses(t *testing.T) {
	req := require.New(t)
	limiter, err := NewRateLimiter(testLogger(), 1, 1)
	req.NoError(err)
	ip := "192.0.2.7"

	// Consuming the message quota leaves the connect quota untouched
	req.True(limiter.AllowMessage(ip))
	req.True(limiter.AllowConnection(ip))
	req.False(limiter.AllowMessage(ip))
	req.False(limiter.AllowConnection(ip))
}

func TestRateLimiter_SweepDropsIdleWindows(t *testing.T) {
	req := require.New(t)
	limiter, err := NewRateLimiter(testLogger(), 5, 5)
	req.NoError(err)

	// Given one address idle for 20 minutes and one active address
	stale := time.Now().Add(-20 * time.Minute)
	limiter.messages.tryConsume("192.0.2.10", stale)
	limiter.connections.tryConsume("192.0.2.11", stale)
	limiter.messages.tryConsume("192.0.2.12", time.Now())

	// When sweeping with the 10 minute staleness threshold
	limiter.Sweep(10 * time.Minute)

	// Then only the active window remains
	trackedMessages, trackedConnections := limiter.Stats()
	req.Equal(1, trackedMessages)
	req.Equal(0, trackedConnections)
}

func TestNewRateLimiter_RejectsNonPositiveQuota(t *testing.T) {
	req := require.New(t)

	_, err := NewRateLimiter(testLogger(), 0, 10)
	req.ErrorIs(err, errors.ErrNonPositiveQuota)

	_, err = NewRateLimiter(testLogger(), 10, -1)
	req.ErrorIs(err, errors.ErrNonPositiveQuota)
}
