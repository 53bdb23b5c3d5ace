package security

import (
	"log/slog"
	"sync"
	"time"

	"talk-it/errors"
)

const slidingWindow = time.Minute

// RateLimiter bounds per-IP throughput for two independent action classes:
// new connections and chat messages. Each class keeps its own quota and its
// own per-address sliding window, so a chatty client can still reconnect and
// a reconnect storm doesn't eat the message budget.
type RateLimiter struct {
	log         *slog.Logger
	messages    *windowSet
	connections *windowSet
}

func NewRateLimiter(log *slog.Logger, messageQuota, connectQuota int) (*RateLimiter, error) {
	if messageQuota <= 0 || connectQuota <= 0 {
		return nil, errors.ErrNonPositiveQuota
	}
	log.Info("Rate limiter initialized",
		"messagesPerMinute", messageQuota, "connectionsPerMinute", connectQuota)
	return &RateLimiter{
		log:         log,
		messages:    newWindowSet(messageQuota),
		connections: newWindowSet(connectQuota),
	}, nil
}

// AllowMessage reports whether a message from ip fits the message quota.
// Unresolvable addresses bypass limiting: throttling "unknown" would punish
// misclassification rather than an abuser.
func (r *RateLimiter) AllowMessage(ip string) bool {
	if ip == "" || ip == "unknown" {
		return true
	}
	allowed := r.messages.tryConsume(ip, time.Now())
	if !allowed {
		r.log.Warn("Message rate limit exceeded", "ip", ip)
	}
	return allowed
}

// AllowConnection reports whether a new connection from ip fits the
// connect quota. Same bypass rule as AllowMessage.
func (r *RateLimiter) AllowConnection(ip string) bool {
	if ip == "" || ip == "unknown" {
		return true
	}
	allowed := r.connections.tryConsume(ip, time.Now())
	if !allowed {
		r.log.Warn("Connection rate limit exceeded", "ip", ip)
	}
	return allowed
}

// Sweep drops per-address windows whose last access is older than olderThan,
// for both action classes, keeping tracked state bounded to active addresses.
func (r *RateLimiter) Sweep(olderThan time.Duration) {
	threshold := time.Now().Add(-olderThan)
	remainingMessages := r.messages.sweep(threshold)
	remainingConnections := r.connections.sweep(threshold)
	r.log.Debug("Rate limiter sweep completed",
		"messageWindows", remainingMessages, "connectionWindows", remainingConnections)
}

// Stats reports how many addresses are currently tracked per class.
func (r *RateLimiter) Stats() (trackedMessageIPs, trackedConnectionIPs int) {
	return r.messages.size(), r.connections.size()
}

// windowSet holds one sliding window per source address for a single action
// class. The outer lock only guards the map; each window synchronizes itself,
// so traffic from one address never serializes another's.
type windowSet struct {
	mu      sync.RWMutex
	quota   int
	windows map[string]*window
}

func newWindowSet(quota int) *windowSet {
	return &windowSet{quota: quota, windows: make(map[string]*window)}
}

func (s *windowSet) tryConsume(ip string, now time.Time) bool {
	return s.get(ip, now).tryConsume(now, s.quota)
}

func (s *windowSet) get(ip string, now time.Time) *window {
	s.mu.RLock()
	w, ok := s.windows[ip]
	s.mu.RUnlock()
	if ok {
		return w
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if w, ok = s.windows[ip]; ok {
		return w
	}
	w = &window{timestamps: make([]time.Time, s.quota), lastAccess: now}
	s.windows[ip] = w
	return w
}

func (s *windowSet) sweep(threshold time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ip, w := range s.windows {
		if w.inactiveSince(threshold) {
			delete(s.windows, ip)
		}
	}
	return len(s.windows)
}

func (s *windowSet) size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.windows)
}

// window is a circular buffer of the quota's most recent event times plus a
// write cursor. Memory per address stays at exactly quota timestamps no
// matter how hot the source is. The scan ignores entries older than the
// sliding window, so stale slots never count against the caller; overwriting
// the oldest slot on a burst only ever undercounts expired events, never
// currently-valid ones.
type window struct {
	mu         sync.Mutex
	timestamps []time.Time
	cursor     int
	lastAccess time.Time
}

func (w *window) tryConsume(now time.Time, quota int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.lastAccess = now
	cutoff := now.Add(-slidingWindow)

	count := 0
	for _, ts := range w.timestamps {
		if ts.After(cutoff) {
			count++
		}
	}
	if count >= quota {
		return false
	}

	w.timestamps[w.cursor] = now
	w.cursor = (w.cursor + 1) % quota
	return true
}

func (w *window) inactiveSince(threshold time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastAccess.Before(threshold)
}
