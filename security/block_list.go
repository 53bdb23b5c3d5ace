package security

import (
	"log/slog"
	"sync"

	"github.com/samber/lo"
)

// BlockList is a concurrent set of banned source addresses consulted on
// every connection attempt.
type BlockList struct {
	mu  sync.RWMutex
	ips map[string]struct{}
	log *slog.Logger
}

func NewBlockList(log *slog.Logger) *BlockList {
	return &BlockList{ips: make(map[string]struct{}), log: log}
}

// Block adds ip to the set. Empty and "unknown" addresses are ignored:
// blocking an unidentifiable source would block nothing in particular.
func (b *BlockList) Block(ip string) {
	if ip == "" || ip == "unknown" {
		return
	}
	b.mu.Lock()
	b.ips[ip] = struct{}{}
	b.mu.Unlock()
	b.log.Warn("Blocked IP address", "ip", ip)
}

func (b *BlockList) Unblock(ip string) {
	b.mu.Lock()
	_, present := b.ips[ip]
	delete(b.ips, ip)
	b.mu.Unlock()
	if present {
		b.log.Info("Unblocked IP address", "ip", ip)
	}
}

func (b *BlockList) IsBlocked(ip string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, blocked := b.ips[ip]
	return blocked
}

// Snapshot returns a copy of the currently blocked addresses.
func (b *BlockList) Snapshot() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return lo.Keys(b.ips)
}
