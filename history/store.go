// Package history keeps the bounded in-memory record of recent chat
// messages. It is the only message persistence this service has.
package history

import (
	"sync"

	"talk-it/domain"
	"talk-it/errors"
)

// DefaultCapacity is the number of records kept before the oldest is evicted.
const DefaultCapacity = 100

// Store is a FIFO of chat records bounded at capacity. Appending beyond
// capacity evicts exactly one record from the head, so the length never
// exceeds the bound. Readers always get copies, never the live slice.
type Store struct {
	mu       sync.RWMutex
	records  []domain.Message
	capacity int
}

func NewStore(capacity int) (*Store, error) {
	if capacity <= 0 {
		return nil, errors.ErrNonPositiveBound
	}
	return &Store{capacity: capacity}, nil
}

// Append adds msg at the tail, evicting the head record when the bound is
// crossed. One append adds one record, so one eviction is always enough.
func (s *Store) Append(msg domain.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, msg)
	if len(s.records) > s.capacity {
		s.records = s.records[1:]
	}
}

// Recent returns the last min(n, length) records in chronological order.
func (s *Store) Recent(n int) []domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n > len(s.records) {
		n = len(s.records)
	}
	if n <= 0 {
		return nil
	}
	out := make([]domain.Message, n)
	copy(out, s.records[len(s.records)-n:])
	return out
}

// All returns a copy of the full history.
func (s *Store) All() []domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Message, len(s.records))
	copy(out, s.records)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Clear empties the store. Administrative operation.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
}
