// Package session owns the live mapping between transport connections and
// participant identities, including identity creation on admission.
package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"talk-it/contract"
	"talk-it/domain"
)

// Registry maps connections to participants and back. Both directions are
// mutated together under one lock, so no reader can observe a connection
// without its participant or the reverse.
type Registry struct {
	mu    sync.RWMutex
	conns map[contract.Conn]string   // conn -> participant id
	users map[string]contract.Session // participant id -> session
	log   *slog.Logger
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		conns: make(map[contract.Conn]string),
		users: make(map[string]contract.Session),
		log:   log,
	}
}

// Add registers conn under a fresh anonymous identity and returns it.
// Admission is decided upstream; Add itself always succeeds and never
// returns a partial record.
func (r *Registry) Add(conn contract.Conn, ip string) *domain.Participant {
	p := &domain.Participant{
		ID:          uuid.NewString(),
		DisplayName: anonymousName(),
		IPAddress:   ip,
		MaskedIP:    MaskIP(ip),
		ConnectedAt: time.Now(),
	}

	r.mu.Lock()
	r.conns[conn] = p.ID
	r.users[p.ID] = contract.Session{Participant: p, Conn: conn}
	count := len(r.users)
	r.mu.Unlock()

	r.log.Info("Added session", "name", p.DisplayName, "id", p.ID, "connected", count)
	return p
}

// Remove drops both directions of the mapping and returns the removed
// participant. It is idempotent: removing an unknown connection reports
// ok=false and changes nothing.
func (r *Registry) Remove(conn contract.Conn) (*domain.Participant, bool) {
	r.mu.Lock()
	id, ok := r.conns[conn]
	if !ok {
		r.mu.Unlock()
		return nil, false
	}
	sess := r.users[id]
	delete(r.conns, conn)
	delete(r.users, id)
	count := len(r.users)
	r.mu.Unlock()

	r.log.Info("Removed session", "name", sess.Participant.DisplayName, "id", id, "connected", count)
	return sess.Participant, true
}

func (r *Registry) GetByConn(conn contract.Conn) (*domain.Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.conns[conn]
	if !ok {
		return nil, false
	}
	return r.users[id].Participant, true
}

func (r *Registry) GetByID(id string) (*domain.Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.users[id]
	if !ok {
		return nil, false
	}
	return sess.Participant, true
}

func (r *Registry) ConnByID(id string) (contract.Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.users[id]
	if !ok {
		return nil, false
	}
	return sess.Conn, true
}

// All returns a point-in-time copy, so callers iterating for broadcast are
// unaffected by concurrent joins and leaves.
func (r *Registry) All() []contract.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Values(r.users)
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}
