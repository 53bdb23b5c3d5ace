// Package room orchestrates join, leave, and chat flows for the single
// implicit room: validating, timestamping, storing, and fanning out records
// with best-effort delivery.
package room

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"

	"talk-it/contract"
	"talk-it/domain"
	"talk-it/moderation"
	"talk-it/wire"
)

// backfillSize is how many stored records a newcomer receives on join.
const backfillSize = 50

type Coordinator struct {
	log       *slog.Logger
	registry  contract.ISessionRegistry
	store     contract.IMessageStore
	validator *moderation.Validator
}

func NewCoordinator(log *slog.Logger, registry contract.ISessionRegistry,
	store contract.IMessageStore, validator *moderation.Validator) *Coordinator {
	return &Coordinator{log: log, registry: registry, store: store, validator: validator}
}

// OnJoin announces the participant to the room, then backfills recent
// history to them. The join record reaches the newcomer through the general
// broadcast (they are registered by now); the backfill deliberately excludes
// that record so they do not see it twice.
func (c *Coordinator) OnJoin(p *domain.Participant) {
	join := domain.Message{
		ID:         domain.NewMessageID(),
		SenderID:   p.ID,
		SenderName: domain.SystemSender,
		Content:    fmt.Sprintf("%s (%s) has joined the chat.", p.DisplayName, p.MaskedIP),
		Kind:       domain.KindJoin,
		CreatedAt:  time.Now(),
	}
	c.store.Append(join)
	c.Broadcast(join)
	c.backfill(p, join.ID)
}

// OnLeave announces the departure to the remaining participants. The caller
// guarantees at-most-once invocation per disconnect.
func (c *Coordinator) OnLeave(p *domain.Participant) {
	leave := domain.Message{
		ID:         domain.NewMessageID(),
		SenderID:   p.ID,
		SenderName: domain.SystemSender,
		Content:    fmt.Sprintf("%s (%s) has left the chat.", p.DisplayName, p.MaskedIP),
		Kind:       domain.KindLeave,
		CreatedAt:  time.Now(),
	}
	c.store.Append(leave)
	c.Broadcast(leave)
}

// OnMessage validates, sanitizes, stores, and broadcasts a chat message.
// A rejection mutates nothing: no record is stored and nothing is sent.
func (c *Coordinator) OnMessage(p *domain.Participant, raw string) domain.Result[domain.Message] {
	if err := c.validator.Check(raw); err != nil {
		c.log.Warn("Rejected message", "from", p.DisplayName, "reason", err)
		return domain.Err[domain.Message](domain.ErrInvalidMessage, err.Error())
	}

	msg := domain.Message{
		ID:         domain.NewMessageID(),
		SenderID:   p.ID,
		SenderName: p.DisplayName,
		Content:    moderation.Sanitize(strings.TrimSpace(raw)),
		Kind:       domain.KindChat,
		CreatedAt:  time.Now(),
	}
	c.store.Append(msg)
	c.Broadcast(msg)
	return domain.Ok(msg)
}

// Broadcast serializes msg once and pushes it to every current session.
// A recipient that fails to receive (closed mid-flight, unreachable) is
// logged and skipped; the failure neither aborts the remaining sends nor
// rolls back the store. Returns how many recipients were reached.
func (c *Coordinator) Broadcast(msg domain.Message) int {
	payload, err := wire.EncodeMessage(msg)
	if err != nil {
		c.log.Error("Failed to encode message", "id", msg.ID, "error", err)
		return 0
	}

	delivered := 0
	for _, sess := range c.registry.All() {
		if err := sess.Conn.Send(payload); err != nil {
			c.log.Error("Failed to deliver message",
				"to", sess.Participant.DisplayName, "id", msg.ID, "error", err)
			continue
		}
		delivered++
	}

	c.log.Info("Broadcast", "kind", msg.Kind, "from", msg.SenderName, "delivered", delivered)
	return delivered
}

// backfill sends the newest stored records to one participant, skipping
// excludeID (the record they just received via broadcast). A send failure
// stops the backfill for this participant only.
func (c *Coordinator) backfill(p *domain.Participant, excludeID string) {
	conn, ok := c.registry.ConnByID(p.ID)
	if !ok {
		// Left before the backfill was attempted.
		return
	}

	recent := c.store.Recent(backfillSize + 1)
	recent = lo.Filter(recent, func(m domain.Message, _ int) bool {
		return m.ID != excludeID
	})
	if len(recent) > backfillSize {
		recent = recent[len(recent)-backfillSize:]
	}

	for _, m := range recent {
		payload, err := wire.EncodeMessage(m)
		if err != nil {
			c.log.Error("Failed to encode backfill message", "id", m.ID, "error", err)
			continue
		}
		if err := conn.Send(payload); err != nil {
			c.log.Error("Failed to backfill", "to", p.DisplayName, "error", err)
			return
		}
	}
}
