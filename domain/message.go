// Package domain contains core concepts of the chat system.
// This file defines Message events and related rules.
// Messages are immutable once created.
package domain

import (
	"fmt"
	"sync/atomic"
	"time"
)

// SystemSender is the display name used for synthesized join/leave/system
// announcements.
const SystemSender = "SYSTEM"

// MessageKind tags a Message. Serialization to the wire labels happens in
// the wire package, which switches exhaustively over these values.
type MessageKind int

const (
	KindJoin MessageKind = iota
	KindChat
	KindLeave
	KindSystem
)

func (k MessageKind) String() string {
	switch k {
	case KindJoin:
		return "JOIN"
	case KindChat:
		return "CHAT"
	case KindLeave:
		return "LEAVE"
	case KindSystem:
		return "SYSTEM"
	}
	return fmt.Sprintf("MessageKind(%d)", int(k))
}

// Message represents an immutable chat event.
type Message struct {
	ID         string
	SenderID   string
	SenderName string
	Content    string
	Kind       MessageKind
	CreatedAt  time.Time
}

var messageCounter atomic.Int64

// NewMessageID builds a message id from the wall clock plus a process-wide
// counter, so two messages created in the same millisecond still get
// distinct ids.
func NewMessageID() string {
	return fmt.Sprintf("%d_%d", time.Now().UnixMilli(), messageCounter.Add(1))
}
