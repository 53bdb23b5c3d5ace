// Package domain contains core concepts of the chat system.
// This file defines Participant entities and related invariants.
// No runtime, network, or UI logic should be added here.
package domain

import "time"

// Participant represents an active, registered chat connection identity.
// Instances are created by the session registry on successful admission and
// destroyed on disconnect; the registry is their only owner.
type Participant struct {
	ID          string
	DisplayName string
	IPAddress   string
	MaskedIP    string
	ConnectedAt time.Time
}
