// Package wire defines the JSON payloads exchanged with clients. Field
// names are part of the client protocol and must stay stable.
package wire

import (
	"encoding/json"
	"time"

	"github.com/samber/lo"

	"talk-it/contract"
	"talk-it/domain"
)

const userListType = "USER_LIST"

// userListRequestType is what clients send to ask for a presence snapshot.
const userListRequestType = "REQUEST_USERS"

type messagePayload struct {
	Type      string `json:"type"`
	MessageID string `json:"messageId"`
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

// kindLabel is the serialization boundary for the message kind; the switch
// is exhaustive over domain.MessageKind.
func kindLabel(k domain.MessageKind) string {
	switch k {
	case domain.KindJoin:
		return "JOIN"
	case domain.KindChat:
		return "CHAT"
	case domain.KindLeave:
		return "LEAVE"
	case domain.KindSystem:
		return "SYSTEM"
	}
	return "SYSTEM"
}

// EncodeMessage serializes a chat record for delivery.
func EncodeMessage(m domain.Message) ([]byte, error) {
	return json.Marshal(messagePayload{
		Type:      kindLabel(m.Kind),
		MessageID: m.ID,
		UserID:    m.SenderID,
		Username:  m.SenderName,
		Content:   m.Content,
		Timestamp: m.CreatedAt.UnixMilli(),
	})
}

type userInfo struct {
	UserID          string `json:"userId"`
	Username        string `json:"username"`
	MaskedIP        string `json:"maskedIp"`
	ConnectedAt     int64  `json:"connectedAt"`
	IsAuthenticated bool   `json:"isAuthenticated"`
}

type userListPayload struct {
	Type       string     `json:"type"`
	Users      []userInfo `json:"users"`
	TotalCount int        `json:"totalCount"`
	Timestamp  int64      `json:"timestamp"`
}

// EncodeUserList builds the presence snapshot from a registry snapshot.
func EncodeUserList(sessions []contract.Session) ([]byte, error) {
	users := lo.Map(sessions, func(s contract.Session, _ int) userInfo {
		return userInfo{
			UserID:      s.Participant.ID,
			Username:    s.Participant.DisplayName,
			MaskedIP:    s.Participant.MaskedIP,
			ConnectedAt: s.Participant.ConnectedAt.UnixMilli(),
			// Anonymous-only service; the field stays for protocol compatibility.
			IsAuthenticated: false,
		}
	})
	return json.Marshal(userListPayload{
		Type:       userListType,
		Users:      users,
		TotalCount: len(users),
		Timestamp:  time.Now().UnixMilli(),
	})
}

// Inbound is a parsed client frame: either a chat message or a presence
// snapshot request.
type Inbound struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

func (m Inbound) IsUserListRequest() bool {
	return m.Type == userListRequestType
}

// DecodeInbound parses a raw client frame.
func DecodeInbound(data []byte) (Inbound, error) {
	var in Inbound
	if err := json.Unmarshal(data, &in); err != nil {
		return Inbound{}, err
	}
	return in, nil
}
