package model

import "time"

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one turn in a conversation. The ordered message sequence is
// resent in full as context on every new chat turn; there is no server-side
// conversation persistence.
type ChatMessage struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// NewMessage builds a timestamped message.
func NewMessage(role Role, text string) ChatMessage {
	return ChatMessage{Role: role, Text: text, Timestamp: time.Now().UTC()}
}
