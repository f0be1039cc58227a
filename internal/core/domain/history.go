package domain

import "time"

// Role identifies the author of a chat history message.
type Role string

// Message roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// HistoryMessage is one entry in a client's local chat history.
// The server never stores these; clients persist them on their side.
type HistoryMessage struct {
	// ID is the unique message identifier.
	ID string `json:"id"`

	// Role is who wrote the message.
	Role Role `json:"role"`

	// Content is the message text.
	Content string `json:"content"`

	// Sources are the citations attached to an assistant answer.
	Sources []Source `json:"sources,omitempty"`

	// Timestamp is when the message was recorded.
	Timestamp time.Time `json:"timestamp"`
}
