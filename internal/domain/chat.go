package domain

import "time"

// Role tags a chat message author.
type Role string

// Chat roles understood by the completion API.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a role-tagged prompt message sent to the completion API.
// Messages are passed through in the order given; no ordering validation
// beyond non-emptiness is enforced.
type Message struct {
	Role    Role
	Content string
}

// Completion is a generated reply: the extracted top-choice text plus the raw
// payload kept for diagnostic fallback.
type Completion struct {
	Content string
	Raw     string
}

// ChatSession is a persisted conversation.
type ChatSession struct {
	ID        string    `json:"id"`
	Title     string    `json:"title,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatTurn is one persisted message within a session, ordered by creation
// time. Metadata carries error tags on failed assistant turns.
type ChatTurn struct {
	ID        string         `json:"id"`
	Role      Role           `json:"role"`
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
