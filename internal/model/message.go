package model

import "time"

const (
	RoleUser = "user"
	// RoleAI matches the role value already present in the store's rows.
	RoleAI = "ai"
)

type Message struct {
	ID             int64      `json:"id,omitempty"`
	ConversationID string     `json:"conversation_id"`
	Role           string     `json:"role"`
	Content        string     `json:"content"`
	CreatedAt      *time.Time `json:"created_at,omitempty"`
}
