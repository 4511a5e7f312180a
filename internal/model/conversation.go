package model

import "time"

type Conversation struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id,omitempty"`
	Title     string     `json:"title,omitempty"`
	IsVisible bool       `json:"is_visible"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}
