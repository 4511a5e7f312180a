package store

import (
	"context"
	"fmt"

	"chatrelay/internal/model"
)

type MessageStore struct {
	client *Client
}

func NewMessageStore(client *Client) *MessageStore {
	return &MessageStore{client: client}
}

func (s *MessageStore) Insert(ctx context.Context, msg model.Message) error {
	payload := map[string]interface{}{
		"conversation_id": msg.ConversationID,
		"role":            msg.Role,
		"content":         msg.Content,
	}
	if err := s.client.Insert(ctx, "messages", payload); err != nil {
		return fmt.Errorf("create message failed: %w", err)
	}
	return nil
}

func (s *MessageStore) ListByConversation(ctx context.Context, conversationID string) ([]model.Message, error) {
	var messages []model.Message
	filters := []Filter{Eq("conversation_id", conversationID)}
	if err := s.client.Select(ctx, "messages", "", filters, &messages); err != nil {
		return nil, fmt.Errorf("list messages failed: %w", err)
	}
	return messages, nil
}

func (s *MessageStore) DeleteByConversation(ctx context.Context, conversationID string) error {
	filters := []Filter{Eq("conversation_id", conversationID)}
	if err := s.client.Delete(ctx, "messages", filters); err != nil {
		return fmt.Errorf("delete messages failed: %w", err)
	}
	return nil
}
