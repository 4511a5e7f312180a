package store

import (
	"context"
	"fmt"

	"chatrelay/internal/model"
)

type ConversationStore struct {
	client *Client
}

func NewConversationStore(client *Client) *ConversationStore {
	return &ConversationStore{client: client}
}

// Insert creates a hidden conversation row; the title stays unset until
// the first message generates one.
func (s *ConversationStore) Insert(ctx context.Context, conv model.Conversation) error {
	payload := map[string]interface{}{
		"id":         conv.ID,
		"user_id":    conv.UserID,
		"is_visible": conv.IsVisible,
	}
	if err := s.client.Insert(ctx, "conversations", payload); err != nil {
		return fmt.Errorf("create conversation failed: %w", err)
	}
	return nil
}

func (s *ConversationStore) ListVisibleByUser(ctx context.Context, userID string) ([]model.Conversation, error) {
	var conversations []model.Conversation
	filters := []Filter{Eq("user_id", userID), Eq("is_visible", "true")}
	if err := s.client.Select(ctx, "conversations", "*", filters, &conversations); err != nil {
		return nil, fmt.Errorf("list conversations failed: %w", err)
	}
	return conversations, nil
}

func (s *ConversationStore) GetByID(ctx context.Context, id string) (*model.Conversation, error) {
	var conversations []model.Conversation
	if err := s.client.Select(ctx, "conversations", "id,title", []Filter{Eq("id", id)}, &conversations); err != nil {
		return nil, fmt.Errorf("query conversation failed: %w", err)
	}
	if len(conversations) == 0 {
		return nil, nil
	}
	return &conversations[0], nil
}

func (s *ConversationStore) GetByIDAndUser(ctx context.Context, id, userID string) (*model.Conversation, error) {
	var conversations []model.Conversation
	filters := []Filter{Eq("id", id), Eq("user_id", userID)}
	if err := s.client.Select(ctx, "conversations", "id,title", filters, &conversations); err != nil {
		return nil, fmt.Errorf("query conversation failed: %w", err)
	}
	if len(conversations) == 0 {
		return nil, nil
	}
	return &conversations[0], nil
}

func (s *ConversationStore) SetTitle(ctx context.Context, id, title string) error {
	payload := map[string]interface{}{"title": title}
	if err := s.client.Update(ctx, "conversations", []Filter{Eq("id", id)}, payload); err != nil {
		return fmt.Errorf("update conversation title failed: %w", err)
	}
	return nil
}

// SetTitleForUser patches the title scoped to both the conversation id and
// its owner, so one user cannot rename another's conversation.
func (s *ConversationStore) SetTitleForUser(ctx context.Context, id, userID, title string) error {
	payload := map[string]interface{}{"title": title}
	filters := []Filter{Eq("id", id), Eq("user_id", userID)}
	if err := s.client.Update(ctx, "conversations", filters, payload); err != nil {
		return fmt.Errorf("update conversation title failed: %w", err)
	}
	return nil
}

func (s *ConversationStore) SetVisible(ctx context.Context, id string) error {
	payload := map[string]interface{}{"is_visible": true}
	if err := s.client.Update(ctx, "conversations", []Filter{Eq("id", id)}, payload); err != nil {
		return fmt.Errorf("update conversation visibility failed: %w", err)
	}
	return nil
}

func (s *ConversationStore) DeleteByIDAndUser(ctx context.Context, id, userID string) error {
	filters := []Filter{Eq("id", id), Eq("user_id", userID)}
	if err := s.client.Delete(ctx, "conversations", filters); err != nil {
		return fmt.Errorf("delete conversation failed: %w", err)
	}
	return nil
}
