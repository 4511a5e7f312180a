package store

import (
	"context"
	"fmt"

	"chatrelay/internal/model"
)

type UserStore struct {
	client *Client
}

func NewUserStore(client *Client) *UserStore {
	return &UserStore{client: client}
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var users []model.User
	if err := s.client.Select(ctx, "users", "*", []Filter{Eq("userName", username)}, &users); err != nil {
		return nil, fmt.Errorf("query user by username failed: %w", err)
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}

func (s *UserStore) GetProfile(ctx context.Context, id string) (*model.Profile, error) {
	var profiles []model.Profile
	if err := s.client.Select(ctx, "users", "id,userName,created_at", []Filter{Eq("id", id)}, &profiles); err != nil {
		return nil, fmt.Errorf("query user by id failed: %w", err)
	}
	if len(profiles) == 0 {
		return nil, nil
	}
	return &profiles[0], nil
}

// SetHashedPassword migrates a plaintext row to its hashed form and marks
// it so later logins take the hash-compare branch.
func (s *UserStore) SetHashedPassword(ctx context.Context, id, hashed string) error {
	payload := map[string]interface{}{
		"password":           hashed,
		"is_password_hashed": true,
	}
	if err := s.client.Update(ctx, "users", []Filter{Eq("id", id)}, payload); err != nil {
		return fmt.Errorf("update user password failed: %w", err)
	}
	return nil
}
