package app

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"chatrelay/internal/ai"
	"chatrelay/internal/model"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrMessageEmpty         = errors.New("message content is empty")
)

// placeholderTitle is the sentinel a conversation carries until its first
// message produces a real title.
const placeholderTitle = "untitled"

type ConversationStore interface {
	Insert(ctx context.Context, conv model.Conversation) error
	ListVisibleByUser(ctx context.Context, userID string) ([]model.Conversation, error)
	GetByID(ctx context.Context, id string) (*model.Conversation, error)
	GetByIDAndUser(ctx context.Context, id, userID string) (*model.Conversation, error)
	SetTitle(ctx context.Context, id, title string) error
	SetTitleForUser(ctx context.Context, id, userID, title string) error
	SetVisible(ctx context.Context, id string) error
	DeleteByIDAndUser(ctx context.Context, id, userID string) error
}

type MessageStore interface {
	Insert(ctx context.Context, msg model.Message) error
	ListByConversation(ctx context.Context, conversationID string) ([]model.Message, error)
	DeleteByConversation(ctx context.Context, conversationID string) error
}

// Generator produces replies and titles. Both are consumed through the
// best-effort wrapper; the chat flow never fails on generation errors.
type Generator interface {
	Reply(ctx context.Context, userInput string) (string, error)
	Title(ctx context.Context, text string) (string, error)
}

type ChatService struct {
	conversations ConversationStore
	messages      MessageStore
	generator     Generator
}

type SendMessageResult struct {
	UserMessage model.Message
	AIResponse  model.Message
}

func NewChatService(conversations ConversationStore, messages MessageStore, generator Generator) *ChatService {
	return &ChatService{
		conversations: conversations,
		messages:      messages,
		generator:     generator,
	}
}

// CreateConversation inserts an empty hidden conversation and returns its id.
func (s *ChatService) CreateConversation(ctx context.Context, userID string) (string, error) {
	conv := model.Conversation{
		ID:        uuid.NewString(),
		UserID:    userID,
		IsVisible: false,
	}
	if err := s.conversations.Insert(ctx, conv); err != nil {
		return "", err
	}
	return conv.ID, nil
}

func (s *ChatService) ListConversations(ctx context.Context, userID string) ([]model.Conversation, error) {
	return s.conversations.ListVisibleByUser(ctx, userID)
}

// ListMessages returns a conversation's messages after verifying the
// conversation belongs to the requesting user.
func (s *ChatService) ListMessages(ctx context.Context, userID, conversationID string) ([]model.Message, error) {
	conv, err := s.conversations.GetByIDAndUser(ctx, conversationID, userID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, ErrConversationNotFound
	}
	return s.messages.ListByConversation(ctx, conversationID)
}

// SendMessage persists the user's message, generates a reply, and persists
// that too. The first real message also titles the conversation and makes
// it visible. Exactly two rows are written, user then assistant, whatever
// the generation provider does.
func (s *ChatService) SendMessage(ctx context.Context, conversationID, content string) (*SendMessageResult, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrMessageEmpty
	}

	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil || conv == nil {
		return nil, ErrConversationNotFound
	}

	if needsTitle(conv.Title) {
		title := ai.BestEffort(ctx, ai.FallbackTitle, func(ctx context.Context) (string, error) {
			return s.generator.Title(ctx, content)
		})
		if err := s.conversations.SetTitle(ctx, conversationID, title); err != nil {
			log.WithError(err).WithField("conversation_id", conversationID).Warn("set title failed")
		}
	}

	if err := s.conversations.SetVisible(ctx, conversationID); err != nil {
		log.WithError(err).WithField("conversation_id", conversationID).Warn("set visible failed")
	}

	userMessage := model.Message{
		ConversationID: conversationID,
		Role:           model.RoleUser,
		Content:        content,
	}
	if err := s.messages.Insert(ctx, userMessage); err != nil {
		return nil, err
	}

	replyContent := ai.BestEffort(ctx, ai.FallbackReply, func(ctx context.Context) (string, error) {
		return s.generator.Reply(ctx, content)
	})

	aiResponse := model.Message{
		ConversationID: conversationID,
		Role:           model.RoleAI,
		Content:        replyContent,
	}
	if err := s.messages.Insert(ctx, aiResponse); err != nil {
		return nil, err
	}

	return &SendMessageResult{UserMessage: userMessage, AIResponse: aiResponse}, nil
}

// DeleteConversation removes the messages first, then the conversation row
// scoped to its owner, so a cascade never leaves orphaned messages behind.
func (s *ChatService) DeleteConversation(ctx context.Context, userID, conversationID string) error {
	if err := s.messages.DeleteByConversation(ctx, conversationID); err != nil {
		log.WithError(err).WithField("conversation_id", conversationID).Warn("delete messages failed")
	}
	return s.conversations.DeleteByIDAndUser(ctx, conversationID, userID)
}

func (s *ChatService) UpdateTitle(ctx context.Context, userID, conversationID, title string) error {
	return s.conversations.SetTitleForUser(ctx, conversationID, userID, title)
}

func needsTitle(title string) bool {
	t := strings.ToLower(strings.TrimSpace(title))
	return t == "" || t == placeholderTitle
}
