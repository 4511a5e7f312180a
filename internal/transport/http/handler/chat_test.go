package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatrelay/internal/app"
	"chatrelay/internal/model"
	"chatrelay/internal/pkg/jwtutil"
	"chatrelay/internal/transport/http/middleware"
)

type stubConversationStore struct {
	rows map[string]*model.Conversation
}

func (s *stubConversationStore) Insert(_ context.Context, conv model.Conversation) error {
	copied := conv
	s.rows[conv.ID] = &copied
	return nil
}

func (s *stubConversationStore) ListVisibleByUser(_ context.Context, userID string) ([]model.Conversation, error) {
	var out []model.Conversation
	for _, c := range s.rows {
		if c.UserID == userID && c.IsVisible {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *stubConversationStore) GetByID(_ context.Context, id string) (*model.Conversation, error) {
	c, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (s *stubConversationStore) GetByIDAndUser(_ context.Context, id, userID string) (*model.Conversation, error) {
	c, ok := s.rows[id]
	if !ok || c.UserID != userID {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (s *stubConversationStore) SetTitle(_ context.Context, id, title string) error {
	if c, ok := s.rows[id]; ok {
		c.Title = title
	}
	return nil
}

func (s *stubConversationStore) SetTitleForUser(_ context.Context, id, userID, title string) error {
	if c, ok := s.rows[id]; ok && c.UserID == userID {
		c.Title = title
	}
	return nil
}

func (s *stubConversationStore) SetVisible(_ context.Context, id string) error {
	if c, ok := s.rows[id]; ok {
		c.IsVisible = true
	}
	return nil
}

func (s *stubConversationStore) DeleteByIDAndUser(_ context.Context, id, userID string) error {
	if c, ok := s.rows[id]; ok && c.UserID == userID {
		delete(s.rows, id)
	}
	return nil
}

type stubMessageStore struct {
	inserted []model.Message
}

func (s *stubMessageStore) Insert(_ context.Context, msg model.Message) error {
	s.inserted = append(s.inserted, msg)
	return nil
}

func (s *stubMessageStore) ListByConversation(_ context.Context, conversationID string) ([]model.Message, error) {
	var out []model.Message
	for _, m := range s.inserted {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *stubMessageStore) DeleteByConversation(context.Context, string) error {
	s.inserted = nil
	return nil
}

type stubGenerator struct{}

func (stubGenerator) Title(context.Context, string) (string, error) { return "Trip Planning", nil }
func (stubGenerator) Reply(context.Context, string) (string, error) { return "Sounds great!", nil }

func newChatRouter(conversations ...*model.Conversation) *gin.Engine {
	gin.SetMode(gin.TestMode)
	convStore := &stubConversationStore{rows: map[string]*model.Conversation{}}
	for _, c := range conversations {
		convStore.rows[c.ID] = c
	}
	chatService := app.NewChatService(convStore, &stubMessageStore{}, stubGenerator{})
	chatHandler := NewChatHandler(chatService)

	router := gin.New()
	auth := middleware.AuthBearer("secret", "HS256")
	router.GET("/conversations/:user_id", auth, chatHandler.ListConversations)
	router.GET("/chat/:conv_id", auth, chatHandler.ListMessages)
	router.POST("/conversations", auth, chatHandler.CreateConversation)
	router.POST("/messages", auth, chatHandler.SendMessage)
	return router
}

func bearerFor(t *testing.T, userID string) string {
	t.Helper()
	token, err := jwtutil.GenerateToken("secret", "HS256", time.Hour, userID)
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(router *gin.Engine, method, path, auth, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestListConversationsRequiresMatchingSubject(t *testing.T) {
	router := newChatRouter(&model.Conversation{ID: "c1", UserID: "u1", IsVisible: true})

	recorder := doJSON(router, http.MethodGet, "/conversations/u1", bearerFor(t, "u1"), "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"id":"c1"`)

	recorder = doJSON(router, http.MethodGet, "/conversations/u1", bearerFor(t, "u2"), "")
	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestListConversationsRequiresToken(t *testing.T) {
	router := newChatRouter()

	recorder := doJSON(router, http.MethodGet, "/conversations/u1", "", "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestListMessagesRequiresOwnership(t *testing.T) {
	router := newChatRouter(&model.Conversation{ID: "c1", UserID: "u1"})

	recorder := doJSON(router, http.MethodGet, "/chat/c1", bearerFor(t, "u2"), "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	recorder = doJSON(router, http.MethodGet, "/chat/c1", bearerFor(t, "u1"), "")
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestSendMessageResponseShape(t *testing.T) {
	router := newChatRouter(&model.Conversation{ID: "c1", UserID: "u1", Title: "Chat"})

	recorder := doJSON(router, http.MethodPost, "/messages", bearerFor(t, "u1"),
		`{"conversation_id":"c1","content":"hello"}`)
	assert.Equal(t, http.StatusOK, recorder.Code)

	body := recorder.Body.String()
	assert.Contains(t, body, `"message":"Message sent"`)
	assert.Contains(t, body, `"user_message"`)
	assert.Contains(t, body, `"ai_response"`)
	assert.Contains(t, body, `"role":"ai"`)
}

func TestSendMessageUnknownConversation(t *testing.T) {
	router := newChatRouter()

	recorder := doJSON(router, http.MethodPost, "/messages", bearerFor(t, "u1"),
		`{"conversation_id":"missing","content":"hello"}`)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Conversation not found")
}

func TestCreateConversationReturnsID(t *testing.T) {
	router := newChatRouter()

	recorder := doJSON(router, http.MethodPost, "/conversations", bearerFor(t, "u1"), "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"message":"Conversation created"`)
	assert.Contains(t, recorder.Body.String(), `"conversation_id"`)
}
