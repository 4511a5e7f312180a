package store

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatrelay/internal/model"
)

func modelConversation(id, userID string) model.Conversation {
	return model.Conversation{ID: id, UserID: userID, IsVisible: false}
}

func modelMessage(conversationID, role, content string) model.Message {
	return model.Message{ConversationID: conversationID, Role: role, Content: content}
}

type recordedRequest struct {
	Method string
	Path   string
	Query  map[string]string
	Body   string
	Header http.Header
}

func newRecordingServer(t *testing.T, status int, responseBody string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var requests []recordedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		query := map[string]string{}
		for key := range r.URL.Query() {
			query[key] = r.URL.Query().Get(key)
		}
		requests = append(requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  query,
			Body:   string(body),
			Header: r.Header.Clone(),
		})
		w.WriteHeader(status)
		_, _ = w.Write([]byte(responseBody))
	}))
	t.Cleanup(server.Close)
	return server, &requests
}

func TestSelectBuildsFilterQuery(t *testing.T) {
	server, requests := newRecordingServer(t, http.StatusOK, `[{"id":"u1","userName":"alice"}]`)
	client := NewClient(server.URL, "test-key")

	var rows []map[string]interface{}
	err := client.Select(context.Background(), "users", "*", []Filter{Eq("userName", "alice")}, &rows)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "u1", rows[0]["id"])

	req := (*requests)[0]
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/rest/v1/users", req.Path)
	assert.Equal(t, "eq.alice", req.Query["userName"])
	assert.Equal(t, "*", req.Query["select"])
	assert.Equal(t, "test-key", req.Header.Get("apikey"))
	assert.Equal(t, "Bearer test-key", req.Header.Get("Authorization"))
}

func TestInsertSendsJSONPayload(t *testing.T) {
	server, requests := newRecordingServer(t, http.StatusCreated, ``)
	client := NewClient(server.URL, "test-key")

	err := client.Insert(context.Background(), "messages", map[string]string{"content": "hi"})
	require.NoError(t, err)

	req := (*requests)[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/rest/v1/messages", req.Path)
	assert.JSONEq(t, `{"content":"hi"}`, req.Body)
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
}

func TestUpdateScopesByFilters(t *testing.T) {
	server, requests := newRecordingServer(t, http.StatusNoContent, ``)
	client := NewClient(server.URL, "test-key")

	filters := []Filter{Eq("id", "c1"), Eq("user_id", "u1")}
	err := client.Update(context.Background(), "conversations", filters, map[string]string{"title": "New"})
	require.NoError(t, err)

	req := (*requests)[0]
	assert.Equal(t, http.MethodPatch, req.Method)
	assert.Equal(t, "eq.c1", req.Query["id"])
	assert.Equal(t, "eq.u1", req.Query["user_id"])
}

func TestDeleteScopesByFilters(t *testing.T) {
	server, requests := newRecordingServer(t, http.StatusNoContent, ``)
	client := NewClient(server.URL, "test-key")

	err := client.Delete(context.Background(), "messages", []Filter{Eq("conversation_id", "c1")})
	require.NoError(t, err)

	req := (*requests)[0]
	assert.Equal(t, http.MethodDelete, req.Method)
	assert.Equal(t, "eq.c1", req.Query["conversation_id"])
}

func TestErrorStatusWrapsBody(t *testing.T) {
	server, _ := newRecordingServer(t, http.StatusConflict, `{"message":"duplicate key"}`)
	client := NewClient(server.URL, "test-key")

	err := client.Insert(context.Background(), "conversations", map[string]string{"id": "c1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "409")
	assert.Contains(t, err.Error(), "duplicate key")
}

func TestUserStoreNotFound(t *testing.T) {
	server, _ := newRecordingServer(t, http.StatusOK, `[]`)
	users := NewUserStore(NewClient(server.URL, "test-key"))

	user, err := users.GetByUsername(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserStoreGetProfileProjection(t *testing.T) {
	server, requests := newRecordingServer(t, http.StatusOK,
		`[{"id":"u1","userName":"alice","created_at":"2024-05-01T10:00:00Z"}]`)
	users := NewUserStore(NewClient(server.URL, "test-key"))

	profile, err := users.GetProfile(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "alice", profile.Username)

	req := (*requests)[0]
	assert.Equal(t, "id,userName,created_at", req.Query["select"])
	assert.Equal(t, "eq.u1", req.Query["id"])
}

func TestUserStoreSetHashedPasswordSetsFlag(t *testing.T) {
	server, requests := newRecordingServer(t, http.StatusNoContent, ``)
	users := NewUserStore(NewClient(server.URL, "test-key"))

	err := users.SetHashedPassword(context.Background(), "u1", "$2a$10$hash")
	require.NoError(t, err)

	req := (*requests)[0]
	assert.Equal(t, http.MethodPatch, req.Method)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(req.Body), &payload))
	assert.Equal(t, "$2a$10$hash", payload["password"])
	assert.Equal(t, true, payload["is_password_hashed"])
}

func TestConversationStoreListVisibleByUser(t *testing.T) {
	server, requests := newRecordingServer(t, http.StatusOK, `[{"id":"c1","title":"Trip ideas","is_visible":true}]`)
	conversations := NewConversationStore(NewClient(server.URL, "test-key"))

	rows, err := conversations.ListVisibleByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Trip ideas", rows[0].Title)

	req := (*requests)[0]
	assert.Equal(t, "eq.u1", req.Query["user_id"])
	assert.Equal(t, "eq.true", req.Query["is_visible"])
}

func TestConversationStoreInsertHidesRow(t *testing.T) {
	server, requests := newRecordingServer(t, http.StatusCreated, ``)
	conversations := NewConversationStore(NewClient(server.URL, "test-key"))

	err := conversations.Insert(context.Background(), modelConversation("c1", "u1"))
	require.NoError(t, err)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte((*requests)[0].Body), &payload))
	assert.Equal(t, "c1", payload["id"])
	assert.Equal(t, "u1", payload["user_id"])
	assert.Equal(t, false, payload["is_visible"])
}

func TestMessageStoreInsertPayload(t *testing.T) {
	server, requests := newRecordingServer(t, http.StatusCreated, ``)
	messages := NewMessageStore(NewClient(server.URL, "test-key"))

	err := messages.Insert(context.Background(), modelMessage("c1", "user", "hello"))
	require.NoError(t, err)

	assert.JSONEq(t, `{"conversation_id":"c1","role":"user","content":"hello"}`, (*requests)[0].Body)
}
