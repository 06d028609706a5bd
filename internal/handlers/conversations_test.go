package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"techdesk-ai/internal/storage"
)

func conversationsRouter(h *ConversationsHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/conversations", h.List)
	r.Get("/api/conversations/{id}/messages", h.Messages)
	r.Delete("/api/conversations/{id}", h.Delete)
	return r
}

func TestConversationsHandler_ListAndMessages(t *testing.T) {
	_, conversations := setupStores(t)
	ctx := context.Background()

	conv, err := conversations.Create(ctx, "hvac", "How do I reset?")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := conversations.AddMessage(ctx, conv.ID, "user", "How do I reset?"); err != nil {
		t.Fatalf("AddMessage: %v", err)
	}
	if _, err := conversations.Create(ctx, "boiler", "Other question"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	router := conversationsRouter(NewConversationsHandler(conversations))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/conversations?agent=hvac", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var listResp struct {
		Conversations []storage.Conversation `json:"conversations"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if len(listResp.Conversations) != 1 {
		t.Errorf("filtered list = %d conversations, want 1", len(listResp.Conversations))
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/conversations/"+conv.ID+"/messages", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("messages status = %d", rec.Code)
	}
	var msgResp struct {
		Messages []storage.Message `json:"messages"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &msgResp); err != nil {
		t.Fatalf("failed to decode messages: %v", err)
	}
	if len(msgResp.Messages) != 1 {
		t.Errorf("messages = %d, want 1", len(msgResp.Messages))
	}
}

func TestConversationsHandler_MessagesNotFound(t *testing.T) {
	_, conversations := setupStores(t)
	router := conversationsRouter(NewConversationsHandler(conversations))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/conversations/missing/messages", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestConversationsHandler_Delete(t *testing.T) {
	_, conversations := setupStores(t)
	conv, err := conversations.Create(context.Background(), "", "bye")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	router := conversationsRouter(NewConversationsHandler(conversations))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/conversations/"+conv.ID, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/conversations/"+conv.ID, nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}
