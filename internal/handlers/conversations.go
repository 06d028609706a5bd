package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"techdesk-ai/internal/contextutil"
	"techdesk-ai/internal/storage"
)

// ConversationsHandler serves conversation history endpoints.
type ConversationsHandler struct {
	conversations storage.ConversationStore
}

// NewConversationsHandler creates a new ConversationsHandler.
func NewConversationsHandler(conversations storage.ConversationStore) *ConversationsHandler {
	return &ConversationsHandler{conversations: conversations}
}

// List handles GET /api/conversations?agent=<name>.
func (h *ConversationsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	conversations, err := h.conversations.List(ctx, r.URL.Query().Get("agent"))
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to list conversations", "error", err)
		writeError(w, ctx, http.StatusInternalServerError, "Failed to list conversations")
		return
	}

	writeJSON(w, ctx, http.StatusOK, map[string]any{"conversations": conversations})
}

// Messages handles GET /api/conversations/{id}/messages.
func (h *ConversationsHandler) Messages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	messages, err := h.conversations.Messages(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, ctx, http.StatusNotFound, "Conversation not found")
		return
	}
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to load messages", "error", err)
		writeError(w, ctx, http.StatusInternalServerError, "Failed to load messages")
		return
	}

	writeJSON(w, ctx, http.StatusOK, map[string]any{"messages": messages})
}

// Delete handles DELETE /api/conversations/{id}.
func (h *ConversationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	err := h.conversations.Delete(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, ctx, http.StatusNotFound, "Conversation not found")
		return
	}
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to delete conversation", "error", err)
		writeError(w, ctx, http.StatusInternalServerError, "Failed to delete conversation")
		return
	}

	writeJSON(w, ctx, http.StatusOK, map[string]string{"message": "Conversation deleted"})
}
