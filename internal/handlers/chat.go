package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"techdesk-ai/internal/chat"
	"techdesk-ai/internal/contextutil"
	"techdesk-ai/internal/storage"
)

// Answerer runs one query through the RAG pipeline. *chat.Service satisfies
// this.
type Answerer interface {
	Answer(ctx context.Context, req chat.Request) chat.Response
}

// ChatHandler handles HTTP requests for chat queries and threads the
// exchange into a persisted conversation.
type ChatHandler struct {
	chat          Answerer
	conversations storage.ConversationStore
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(answerer Answerer, conversations storage.ConversationStore) *ChatHandler {
	return &ChatHandler{
		chat:          answerer,
		conversations: conversations,
	}
}

// ServeHTTP handles POST /api/chat.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req chat.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		writeError(w, ctx, http.StatusBadRequest, "Message is required")
		return
	}

	conversationID, ok := h.resolveConversation(ctx, &req)
	if !ok {
		writeError(w, ctx, http.StatusNotFound, "Conversation not found")
		return
	}
	req.ConversationID = conversationID

	resp := h.chat.Answer(ctx, req)

	h.recordExchange(ctx, conversationID, req.Message, resp.Text)

	writeJSON(w, ctx, http.StatusOK, resp)
}

// resolveConversation validates an existing conversation ID or starts a new
// conversation titled after the first message. Reports ok=false only when
// the caller named a conversation that does not exist; persistence failures
// degrade to an unthreaded response.
func (h *ChatHandler) resolveConversation(ctx context.Context, req *chat.Request) (string, bool) {
	logger := contextutil.LoggerFromContext(ctx)

	if req.ConversationID != "" {
		if _, err := h.conversations.Get(ctx, req.ConversationID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return "", false
			}
			logger.WarnContext(ctx, "failed to load conversation, answering unthreaded", "error", err)
			return "", true
		}
		return req.ConversationID, true
	}

	conv, err := h.conversations.Create(ctx, req.AgentName, req.Message)
	if err != nil {
		logger.WarnContext(ctx, "failed to create conversation, answering unthreaded", "error", err)
		return "", true
	}
	return conv.ID, true
}

// recordExchange persists the user message and the assistant reply. Failures
// are logged only; the answer has already been produced.
func (h *ChatHandler) recordExchange(ctx context.Context, conversationID, message, reply string) {
	if conversationID == "" {
		return
	}
	logger := contextutil.LoggerFromContext(ctx)

	if _, err := h.conversations.AddMessage(ctx, conversationID, "user", message); err != nil {
		logger.WarnContext(ctx, "failed to persist user message", "error", err)
		return
	}
	if _, err := h.conversations.AddMessage(ctx, conversationID, "assistant", reply); err != nil {
		logger.WarnContext(ctx, "failed to persist assistant message", "error", err)
	}
}
