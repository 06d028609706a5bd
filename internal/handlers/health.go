package handlers

import (
	"net/http"

	"techdesk-ai/internal/chat"
)

// HealthHandler serves liveness and service status endpoints.
type HealthHandler struct {
	chat             *chat.Service
	parserConfigured bool
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(chatService *chat.Service, parserConfigured bool) *HealthHandler {
	return &HealthHandler{chat: chatService, parserConfigured: parserConfigured}
}

// Health handles GET /api/health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r.Context(), http.StatusOK, map[string]string{"status": "ok"})
}

// Status handles GET /api/status with collaborator availability.
func (h *HealthHandler) Status(w http.ResponseWriter, r *http.Request) {
	status := h.chat.ServiceStatus()
	writeJSON(w, r.Context(), http.StatusOK, map[string]any{
		"status":               "active",
		"llm_available":        status.LLMAvailable,
		"web_search_available": status.WebSearchAvailable,
		"parser_configured":    h.parserConfigured,
		"cached_queries":       status.CachedQueries,
	})
}
