package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"techdesk-ai/internal/contextutil"
	"techdesk-ai/internal/knowledge"
	"techdesk-ai/internal/storage"
)

// KnowledgeAdmin exposes the collection operations the agent endpoints need.
// *knowledge.Service satisfies this.
type KnowledgeAdmin interface {
	EnsureCollection(ctx context.Context, collection string) error
	DropCollection(ctx context.Context, collection string) error
	Stats(ctx context.Context, collection string) (*knowledge.Stats, error)
}

// AgentsHandler handles agent CRUD endpoints.
type AgentsHandler struct {
	agents storage.AgentStore
	kb     KnowledgeAdmin
}

// NewAgentsHandler creates a new AgentsHandler.
func NewAgentsHandler(agents storage.AgentStore, kb KnowledgeAdmin) *AgentsHandler {
	return &AgentsHandler{agents: agents, kb: kb}
}

// CreateAgentRequest is the payload for creating an agent.
type CreateAgentRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// AgentResponse is the agent payload returned by the API.
type AgentResponse struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	TotalChunks int       `json:"total_chunks"`
	Files       []string  `json:"files"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toAgentResponse(agent *storage.Agent) AgentResponse {
	return AgentResponse{
		Name:        agent.Name,
		Description: agent.Description,
		TotalChunks: agent.TotalChunks,
		Files:       agent.Files,
		CreatedAt:   agent.CreatedAt,
		UpdatedAt:   agent.UpdatedAt,
	}
}

// Create handles POST /api/agents.
func (h *AgentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req CreateAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, ctx, http.StatusBadRequest, "Agent name is required")
		return
	}

	if _, err := h.agents.GetByName(ctx, name); err == nil {
		writeError(w, ctx, http.StatusConflict, "Agent already exists")
		return
	} else if !errors.Is(err, storage.ErrNotFound) {
		logger.ErrorContext(ctx, "failed to check agent", "error", err)
		writeError(w, ctx, http.StatusInternalServerError, "Failed to create agent")
		return
	}

	collection := knowledge.CollectionName(name)
	if err := h.kb.EnsureCollection(ctx, collection); err != nil {
		logger.ErrorContext(ctx, "failed to create collection", "collection", collection, "error", err)
		writeError(w, ctx, http.StatusBadGateway, "Failed to provision knowledge base")
		return
	}

	agent, err := h.agents.Create(ctx, name, strings.TrimSpace(req.Description), collection)
	if err != nil {
		logger.ErrorContext(ctx, "failed to create agent", "error", err)
		writeError(w, ctx, http.StatusInternalServerError, "Failed to create agent")
		return
	}

	logger.InfoContext(ctx, "agent created", "agent", name, "collection", collection)
	writeJSON(w, ctx, http.StatusCreated, toAgentResponse(agent))
}

// List handles GET /api/agents.
func (h *AgentsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	agents, err := h.agents.ListAll(ctx)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to list agents", "error", err)
		writeError(w, ctx, http.StatusInternalServerError, "Failed to list agents")
		return
	}

	out := make([]AgentResponse, 0, len(agents))
	for i := range agents {
		out = append(out, toAgentResponse(&agents[i]))
	}
	writeJSON(w, ctx, http.StatusOK, map[string]any{"agents": out})
}

// Get handles GET /api/agents/{name}.
func (h *AgentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "name")

	agent, err := h.agents.GetByName(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, ctx, http.StatusNotFound, "Agent not found")
		return
	}
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to get agent", "error", err)
		writeError(w, ctx, http.StatusInternalServerError, "Failed to get agent")
		return
	}

	writeJSON(w, ctx, http.StatusOK, toAgentResponse(agent))
}

// Stats handles GET /api/agents/{name}/stats.
func (h *AgentsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "name")

	agent, err := h.agents.GetByName(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, ctx, http.StatusNotFound, "Agent not found")
		return
	}
	if err != nil {
		writeError(w, ctx, http.StatusInternalServerError, "Failed to get agent")
		return
	}

	stats, err := h.kb.Stats(ctx, agent.Collection)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to get collection stats", "error", err)
		writeError(w, ctx, http.StatusBadGateway, "Failed to get knowledge base stats")
		return
	}

	writeJSON(w, ctx, http.StatusOK, map[string]any{
		"agent": name,
		"files": agent.Files,
		"stats": stats,
	})
}

// Delete handles DELETE /api/agents/{name}. The agent's collection is
// dropped along with its record.
func (h *AgentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)
	name := chi.URLParam(r, "name")

	agent, err := h.agents.GetByName(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, ctx, http.StatusNotFound, "Agent not found")
		return
	}
	if err != nil {
		writeError(w, ctx, http.StatusInternalServerError, "Failed to delete agent")
		return
	}

	if err := h.kb.DropCollection(ctx, agent.Collection); err != nil {
		logger.ErrorContext(ctx, "failed to drop collection", "collection", agent.Collection, "error", err)
		writeError(w, ctx, http.StatusBadGateway, "Failed to remove knowledge base")
		return
	}

	if err := h.agents.Delete(ctx, name); err != nil {
		logger.ErrorContext(ctx, "failed to delete agent", "error", err)
		writeError(w, ctx, http.StatusInternalServerError, "Failed to delete agent")
		return
	}

	logger.InfoContext(ctx, "agent deleted", "agent", name)
	writeJSON(w, ctx, http.StatusOK, map[string]string{"message": "Agent deleted"})
}
