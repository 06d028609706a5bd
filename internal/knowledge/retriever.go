package knowledge

import (
	"context"
	"errors"
	"fmt"

	"techdesk-ai/internal/contextutil"
	"techdesk-ai/internal/storage"
)

// Retriever resolves agent names to collections and runs vector search
// against the right one. An empty agent name targets the shared global
// collection.
type Retriever struct {
	service *Service
	agents  storage.AgentStore
}

// NewRetriever creates a retriever over the knowledge service and agent store.
func NewRetriever(service *Service, agents storage.AgentStore) *Retriever {
	return &Retriever{service: service, agents: agents}
}

// Retrieve returns the topK chunks most similar to the query from the
// agent's collection. An unknown agent yields no chunks rather than an
// error; the caller treats it like an empty knowledge base.
func (r *Retriever) Retrieve(ctx context.Context, agentName, query string, topK int) ([]Chunk, error) {
	logger := contextutil.LoggerFromContext(ctx)

	collection := GlobalCollection
	if agentName != "" {
		agent, err := r.agents.GetByName(ctx, agentName)
		if errors.Is(err, storage.ErrNotFound) {
			logger.WarnContext(ctx, "query names unknown agent", "agent", agentName)
			return []Chunk{}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to resolve agent %q: %w", agentName, err)
		}
		collection = agent.Collection
	}

	return r.service.Search(ctx, collection, query, topK)
}
