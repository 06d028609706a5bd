package knowledge

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"techdesk-ai/internal/contextutil"
	"techdesk-ai/internal/vectorstore"
)

// GlobalCollection is the shared collection used when a query names no agent.
const GlobalCollection = "techdesk_knowledge_base"

// Embedder generates embedding vectors for texts.
// This interface is defined from the knowledge layer's perspective
// (consumer-first); *llm.EmbeddingsClient satisfies it.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Service provides knowledge-base operations over an embedder and a vector
// store. Each agent owns its own collection; CollectionName maps agent names
// to collection names.
type Service struct {
	embedder   Embedder
	store      vectorstore.VectorStore
	vectorSize int
}

// NewService creates a new knowledge-base service.
func NewService(embedder Embedder, store vectorstore.VectorStore, vectorSize int) *Service {
	return &Service{
		embedder:   embedder,
		store:      store,
		vectorSize: vectorSize,
	}
}

// CollectionName derives the vector collection name for an agent.
func CollectionName(agentName string) string {
	sanitized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(agentName)), " ", "_")
	return "agent_" + sanitized
}

// EnsureCollection creates the collection if missing.
func (s *Service) EnsureCollection(ctx context.Context, collection string) error {
	return s.store.EnsureCollection(ctx, collection, s.vectorSize)
}

// Search embeds the query and returns the topK most similar chunks,
// best-first with 1-based ranks. A missing collection yields an empty slice,
// not an error; "no results" is a normal outcome here.
func (s *Service) Search(ctx context.Context, collection, query string, topK int) ([]Chunk, error) {
	logger := contextutil.LoggerFromContext(ctx)

	exists, err := s.store.CollectionExists(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to check collection: %w", err)
	}
	if !exists {
		logger.DebugContext(ctx, "collection does not exist, returning no chunks", "collection", collection)
		return []Chunk{}, nil
	}

	embeddings, err := s.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("no embedding returned for query")
	}

	results, err := s.store.Search(ctx, collection, embeddings[0], topK)
	if err != nil {
		return nil, fmt.Errorf("failed to search collection %q: %w", collection, err)
	}

	chunks := make([]Chunk, 0, len(results))
	for i, result := range results {
		text, _ := result.Meta["text"].(string)
		metadata := make(map[string]any, len(result.Meta))
		for k, v := range result.Meta {
			if k == "text" {
				continue
			}
			metadata[k] = v
		}
		chunks = append(chunks, Chunk{
			Text:            text,
			Metadata:        metadata,
			SimilarityScore: float64(result.Score),
			Rank:            i + 1,
		})
	}

	logger.DebugContext(ctx, "knowledge base search completed", "collection", collection, "top_k", topK, "results", len(chunks))
	return chunks, nil
}

// AddChunks embeds and indexes the given chunks. Chunks with empty text are
// skipped; chunks without an ID get a random UUID. Returns the number of
// chunks actually indexed.
func (s *Service) AddChunks(ctx context.Context, collection string, chunks []IngestChunk) (int, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if len(chunks) == 0 {
		return 0, nil
	}

	if err := s.EnsureCollection(ctx, collection); err != nil {
		return 0, err
	}

	texts := make([]string, 0, len(chunks))
	kept := make([]IngestChunk, 0, len(chunks))
	for _, chunk := range chunks {
		text := strings.TrimSpace(chunk.Text)
		if text == "" {
			continue
		}
		chunk.Text = text
		if chunk.ID == "" {
			chunk.ID = uuid.NewString()
		}
		texts = append(texts, text)
		kept = append(kept, chunk)
	}

	if len(kept) == 0 {
		return 0, nil
	}

	embeddings, err := s.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("failed to embed chunks: %w", err)
	}
	if len(embeddings) != len(kept) {
		return 0, fmt.Errorf("expected %d embeddings, got %d", len(kept), len(embeddings))
	}

	points := make([]vectorstore.Point, 0, len(kept))
	for i, chunk := range kept {
		// The chunk text rides along in the payload so search needs no
		// second lookup.
		meta := make(map[string]any, len(chunk.Metadata)+1)
		for k, v := range chunk.Metadata {
			meta[k] = v
		}
		meta["text"] = chunk.Text

		points = append(points, vectorstore.Point{
			ID:   chunk.ID,
			Vec:  embeddings[i],
			Meta: meta,
		})
	}

	if err := s.store.Upsert(ctx, collection, points); err != nil {
		return 0, fmt.Errorf("failed to index chunks: %w", err)
	}

	logger.InfoContext(ctx, "chunks indexed", "collection", collection, "count", len(points))
	return len(points), nil
}

// DeleteFile removes all chunks originating from filename. Returns how many
// chunks were removed.
func (s *Service) DeleteFile(ctx context.Context, collection, filename string) (int, error) {
	exists, err := s.store.CollectionExists(ctx, collection)
	if err != nil {
		return 0, fmt.Errorf("failed to check collection: %w", err)
	}
	if !exists {
		return 0, nil
	}
	return s.store.DeleteByFilename(ctx, collection, filename)
}

// DropCollection deletes an agent's entire collection.
func (s *Service) DropCollection(ctx context.Context, collection string) error {
	exists, err := s.store.CollectionExists(ctx, collection)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}
	if !exists {
		return nil
	}
	return s.store.DropCollection(ctx, collection)
}

// Stats returns chunk count and vector configuration for a collection.
func (s *Service) Stats(ctx context.Context, collection string) (*Stats, error) {
	exists, err := s.store.CollectionExists(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to check collection: %w", err)
	}
	if !exists {
		return &Stats{}, nil
	}

	info, err := s.store.GetCollectionInfo(ctx, collection)
	if err != nil {
		return nil, err
	}
	return &Stats{
		TotalChunks: info.PointsCount,
		VectorSize:  info.VectorSize,
		Status:      info.Status,
	}, nil
}
