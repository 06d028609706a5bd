package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks techdesk-ai/internal/vectorstore VectorStore

import "context"

// Point represents a vector point with metadata.
type Point struct {
	ID   string
	Vec  []float32
	Meta map[string]any
}

// SearchResult represents a search result from vector search.
// Score is cosine similarity, higher = more relevant.
type SearchResult struct {
	PointID string
	Score   float32
	Meta    map[string]any
}

// CollectionInfo contains information about a collection.
type CollectionInfo struct {
	VectorSize  int
	PointsCount int
	Status      string
}

// VectorStore defines the interface for vector storage operations.
// Each agent owns its own collection; the knowledge layer decides naming.
type VectorStore interface {
	// EnsureCollection creates the collection if missing and validates its
	// vector size if it already exists.
	EnsureCollection(ctx context.Context, collection string, vectorSize int) error

	// CollectionExists reports whether the collection exists.
	CollectionExists(ctx context.Context, collection string) (bool, error)

	// Upsert inserts or updates points in the collection.
	Upsert(ctx context.Context, collection string, points []Point) error

	// Search performs a similarity search. Results are returned best-first.
	Search(ctx context.Context, collection string, query []float32, k int) ([]SearchResult, error)

	// DeleteByFilename removes all points whose metadata filename matches.
	// Returns the number of points removed.
	DeleteByFilename(ctx context.Context, collection, filename string) (int, error)

	// DropCollection deletes the entire collection.
	DropCollection(ctx context.Context, collection string) error

	// GetCollectionInfo returns vector size, point count and status.
	GetCollectionInfo(ctx context.Context, collection string) (*CollectionInfo, error)
}
