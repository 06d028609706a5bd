package knowledge

// Chunk is one retrievable unit of previously ingested document text.
// Chunks are produced per query by vector search and are immutable once
// returned; they are never persisted by the query pipeline.
type Chunk struct {
	// Text is the chunk content.
	Text string `json:"text"`
	// Metadata carries provenance (filename, upload_time, section, ...).
	Metadata map[string]any `json:"metadata"`
	// SimilarityScore is the cosine similarity to the query, higher = more
	// relevant, 1.0 = identical.
	SimilarityScore float64 `json:"similarity_score"`
	// Rank is the 1-based position in the retrieval results.
	Rank int `json:"rank"`
}

// Filename returns the originating filename from metadata, or "Unknown"
// when the chunk carries no filename.
func (c Chunk) Filename() string {
	if name, ok := c.Metadata["filename"].(string); ok && name != "" {
		return name
	}
	return "Unknown"
}

// IngestChunk is a chunk handed to AddChunks for indexing.
type IngestChunk struct {
	// ID is the stable chunk identifier. A random UUID is assigned if empty.
	ID string `json:"chunk_id,omitempty"`
	// Text is the chunk content.
	Text string `json:"text"`
	// Metadata carries provenance attached to the stored point.
	Metadata map[string]any `json:"metadata"`
}

// Stats describes one knowledge-base collection.
type Stats struct {
	TotalChunks int    `json:"total_chunks"`
	VectorSize  int    `json:"vector_size"`
	Status      string `json:"status"`
}
