package chat

// Request is one user query entering the pipeline.
type Request struct {
	// Message is the user's question.
	Message string `json:"message"`
	// AgentName selects the agent's knowledge base. Empty targets the
	// shared global collection.
	AgentName string `json:"agent_name,omitempty"`
	// ConversationID threads the exchange into an existing conversation.
	ConversationID string `json:"conversation_id,omitempty"`
}

// Source records the provenance of one piece of the answer. Every source
// traces back to a chunk retrieved for this query or a link returned by a
// web search performed for this query.
type Source struct {
	// Filename is the document filename, or the link title for web sources.
	Filename string `json:"filename"`
	// SimilarityScore is the chunk's similarity rounded to 3 decimals.
	// Always 0.0 for web links.
	SimilarityScore float64 `json:"similarity_score"`
	// SourceType is "document" or "web_link".
	SourceType string `json:"source_type"`
	// URL is set for web links only.
	URL string `json:"url,omitempty"`
	// Snippet is set for web links only.
	Snippet string `json:"snippet,omitempty"`
	// UploadTime is set for documents that carry one in metadata.
	UploadTime string `json:"upload_time,omitempty"`
}

// Response is the unit returned to the caller. It is constructed fresh per
// query and never mutated after return.
type Response struct {
	Text           string   `json:"response"`
	Sources        []Source `json:"sources"`
	ChunksFound    int      `json:"chunks_found"`
	ConversationID string   `json:"conversation_id,omitempty"`
}

// SourceTypeDocument and SourceTypeWebLink are the two Source kinds.
const (
	SourceTypeDocument = "document"
	SourceTypeWebLink  = "web_link"
)
