package storage

import "time"

// Agent represents a named knowledge domain with its own document collection.
type Agent struct {
	ID          string // UUID
	Name        string // Unique display name
	Description string
	Collection  string // Vector store collection name
	TotalChunks int    // Running count of indexed chunks
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Files       []string // Filenames already processed for this agent
}

// Conversation represents one chat thread with an agent.
type Conversation struct {
	ID           string // UUID
	AgentName    string // Empty for the global knowledge base
	Title        string // Derived from the first message
	MessageCount int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Message represents a single message within a conversation.
type Message struct {
	ID             string // UUID
	ConversationID string
	Sender         string // "user" or "assistant"
	Text           string
	CreatedAt      time.Time
}
