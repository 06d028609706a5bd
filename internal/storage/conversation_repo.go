package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_conversation_store.go -package=mocks techdesk-ai/internal/storage ConversationStore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// maxTitleLength bounds conversation titles derived from the first message.
const maxTitleLength = 50

// ConversationStore defines the interface for conversation persistence.
type ConversationStore interface {
	// Create starts a new conversation titled after the first message.
	Create(ctx context.Context, agentName, firstMessage string) (*Conversation, error)
	// Get returns a conversation by ID. Returns ErrNotFound if missing.
	Get(ctx context.Context, id string) (*Conversation, error)
	// List returns conversations, newest activity first. An empty agentName
	// returns all conversations.
	List(ctx context.Context, agentName string) ([]Conversation, error)
	// AddMessage appends a message and bumps the conversation's updated_at.
	AddMessage(ctx context.Context, conversationID, sender, text string) (*Message, error)
	// Messages returns a conversation's messages in chronological order.
	Messages(ctx context.Context, conversationID string) ([]Message, error)
	// Delete removes a conversation and its messages.
	Delete(ctx context.Context, id string) error
}

// ConversationRepo provides methods for conversation operations.
// It implements the ConversationStore interface.
type ConversationRepo struct {
	db *sql.DB
}

// NewConversationRepo creates a new ConversationRepo.
func NewConversationRepo(db *sql.DB) *ConversationRepo {
	return &ConversationRepo{db: db}
}

// Create starts a new conversation. The title is the first message truncated
// to 50 characters, with "..." appended when cut.
func (r *ConversationRepo) Create(ctx context.Context, agentName, firstMessage string) (*Conversation, error) {
	id := uuid.NewString()
	title := deriveTitle(firstMessage)

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO conversations (id, agent_name, title) VALUES (?, ?, ?)",
		id, agentName, title,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	return r.Get(ctx, id)
}

// Get returns a conversation by ID with its message count.
// Returns ErrNotFound if not found.
func (r *ConversationRepo) Get(ctx context.Context, id string) (*Conversation, error) {
	var conv Conversation
	var createdAtStr, updatedAtStr string
	err := r.db.QueryRowContext(ctx,
		`SELECT c.id, c.agent_name, c.title, c.created_at, c.updated_at,
			(SELECT COUNT(*) FROM messages m WHERE m.conversation_id = c.id)
		FROM conversations c WHERE c.id = ?`,
		id,
	).Scan(&conv.ID, &conv.AgentName, &conv.Title, &createdAtStr, &updatedAtStr, &conv.MessageCount)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}

	conv.CreatedAt = parseTimestamp(createdAtStr)
	conv.UpdatedAt = parseTimestamp(updatedAtStr)
	return &conv, nil
}

// List returns conversations ordered by most recent activity. When agentName
// is empty, conversations for all agents are returned.
func (r *ConversationRepo) List(ctx context.Context, agentName string) ([]Conversation, error) {
	query := `SELECT c.id, c.agent_name, c.title, c.created_at, c.updated_at,
		(SELECT COUNT(*) FROM messages m WHERE m.conversation_id = c.id)
	FROM conversations c`
	args := []any{}
	if agentName != "" {
		query += " WHERE c.agent_name = ?"
		args = append(args, agentName)
	}
	query += " ORDER BY c.updated_at DESC, c.id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	conversations := []Conversation{}
	for rows.Next() {
		var conv Conversation
		var createdAtStr, updatedAtStr string
		if err := rows.Scan(&conv.ID, &conv.AgentName, &conv.Title, &createdAtStr, &updatedAtStr, &conv.MessageCount); err != nil {
			return nil, err
		}
		conv.CreatedAt = parseTimestamp(createdAtStr)
		conv.UpdatedAt = parseTimestamp(updatedAtStr)
		conversations = append(conversations, conv)
	}
	return conversations, rows.Err()
}

// AddMessage appends a message to a conversation.
// Returns ErrNotFound if the conversation does not exist.
func (r *ConversationRepo) AddMessage(ctx context.Context, conversationID, sender, text string) (*Message, error) {
	if _, err := r.Get(ctx, conversationID); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO messages (id, conversation_id, sender, text) VALUES (?, ?, ?, ?)",
		id, conversationID, sender, text,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add message: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		"UPDATE conversations SET updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		conversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to touch conversation: %w", err)
	}

	var msg Message
	var createdAtStr string
	err = r.db.QueryRowContext(ctx,
		"SELECT id, conversation_id, sender, text, created_at FROM messages WHERE id = ?",
		id,
	).Scan(&msg.ID, &msg.ConversationID, &msg.Sender, &msg.Text, &createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("failed to read message back: %w", err)
	}
	msg.CreatedAt = parseTimestamp(createdAtStr)
	return &msg, nil
}

// Messages returns all messages for a conversation in insertion order.
func (r *ConversationRepo) Messages(ctx context.Context, conversationID string) ([]Message, error) {
	if _, err := r.Get(ctx, conversationID); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT id, conversation_id, sender, text, created_at FROM messages WHERE conversation_id = ? ORDER BY created_at, rowid",
		conversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	messages := []Message{}
	for rows.Next() {
		var msg Message
		var createdAtStr string
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.Sender, &msg.Text, &createdAtStr); err != nil {
			return nil, err
		}
		msg.CreatedAt = parseTimestamp(createdAtStr)
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// Delete removes a conversation. Messages cascade.
func (r *ConversationRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM conversations WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// deriveTitle builds a conversation title from the first message.
func deriveTitle(firstMessage string) string {
	runes := []rune(firstMessage)
	if len(runes) <= maxTitleLength {
		return firstMessage
	}
	return string(runes[:maxTitleLength]) + "..."
}
