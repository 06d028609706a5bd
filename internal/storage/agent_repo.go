package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_agent_store.go -package=mocks techdesk-ai/internal/storage AgentStore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AgentStore defines the interface for agent persistence.
type AgentStore interface {
	// Create inserts a new agent. Returns an error if the name is taken.
	Create(ctx context.Context, name, description, collection string) (*Agent, error)
	// GetByName gets an agent by name. Returns ErrNotFound if missing.
	GetByName(ctx context.Context, name string) (*Agent, error)
	// ListAll returns all agents ordered by name.
	ListAll(ctx context.Context) ([]Agent, error)
	// Delete removes an agent and its file records. Returns ErrNotFound if missing.
	Delete(ctx context.Context, name string) error
	// HasFile reports whether the agent has already processed filename.
	HasFile(ctx context.Context, name, filename string) (bool, error)
	// RecordFile marks filename as processed and bumps the chunk counter.
	RecordFile(ctx context.Context, name, filename string, chunkCount int) error
	// RemoveFile unmarks filename and decrements the chunk counter.
	RemoveFile(ctx context.Context, name, filename string, chunkCount int) error
}

// AgentRepo provides methods for agent operations.
// It implements the AgentStore interface.
type AgentRepo struct {
	db *sql.DB
}

// NewAgentRepo creates a new AgentRepo.
func NewAgentRepo(db *sql.DB) *AgentRepo {
	return &AgentRepo{db: db}
}

// Create inserts a new agent.
func (r *AgentRepo) Create(ctx context.Context, name, description, collection string) (*Agent, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO agents (id, name, description, collection) VALUES (?, ?, ?, ?)",
		id, name, description, collection,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}
	return r.GetByName(ctx, name)
}

// GetByName gets an agent by name, including its processed files.
// Returns ErrNotFound if not found.
func (r *AgentRepo) GetByName(ctx context.Context, name string) (*Agent, error) {
	var agent Agent
	var createdAtStr, updatedAtStr string
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, description, collection, total_chunks, created_at, updated_at FROM agents WHERE name = ?",
		name,
	).Scan(&agent.ID, &agent.Name, &agent.Description, &agent.Collection, &agent.TotalChunks, &createdAtStr, &updatedAtStr)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get agent: %w", err)
	}

	agent.CreatedAt = parseTimestamp(createdAtStr)
	agent.UpdatedAt = parseTimestamp(updatedAtStr)

	files, err := r.listFiles(ctx, agent.ID)
	if err != nil {
		return nil, err
	}
	agent.Files = files

	return &agent, nil
}

// ListAll returns all agents ordered by name, each with its processed files.
func (r *AgentRepo) ListAll(ctx context.Context) ([]Agent, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, description, collection, total_chunks, created_at, updated_at FROM agents ORDER BY name",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}
	defer rows.Close()

	var agents []Agent
	for rows.Next() {
		var agent Agent
		var createdAtStr, updatedAtStr string
		if err := rows.Scan(&agent.ID, &agent.Name, &agent.Description, &agent.Collection, &agent.TotalChunks, &createdAtStr, &updatedAtStr); err != nil {
			return nil, err
		}
		agent.CreatedAt = parseTimestamp(createdAtStr)
		agent.UpdatedAt = parseTimestamp(updatedAtStr)
		agents = append(agents, agent)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range agents {
		files, err := r.listFiles(ctx, agents[i].ID)
		if err != nil {
			return nil, err
		}
		agents[i].Files = files
	}

	return agents, nil
}

// Delete removes an agent. File records cascade.
func (r *AgentRepo) Delete(ctx context.Context, name string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM agents WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("failed to delete agent: %w", err)
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

// HasFile reports whether the agent has already processed filename.
func (r *AgentRepo) HasFile(ctx context.Context, name, filename string) (bool, error) {
	agent, err := r.GetByName(ctx, name)
	if err != nil {
		return false, err
	}

	var count int
	err = r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM agent_files WHERE agent_id = ? AND filename = ?",
		agent.ID, filename,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check agent file: %w", err)
	}
	return count > 0, nil
}

// RecordFile marks filename as processed for the agent and adds chunkCount
// to its running chunk total.
func (r *AgentRepo) RecordFile(ctx context.Context, name, filename string, chunkCount int) error {
	agent, err := r.GetByName(ctx, name)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO agent_files (agent_id, filename) VALUES (?, ?)",
		agent.ID, filename,
	)
	if err != nil {
		return fmt.Errorf("failed to record agent file: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		"UPDATE agents SET total_chunks = total_chunks + ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		chunkCount, agent.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update agent counters: %w", err)
	}
	return nil
}

// RemoveFile unmarks filename for the agent and subtracts chunkCount from
// its running chunk total (floored at zero).
func (r *AgentRepo) RemoveFile(ctx context.Context, name, filename string, chunkCount int) error {
	agent, err := r.GetByName(ctx, name)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		"DELETE FROM agent_files WHERE agent_id = ? AND filename = ?",
		agent.ID, filename,
	)
	if err != nil {
		return fmt.Errorf("failed to remove agent file: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		"UPDATE agents SET total_chunks = MAX(total_chunks - ?, 0), updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		chunkCount, agent.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update agent counters: %w", err)
	}
	return nil
}

// listFiles returns the filenames recorded for an agent, oldest first.
func (r *AgentRepo) listFiles(ctx context.Context, agentID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT filename FROM agent_files WHERE agent_id = ? ORDER BY uploaded_at, filename",
		agentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list agent files: %w", err)
	}
	defer rows.Close()

	files := []string{}
	for rows.Next() {
		var filename string
		if err := rows.Scan(&filename); err != nil {
			return nil, err
		}
		files = append(files, filename)
	}
	return files, rows.Err()
}

// parseTimestamp parses SQLite DATETIME strings, trying the default format
// first and RFC3339 as a fallback. Returns zero time on failure.
func parseTimestamp(s string) time.Time {
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}
