package indexer

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"techdesk-ai/internal/contextutil"
	"techdesk-ai/internal/knowledge"
	"techdesk-ai/internal/storage"
)

// DocumentParser converts an uploaded PDF into markdown.
// *ParserClient satisfies this.
type DocumentParser interface {
	Parse(ctx context.Context, path, filename string) ([]byte, error)
}

// Pipeline runs the full ingest flow for one uploaded manual: parse to
// markdown, chunk along the heading structure, embed and index, and record
// the file against its agent.
type Pipeline struct {
	parser  DocumentParser
	chunker *GoldmarkChunker
	kb      *knowledge.Service
	agents  storage.AgentStore
}

// NewPipeline creates an ingest pipeline.
func NewPipeline(parser DocumentParser, kb *knowledge.Service, agents storage.AgentStore) *Pipeline {
	return &Pipeline{
		parser:  parser,
		chunker: NewGoldmarkChunker(),
		kb:      kb,
		agents:  agents,
	}
}

// ErrDuplicateFile reports an upload whose filename the agent already has.
var ErrDuplicateFile = fmt.Errorf("file already processed for this agent")

// IngestPDF processes one uploaded PDF for an agent and returns the number of
// chunks indexed. Re-uploading a filename the agent already has returns
// ErrDuplicateFile without touching the index.
func (p *Pipeline) IngestPDF(ctx context.Context, agentName, path, filename string) (int, error) {
	logger := contextutil.LoggerFromContext(ctx)

	agent, err := p.agents.GetByName(ctx, agentName)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve agent %q: %w", agentName, err)
	}

	has, err := p.agents.HasFile(ctx, agentName, filename)
	if err != nil {
		return 0, err
	}
	if has {
		return 0, ErrDuplicateFile
	}

	markdown, err := p.parser.Parse(ctx, path, filename)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", filename, err)
	}

	title, chunks, err := p.chunker.ChunkMarkdown(markdown, filename)
	if err != nil {
		return 0, fmt.Errorf("failed to chunk %s: %w", filename, err)
	}

	ingest := make([]knowledge.IngestChunk, 0, len(chunks))
	uploadTime := time.Now().UTC().Format(time.RFC3339)
	for _, chunk := range chunks {
		ingest = append(ingest, knowledge.IngestChunk{
			Text: chunk.Text,
			Metadata: map[string]any{
				"filename":     filename,
				"title":        title,
				"heading_path": chunk.HeadingPath,
				"chunk_index":  chunk.Index,
				"total_chunks": len(chunks),
				"upload_time":  uploadTime,
				"source":       "document",
				"content_type": classifyContent(chunk.Text),
				"word_count":   len(strings.Fields(chunk.Text)),
			},
		})
	}

	indexed, err := p.kb.AddChunks(ctx, agent.Collection, ingest)
	if err != nil {
		return 0, err
	}

	if err := p.agents.RecordFile(ctx, agentName, filename, indexed); err != nil {
		return 0, err
	}

	logger.InfoContext(ctx, "document ingested",
		"agent", agentName, "filename", filename, "title", title, "chunks", indexed)
	return indexed, nil
}

// RemoveFile deletes a file's chunks from the agent's collection and unmarks
// it in the agent record. Returns how many chunks were removed.
func (p *Pipeline) RemoveFile(ctx context.Context, agentName, filename string) (int, error) {
	agent, err := p.agents.GetByName(ctx, agentName)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve agent %q: %w", agentName, err)
	}

	removed, err := p.kb.DeleteFile(ctx, agent.Collection, filename)
	if err != nil {
		return 0, err
	}

	if err := p.agents.RemoveFile(ctx, agentName, filename, removed); err != nil {
		return 0, err
	}
	return removed, nil
}

// classifyContent tags a chunk with a rough content type used for retrieval
// diagnostics.
func classifyContent(text string) string {
	switch {
	case strings.Contains(text, "```"):
		return "code"
	case strings.Contains(text, "|") && strings.Contains(text, "---"):
		return "table"
	case hasListLines(text):
		return "list"
	case utf8.RuneCountInString(text) > 0 && len(strings.Fields(text)) < 20:
		return "title_or_caption"
	default:
		return "paragraph"
	}
}

func hasListLines(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "* ") || strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "1. ") {
			return true
		}
	}
	return false
}
