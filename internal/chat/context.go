package chat

import (
	"fmt"
	"strings"

	"techdesk-ai/internal/knowledge"
	"techdesk-ai/internal/websearch"
)

// maxContextChunks bounds how many retrieved chunks enter the context.
const maxContextChunks = 3

// BuildContext merges retrieved chunks and web search text into a single
// bounded context string, preserving source attribution. At most the top 3
// chunks are included, each labeled with its originating filename. The web
// text block is appended under its own heading when non-empty. Returns the
// empty string when both inputs are empty; callers must treat that as "no
// information available" rather than prompting on an empty context.
func BuildContext(chunks []knowledge.Chunk, web websearch.Result) string {
	var parts []string

	if len(chunks) > 0 {
		var doc strings.Builder
		doc.WriteString("Technical Documentation:\n")
		for i, chunk := range chunks {
			if i >= maxContextChunks {
				break
			}
			fmt.Fprintf(&doc, "\n[Source %d: %s]\n%s\n", i+1, chunk.Filename(), strings.TrimSpace(chunk.Text))
		}
		parts = append(parts, doc.String())
	}

	if web.Text != "" {
		parts = append(parts, "Web Search Results:\n"+web.Text)
	}

	return strings.Join(parts, "\n\n")
}
