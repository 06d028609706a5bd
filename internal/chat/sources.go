package chat

import (
	"math"

	"techdesk-ai/internal/knowledge"
	"techdesk-ai/internal/websearch"
)

// Caps on the provenance list attached to an answer.
const (
	maxDocumentSources = 5
	maxWebSources      = 3
)

// ExtractSources builds the deduplicated provenance list for a response.
// Document sources come first in retrieval rank order, one per distinct
// filename (chunks without a filename are skipped), capped at 5. Web sources
// follow, capped at 3, with similarity fixed at 0.0 since they are not
// vector matches.
func ExtractSources(chunks []knowledge.Chunk, links []websearch.Link) []Source {
	sources := []Source{}
	seen := make(map[string]bool)

	for i, chunk := range chunks {
		if i >= maxDocumentSources {
			break
		}
		filename := chunk.Filename()
		if filename == "Unknown" || seen[filename] {
			continue
		}
		seen[filename] = true

		sourceType := SourceTypeDocument
		if st, ok := chunk.Metadata["source"].(string); ok && st != "" {
			sourceType = st
		}
		uploadTime := "unknown"
		if ut, ok := chunk.Metadata["upload_time"].(string); ok && ut != "" {
			uploadTime = ut
		}

		sources = append(sources, Source{
			Filename:        filename,
			SimilarityScore: roundScore(chunk.SimilarityScore),
			SourceType:      sourceType,
			UploadTime:      uploadTime,
		})
	}

	for i, link := range links {
		if i >= maxWebSources {
			break
		}
		title := link.Title
		if title == "" {
			title = "Web Result"
		}
		sources = append(sources, Source{
			Filename:        title,
			SimilarityScore: 0.0,
			SourceType:      SourceTypeWebLink,
			URL:             link.URL,
			Snippet:         link.Snippet,
		})
	}

	return sources
}

// roundScore rounds a similarity score to 3 decimal places.
func roundScore(score float64) float64 {
	return math.Round(score*1000) / 1000
}
