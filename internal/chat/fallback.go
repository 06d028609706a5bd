package chat

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"techdesk-ai/internal/websearch"
)

// Bounds for the extractive fallback summary.
const (
	fallbackSummaryLines = 5
	fallbackSummaryChars = 300
	fallbackLinks        = 2
	noContextLinks       = 3
)

// FallbackResponse builds a deterministic, LLM-free answer: an extractive
// summary of the assembled context with up to 2 web links and a degraded-mode
// notice. When the context is empty it returns a "no documentation found"
// message with up to 3 links instead. It always returns a non-empty string;
// this is the last line of defense and must not fail.
func FallbackResponse(context, query string, links []websearch.Link) string {
	if context != "" {
		lines := strings.Split(context, "\n")
		if len(lines) > fallbackSummaryLines {
			lines = lines[:fallbackSummaryLines]
		}
		summary := strings.TrimSpace(strings.Join(lines, " "))
		if len(summary) > fallbackSummaryChars {
			// Back up to a rune boundary so the cut never splits a
			// multi-byte character ("°C", "⚠").
			cut := fallbackSummaryChars
			for cut > 0 && !utf8.RuneStart(summary[cut]) {
				cut--
			}
			summary = summary[:cut]
		}

		var b strings.Builder
		fmt.Fprintf(&b, "Here's what I found: %s...", summary)

		if len(links) > 0 {
			b.WriteString("\n\n**Helpful Links:**\n")
			for i, link := range links {
				if i >= fallbackLinks {
					break
				}
				fmt.Fprintf(&b, "%d. [%s](%s)\n", i+1, link.Title, link.URL)
			}
		}

		b.WriteString("\n(Note: LLM service temporarily unavailable - showing raw data)")
		return b.String()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "I couldn't find specific documentation for '%s'. ", query)
	if len(links) > 0 {
		b.WriteString("However, I found these helpful resources:\n\n")
		for i, link := range links {
			if i >= noContextLinks {
				break
			}
			fmt.Fprintf(&b, "%d. [%s](%s)\n", i+1, link.Title, link.URL)
		}
		b.WriteString("\nTry these links or upload relevant technical manuals for more specific help.")
	} else {
		b.WriteString("Try uploading relevant technical manuals or rephrasing your question.")
	}
	return b.String()
}
