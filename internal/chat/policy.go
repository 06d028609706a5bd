package chat

import (
	"regexp"
	"strings"
)

// Context-length thresholds for the web search decision. Below minContextLen
// the local context is judged insufficient outright; below productContextLen
// it is judged insufficient for part/model lookups specifically.
const (
	minContextLen     = 100
	productContextLen = 300
)

// webKeywords signal freshness or explicit online intent. Any occurrence in
// the message forces a web search regardless of local context quality.
var webKeywords = []string{
	"search online", "search web", "find online", "look up online",
	"google", "internet", "website", "url", "link", "online",
	"current", "latest", "recent", "new", "updated", "today",
	"official website", "manufacturer website", "download",
	"buy", "purchase", "price", "cost", "where to buy",
}

// productPatterns match queries that look like a specific part or model
// lookup the uploaded manuals may not cover.
var productPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b[A-Z]{2,}\d+[A-Z]*\b`), // product codes like UR10e, ABC123
	regexp.MustCompile(`(?i)\bmodel\s+\w+`),
	regexp.MustCompile(`(?i)\bpart\s+number`),
	regexp.MustCompile(`(?i)\bserial\s+number`),
}

// ShouldSearchWeb decides whether the query warrants a live web search given
// the assembled local context. Pure and deterministic; rules are evaluated in
// order and the first match wins:
//
//  1. the message contains a freshness/online keyword
//  2. the local context is empty or under 100 characters
//  3. the message looks like a part/model lookup and the context is under
//     300 characters
//
// Otherwise no search: substantial local documentation makes the external
// call unnecessary.
func ShouldSearchWeb(message, localContext string) bool {
	messageLower := strings.ToLower(message)
	for _, keyword := range webKeywords {
		if strings.Contains(messageLower, keyword) {
			return true
		}
	}

	contextLen := len(strings.TrimSpace(localContext))
	if contextLen < minContextLen {
		return true
	}

	for _, pattern := range productPatterns {
		if pattern.MatchString(message) {
			if contextLen < productContextLen {
				return true
			}
		}
	}

	return false
}
