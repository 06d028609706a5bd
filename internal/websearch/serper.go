// Package websearch provides a client for the Serper.dev Google search API.
package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"techdesk-ai/internal/contextutil"
)

const defaultBaseURL = "https://google.serper.dev"

// maxOrganicResults caps how many organic listings are folded into a Result.
const maxOrganicResults = 5

// Link is a single web reference extracted from search results.
type Link struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Result is the parsed outcome of one web search: a markdown-ish text block
// for prompt context plus the links in relevance order (knowledge panel and
// answer box first, then organic listings).
type Result struct {
	Text  string `json:"text"`
	Links []Link `json:"links"`
}

// Empty reports whether the search produced no usable content.
func (r Result) Empty() bool {
	return r.Text == "" && len(r.Links) == 0
}

// Client is a client for the Serper.dev search API.
type Client struct {
	BaseURL string
	APIKey  string
	client  *http.Client
}

// NewClient creates a new Serper client.
func NewClient(apiKey string) *Client {
	return &Client{
		BaseURL: defaultBaseURL,
		APIKey:  apiKey,
		client:  http.DefaultClient,
	}
}

type searchRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num,omitempty"`
}

type organicEntry struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

type answerBox struct {
	Answer string `json:"answer"`
	Link   string `json:"link"`
}

type knowledgeGraph struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Website     string `json:"website"`
}

type searchResponse struct {
	KnowledgeGraph *knowledgeGraph `json:"knowledgeGraph"`
	AnswerBox      *answerBox      `json:"answerBox"`
	Organic        []organicEntry  `json:"organic"`
}

// Search performs a web search and returns the parsed result.
// On failure it returns a zero Result along with the error; callers are
// expected to degrade rather than abort.
func (c *Client) Search(ctx context.Context, query string) (Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	payload := searchRequest{Q: query, Num: maxOrganicResults}
	body, err := json.Marshal(payload)
	if err != nil {
		return Result{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/search", bytes.NewBuffer(body))
	if err != nil {
		return Result{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return Result{}, fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw))
	}

	var searchResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return Result{}, fmt.Errorf("failed to decode response: %w", err)
	}

	result := parseResponse(searchResp)
	logger.DebugContext(ctx, "web search completed", "query", query, "links", len(result.Links), "text_length", len(result.Text))
	return result, nil
}

// parseResponse flattens a Serper response into a Result. Knowledge graph and
// answer box entries lead both the text and the link list; organic results
// follow, capped at maxOrganicResults.
func parseResponse(resp searchResponse) Result {
	var textParts []string
	var links []Link

	if kg := resp.KnowledgeGraph; kg != nil && kg.Title != "" && kg.Description != "" {
		textParts = append(textParts, fmt.Sprintf("**%s**\n%s\n", kg.Title, kg.Description))
		if kg.Website != "" {
			links = append(links, Link{
				Title:   kg.Title,
				URL:     kg.Website,
				Snippet: truncateSnippet(kg.Description),
			})
		}
	}

	if ab := resp.AnswerBox; ab != nil && ab.Answer != "" {
		textParts = append(textParts, fmt.Sprintf("**Quick Answer:** %s\n", ab.Answer))
		if ab.Link != "" {
			links = append(links, Link{
				Title:   "Answer Source",
				URL:     ab.Link,
				Snippet: truncateSnippet(ab.Answer),
			})
		}
	}

	for i, entry := range resp.Organic {
		if i >= maxOrganicResults {
			break
		}
		if entry.Title == "" || entry.Link == "" {
			continue
		}
		links = append(links, Link{
			Title:   entry.Title,
			URL:     entry.Link,
			Snippet: truncateSnippet(entry.Snippet),
		})
		textParts = append(textParts, fmt.Sprintf("**%s**\n%s\nSource: %s\n", entry.Title, entry.Snippet, entry.Link))
	}

	return Result{
		Text:  strings.Join(textParts, "\n\n"),
		Links: links,
	}
}

// truncateSnippet cuts snippets to 200 bytes for source display, backing up
// to a rune boundary so multi-byte characters are never split.
func truncateSnippet(s string) string {
	if len(s) <= 200 {
		return s
	}
	cut := 200
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
