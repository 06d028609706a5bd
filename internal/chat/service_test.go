package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"techdesk-ai/internal/chat/mocks"
	"techdesk-ai/internal/knowledge"
	"techdesk-ai/internal/llm"
	"techdesk-ai/internal/websearch"
)

var testParams = llm.ChatParams{Model: "openai/gpt-4o-mini", MaxTokens: 500, Temperature: 0.2}

func resetChunk() knowledge.Chunk {
	return knowledge.Chunk{
		Text:            "Press reset for 5 seconds",
		Metadata:        map[string]any{"filename": "manual.pdf"},
		SimilarityScore: 0.92,
		Rank:            1,
	}
}

// longChunks yields enough context that the decision policy skips web search.
func longChunks() []knowledge.Chunk {
	return []knowledge.Chunk{
		{Text: strings.Repeat("The pump assembly requires regular maintenance. ", 10), Metadata: map[string]any{"filename": "pump.pdf"}, SimilarityScore: 0.88, Rank: 1},
		{Text: strings.Repeat("Inspect the seals every six months. ", 10), Metadata: map[string]any{"filename": "seals.pdf"}, SimilarityScore: 0.81, Rank: 2},
	}
}

func TestService_AnswerEndToEnd(t *testing.T) {
	ctrl := gomock.NewController(t)
	retriever := mocks.NewMockRetriever(ctrl)
	generator := mocks.NewMockGenerator(ctrl)
	ctx := context.Background()

	retriever.EXPECT().Retrieve(ctx, "", "How do I reset the system?", 5).
		Return([]knowledge.Chunk{resetChunk()}, nil)
	generator.EXPECT().Chat(ctx, gomock.Any(), testParams).
		Return("Press and hold the reset button for 5 seconds.", nil)

	// Web search unconfigured.
	svc := NewService(NewQueryCache(10), retriever, nil, generator, testParams, 5)

	resp := svc.Answer(ctx, Request{Message: "How do I reset the system?"})

	if resp.Text != "Press and hold the reset button for 5 seconds." {
		t.Errorf("Text = %q", resp.Text)
	}
	if resp.ChunksFound != 1 {
		t.Errorf("ChunksFound = %d, want 1", resp.ChunksFound)
	}
	if len(resp.Sources) != 1 {
		t.Fatalf("Sources = %+v, want exactly one", resp.Sources)
	}
	src := resp.Sources[0]
	if src.Filename != "manual.pdf" || src.SimilarityScore != 0.92 || src.SourceType != SourceTypeDocument {
		t.Errorf("source = %+v", src)
	}
}

func TestService_NoContextShortCircuit(t *testing.T) {
	ctrl := gomock.NewController(t)
	retriever := mocks.NewMockRetriever(ctrl)
	web := mocks.NewMockWebSearcher(ctrl)
	generator := mocks.NewMockGenerator(ctrl)
	ctx := context.Background()

	retriever.EXPECT().Retrieve(ctx, "hvac", "anything known?", 5).
		Return([]knowledge.Chunk{}, nil)
	// Empty local context triggers a web search, which also comes back empty.
	web.EXPECT().Search(ctx, "anything known?").Return(websearch.Result{}, nil)
	// Generator must never be invoked: no expectation is set on it.

	svc := NewService(NewQueryCache(10), retriever, web, generator, testParams, 5)

	resp := svc.Answer(ctx, Request{Message: "anything known?", AgentName: "hvac"})

	if resp.Text != noContextMessage {
		t.Errorf("Text = %q, want the canned no-context message", resp.Text)
	}
	if resp.ChunksFound != 0 {
		t.Errorf("ChunksFound = %d, want 0", resp.ChunksFound)
	}
	if len(resp.Sources) != 0 {
		t.Errorf("Sources = %+v, want none", resp.Sources)
	}
}

func TestService_LinkLeakageGuard(t *testing.T) {
	ctrl := gomock.NewController(t)
	retriever := mocks.NewMockRetriever(ctrl)
	web := mocks.NewMockWebSearcher(ctrl)
	generator := mocks.NewMockGenerator(ctrl)
	ctx := context.Background()

	retriever.EXPECT().Retrieve(ctx, "", "why does it keep shutting off", 5).
		Return(longChunks(), nil)
	// Policy says no: the web searcher must never be called.
	var gotPrompt []llm.Message
	generator.EXPECT().Chat(ctx, gomock.Any(), testParams).DoAndReturn(
		func(_ context.Context, messages []llm.Message, _ llm.ChatParams) (string, error) {
			gotPrompt = messages
			return "Check the thermal cutoff.", nil
		})

	svc := NewService(NewQueryCache(10), retriever, web, generator, testParams, 5)

	resp := svc.Answer(ctx, Request{Message: "why does it keep shutting off"})

	for _, src := range resp.Sources {
		if src.SourceType == SourceTypeWebLink {
			t.Errorf("web link leaked into sources: %+v", src)
		}
	}
	for _, msg := range gotPrompt {
		if strings.Contains(msg.Content, "RELEVANT LINKS") {
			t.Error("links section leaked into prompt")
		}
	}
}

func TestService_WebSearchEnrichesResponse(t *testing.T) {
	ctrl := gomock.NewController(t)
	retriever := mocks.NewMockRetriever(ctrl)
	web := mocks.NewMockWebSearcher(ctrl)
	generator := mocks.NewMockGenerator(ctrl)
	ctx := context.Background()

	retriever.EXPECT().Retrieve(ctx, "", "find the official website for the X200", 5).
		Return([]knowledge.Chunk{resetChunk()}, nil)
	web.EXPECT().Search(ctx, "find the official website for the X200").Return(websearch.Result{
		Text:  "**Vendor**\nOfficial product page\n",
		Links: []websearch.Link{{Title: "Vendor", URL: "https://vendor.example.com"}},
	}, nil)
	generator.EXPECT().Chat(ctx, gomock.Any(), testParams).
		Return("You can find it on the vendor site.", nil)

	svc := NewService(NewQueryCache(10), retriever, web, generator, testParams, 5)

	resp := svc.Answer(ctx, Request{Message: "find the official website for the X200"})

	var webSources int
	for _, src := range resp.Sources {
		if src.SourceType == SourceTypeWebLink {
			webSources++
			if src.URL != "https://vendor.example.com" {
				t.Errorf("web source URL = %q", src.URL)
			}
		}
	}
	if webSources != 1 {
		t.Errorf("web sources = %d, want 1", webSources)
	}
}

func TestService_GenerationFailureFallsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	retriever := mocks.NewMockRetriever(ctrl)
	generator := mocks.NewMockGenerator(ctrl)
	ctx := context.Background()

	retriever.EXPECT().Retrieve(ctx, "", "general question", 5).Return(longChunks(), nil)
	generator.EXPECT().Chat(ctx, gomock.Any(), testParams).
		Return("", errors.New("rate limited"))

	svc := NewService(NewQueryCache(10), retriever, nil, generator, testParams, 5)

	resp := svc.Answer(ctx, Request{Message: "general question"})

	if !strings.HasPrefix(resp.Text, "Here's what I found: ") {
		t.Errorf("Text = %q, want the extractive fallback", resp.Text)
	}
	if !strings.Contains(resp.Text, "LLM service temporarily unavailable") {
		t.Errorf("fallback missing degraded-mode notice: %q", resp.Text)
	}
	if resp.ChunksFound != 2 {
		t.Errorf("ChunksFound = %d, want 2", resp.ChunksFound)
	}
}

func TestService_NoGeneratorUsesFallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	retriever := mocks.NewMockRetriever(ctrl)
	ctx := context.Background()

	retriever.EXPECT().Retrieve(ctx, "", "general question", 5).Return(longChunks(), nil)

	svc := NewService(NewQueryCache(10), retriever, nil, nil, testParams, 5)

	resp := svc.Answer(ctx, Request{Message: "general question"})

	if !strings.HasPrefix(resp.Text, "Here's what I found: ") {
		t.Errorf("Text = %q, want the extractive fallback", resp.Text)
	}
	if len(resp.Sources) != 2 {
		t.Errorf("Sources = %+v, want both documents", resp.Sources)
	}
}

func TestService_RetrievalErrorDegrades(t *testing.T) {
	ctrl := gomock.NewController(t)
	retriever := mocks.NewMockRetriever(ctrl)
	web := mocks.NewMockWebSearcher(ctrl)
	ctx := context.Background()

	retriever.EXPECT().Retrieve(ctx, "", "how to drain", 5).
		Return(nil, errors.New("vector store down"))
	// Zero chunks means empty context, so the policy orders a web search.
	web.EXPECT().Search(ctx, "how to drain").Return(websearch.Result{
		Text:  "**Drain guide**\nOpen the valve slowly\n",
		Links: []websearch.Link{{Title: "Drain guide", URL: "https://example.com/drain"}},
	}, nil)

	svc := NewService(NewQueryCache(10), retriever, web, nil, testParams, 5)

	resp := svc.Answer(ctx, Request{Message: "how to drain"})

	if resp.ChunksFound != 0 {
		t.Errorf("ChunksFound = %d, want 0", resp.ChunksFound)
	}
	if resp.Text == errorMessage {
		t.Error("retrieval failure surfaced as a pipeline fault, want graceful degrade")
	}
	if !strings.Contains(resp.Text, "Drain guide") {
		t.Errorf("web-only fallback missing link: %q", resp.Text)
	}
}

func TestService_WebSearchErrorDegrades(t *testing.T) {
	ctrl := gomock.NewController(t)
	retriever := mocks.NewMockRetriever(ctrl)
	web := mocks.NewMockWebSearcher(ctrl)
	generator := mocks.NewMockGenerator(ctrl)
	ctx := context.Background()

	retriever.EXPECT().Retrieve(ctx, "", "latest firmware for the panel", 5).
		Return([]knowledge.Chunk{resetChunk()}, nil)
	web.EXPECT().Search(ctx, "latest firmware for the panel").
		Return(websearch.Result{}, errors.New("serper 500"))
	generator.EXPECT().Chat(ctx, gomock.Any(), testParams).
		Return("The manual covers the reset procedure.", nil)

	svc := NewService(NewQueryCache(10), retriever, web, generator, testParams, 5)

	resp := svc.Answer(ctx, Request{Message: "latest firmware for the panel"})

	if resp.ChunksFound != 1 {
		t.Errorf("ChunksFound = %d, want 1", resp.ChunksFound)
	}
	for _, src := range resp.Sources {
		if src.SourceType == SourceTypeWebLink {
			t.Errorf("failed web search produced a source: %+v", src)
		}
	}
}

func TestService_CacheAvoidsSecondRetrieval(t *testing.T) {
	ctrl := gomock.NewController(t)
	retriever := mocks.NewMockRetriever(ctrl)
	generator := mocks.NewMockGenerator(ctrl)
	ctx := context.Background()

	retriever.EXPECT().Retrieve(ctx, "hvac", "General Question", 5).
		Return(longChunks(), nil).Times(1)
	generator.EXPECT().Chat(ctx, gomock.Any(), testParams).
		Return("answer", nil).Times(2)

	svc := NewService(NewQueryCache(10), retriever, nil, generator, testParams, 5)

	first := svc.Answer(ctx, Request{Message: "General Question", AgentName: "hvac"})
	// Case and whitespace variants share the cache entry.
	second := svc.Answer(ctx, Request{Message: "  general question ", AgentName: "hvac"})

	if first.ChunksFound != second.ChunksFound {
		t.Errorf("cached retrieval differs: %d vs %d chunks", first.ChunksFound, second.ChunksFound)
	}
}

func TestService_PanicConvertsToGenericResponse(t *testing.T) {
	ctrl := gomock.NewController(t)
	retriever := mocks.NewMockRetriever(ctrl)
	ctx := context.Background()

	retriever.EXPECT().Retrieve(ctx, "", "boom", 5).DoAndReturn(
		func(context.Context, string, string, int) ([]knowledge.Chunk, error) {
			panic("collaborator bug")
		})

	svc := NewService(NewQueryCache(10), retriever, nil, nil, testParams, 5)

	resp := svc.Answer(ctx, Request{Message: "boom", ConversationID: "conv-1"})

	if resp.Text != errorMessage {
		t.Errorf("Text = %q, want the generic error message", resp.Text)
	}
	if resp.ChunksFound != 0 || len(resp.Sources) != 0 {
		t.Errorf("degraded response not empty: %+v", resp)
	}
	if resp.ConversationID != "conv-1" {
		t.Errorf("ConversationID = %q, want conv-1", resp.ConversationID)
	}
}

func TestService_ServiceStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	retriever := mocks.NewMockRetriever(ctrl)

	svc := NewService(NewQueryCache(10), retriever, nil, nil, testParams, 5)
	status := svc.ServiceStatus()

	if status.LLMAvailable {
		t.Error("LLMAvailable = true without a generator")
	}
	if status.WebSearchAvailable {
		t.Error("WebSearchAvailable = true without a searcher")
	}
	if status.CachedQueries != 0 {
		t.Errorf("CachedQueries = %d, want 0", status.CachedQueries)
	}
}
