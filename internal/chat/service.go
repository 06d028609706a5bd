package chat

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_collaborators.go -package=mocks techdesk-ai/internal/chat Retriever,WebSearcher,Generator

import (
	"context"

	"techdesk-ai/internal/contextutil"
	"techdesk-ai/internal/knowledge"
	"techdesk-ai/internal/llm"
	"techdesk-ai/internal/websearch"
)

// Canned user-facing messages for the two degraded terminal states.
const (
	noContextMessage = "I'm sorry, I couldn't find any relevant information for your query. Please upload relevant technical documentation or try rephrasing your question."
	errorMessage     = "I apologize, but I encountered an error while processing your request. Please try again."
)

// Retriever runs vector retrieval for an agent's knowledge base. It returns
// chunks sorted best-first and an empty slice (not an error) when there are
// no matches or the agent is unknown.
type Retriever interface {
	Retrieve(ctx context.Context, agentName, query string, topK int) ([]knowledge.Chunk, error)
}

// WebSearcher runs a live web search.
type WebSearcher interface {
	Search(ctx context.Context, query string) (websearch.Result, error)
}

// Generator produces an answer from the built prompt messages.
type Generator interface {
	Chat(ctx context.Context, messages []llm.Message, params llm.ChatParams) (string, error)
}

// Service orchestrates the query pipeline: cache lookup, vector retrieval,
// web-search decision, optional web search, context assembly, generation (or
// deterministic fallback) and source extraction. Answer never returns an
// error; every failure mode degrades to a usable Response.
type Service struct {
	cache     *QueryCache
	retriever Retriever
	web       WebSearcher // nil when unconfigured
	generator Generator   // nil when unconfigured
	params    llm.ChatParams
	topK      int
}

// NewService creates a chat service. web and generator may be nil when the
// corresponding collaborator is unconfigured; the pipeline degrades to
// local-only retrieval and the extractive fallback respectively.
func NewService(cache *QueryCache, retriever Retriever, web WebSearcher, generator Generator, params llm.ChatParams, topK int) *Service {
	return &Service{
		cache:     cache,
		retriever: retriever,
		web:       web,
		generator: generator,
		params:    params,
		topK:      topK,
	}
}

// Answer runs one query through the pipeline and always produces a Response.
// Collaborator failures degrade: retrieval errors count as zero chunks, web
// search errors as an empty web result, generation errors fall back to the
// extractive summary. Any residual fault is caught at this boundary and
// converted to a generic apologetic Response.
func (s *Service) Answer(ctx context.Context, req Request) (resp Response) {
	logger := contextutil.LoggerFromContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.ErrorContext(ctx, "chat pipeline fault", "panic", r)
			resp = Response{
				Text:           errorMessage,
				Sources:        []Source{},
				ChunksFound:    0,
				ConversationID: req.ConversationID,
			}
		}
	}()

	chunks := s.retrieve(ctx, req)
	kbContext := BuildContext(chunks, websearch.Result{})

	shouldSearch := ShouldSearchWeb(req.Message, kbContext)

	var webResult websearch.Result
	if shouldSearch && s.web != nil {
		result, err := s.web.Search(ctx, req.Message)
		if err != nil {
			logger.WarnContext(ctx, "web search failed, continuing without it", "error", err)
		} else {
			webResult = result
		}
	}

	fullContext := BuildContext(chunks, webResult)
	if fullContext == "" {
		logger.InfoContext(ctx, "no context found for query", "agent", req.AgentName)
		return Response{
			Text:           noContextMessage,
			Sources:        []Source{},
			ChunksFound:    0,
			ConversationID: req.ConversationID,
		}
	}

	// Links from a search the policy decided against never reach the
	// prompt or the source list.
	var links []websearch.Link
	if shouldSearch {
		links = webResult.Links
	}

	text, generated := s.generate(ctx, req.Message, fullContext, links, shouldSearch)
	if !generated {
		text = FallbackResponse(fullContext, req.Message, links)
	}

	return Response{
		Text:           text,
		Sources:        ExtractSources(chunks, links),
		ChunksFound:    len(chunks),
		ConversationID: req.ConversationID,
	}
}

// retrieve returns chunks for the query, consulting the cache first. A
// retrieval failure is logged and treated as zero chunks; failed lookups are
// not cached.
func (s *Service) retrieve(ctx context.Context, req Request) []knowledge.Chunk {
	logger := contextutil.LoggerFromContext(ctx)

	if chunks, ok := s.cache.Lookup(req.AgentName, req.Message, s.topK); ok {
		logger.DebugContext(ctx, "query cache hit", "agent", req.AgentName)
		return chunks
	}

	chunks, err := s.retriever.Retrieve(ctx, req.AgentName, req.Message, s.topK)
	if err != nil {
		logger.WarnContext(ctx, "retrieval failed, continuing with no chunks", "error", err)
		return []knowledge.Chunk{}
	}

	s.cache.Store(req.AgentName, req.Message, s.topK, chunks)
	return chunks
}

// generate invokes the model once. Reports ok=false when the generator is
// unconfigured, errors, or yields empty text; no retry, the fallback takes
// over immediately.
func (s *Service) generate(ctx context.Context, query, context string, links []websearch.Link, webSearchPerformed bool) (string, bool) {
	if s.generator == nil {
		return "", false
	}

	logger := contextutil.LoggerFromContext(ctx)
	messages := BuildPrompt(query, context, links, webSearchPerformed)

	text, err := s.generator.Chat(ctx, messages, s.params)
	if err != nil {
		logger.WarnContext(ctx, "generation failed, using fallback response", "error", err)
		return "", false
	}
	if text == "" {
		logger.WarnContext(ctx, "generation returned empty text, using fallback response")
		return "", false
	}
	return text, true
}

// ClearCache drops all cached retrieval results.
func (s *Service) ClearCache() {
	s.cache.Clear()
}

// Status describes which collaborators are configured.
type Status struct {
	LLMAvailable       bool `json:"llm_available"`
	WebSearchAvailable bool `json:"web_search_available"`
	CachedQueries      int  `json:"cached_queries"`
}

// ServiceStatus reports collaborator availability for the status endpoint.
func (s *Service) ServiceStatus() Status {
	return Status{
		LLMAvailable:       s.generator != nil,
		WebSearchAvailable: s.web != nil,
		CachedQueries:      s.cache.Len(),
	}
}
