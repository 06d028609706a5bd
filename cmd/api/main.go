package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"techdesk-ai/internal/chat"
	"techdesk-ai/internal/config"
	"techdesk-ai/internal/handlers"
	"techdesk-ai/internal/http"
	"techdesk-ai/internal/indexer"
	"techdesk-ai/internal/knowledge"
	"techdesk-ai/internal/llm"
	"techdesk-ai/internal/storage"
	"techdesk-ai/internal/vectorstore"
	"techdesk-ai/internal/websearch"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	// Create repository instances
	agentRepo := storage.NewAgentRepo(db)
	conversationRepo := storage.NewConversationRepo(db)

	ctx := context.Background()

	// Initialize Qdrant vector store
	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}

	// Validate embedding client vector size (fail-fast)
	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModelName, cfg.QdrantVectorSize)
	if err := embedder.Validate(ctx); err != nil {
		log.Fatalf("Failed to validate embedding client: %v", err)
	}
	slog.Info("Embedding client validated", "vector_size", cfg.QdrantVectorSize)

	// Knowledge base service and retriever
	kb := knowledge.NewService(embedder, vectorStore, cfg.QdrantVectorSize)
	if err := kb.EnsureCollection(ctx, knowledge.GlobalCollection); err != nil {
		log.Fatalf("Failed to ensure global collection: %v", err)
	}
	slog.Info("Qdrant collection ready", "collection", knowledge.GlobalCollection, "vector_size", cfg.QdrantVectorSize)
	retriever := knowledge.NewRetriever(kb, agentRepo)

	// Optional collaborators degrade to deterministic fallbacks when absent.
	var webSearcher chat.WebSearcher
	if cfg.SerperAPIKey != "" {
		webSearcher = websearch.NewClient(cfg.SerperAPIKey)
		slog.Info("Web search enabled")
	} else {
		slog.Warn("SERPER_API_KEY not set, web search disabled")
	}

	var generator chat.Generator
	if cfg.LLMAPIKey != "" {
		generator = llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName)
		slog.Info("LLM client configured", "model", cfg.LLMModelName)
	} else {
		slog.Warn("OPENROUTER_API_KEY not set, responses fall back to raw context")
	}

	chatService := chat.NewService(
		chat.NewQueryCache(cfg.CacheCapacity),
		retriever,
		webSearcher,
		generator,
		llm.ChatParams{
			Model:       cfg.LLMModelName,
			MaxTokens:   cfg.LLMMaxTokens,
			Temperature: cfg.LLMTemperature,
		},
		cfg.DefaultTopK,
	)
	slog.Info("Chat service initialized", "top_k", cfg.DefaultTopK, "cache_capacity", cfg.CacheCapacity)

	// Ingestion pipeline
	parser := indexer.NewParserClient(cfg.ParserBaseURL, cfg.ParserAPIKey)
	if !parser.Configured() {
		slog.Warn("PARSER_BASE_URL not set, PDF uploads will fail until configured")
	}
	pipeline := indexer.NewPipeline(parser, kb, agentRepo)
	jobs := indexer.NewJobTracker()

	// Create router with dependencies
	deps := &http.Deps{
		Logger:        logger,
		Chat:          handlers.NewChatHandler(chatService, conversationRepo),
		Agents:        handlers.NewAgentsHandler(agentRepo, kb),
		Uploads:       handlers.NewUploadHandler(agentRepo, pipeline, jobs, cfg.UploadsDir),
		Conversations: handlers.NewConversationsHandler(conversationRepo),
		Health:        handlers.NewHealthHandler(chatService, parser.Configured()),
	}
	router := http.NewRouter(deps)

	// Start API server
	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModelName)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
