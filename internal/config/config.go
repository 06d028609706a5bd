package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	// LLM (OpenRouter-compatible chat completions API)
	LLMBaseURL     string
	LLMModelName   string
	LLMAPIKey      string
	LLMTemperature float32
	LLMMaxTokens   int

	// Embeddings
	EmbeddingBaseURL   string
	EmbeddingModelName string
	EmbeddingAPIKey    string

	// Vector store
	QdrantURL        string
	QdrantVectorSize int

	// Web search
	SerperAPIKey string

	// PDF parsing service
	ParserBaseURL string
	ParserAPIKey  string

	// Storage
	DBPath     string
	UploadsDir string

	// Chat pipeline
	CacheCapacity int
	DefaultTopK   int

	// Server
	APIPort   string
	LogLevel  slog.Level
	LogFormat string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or project root, it will be loaded
// automatically. Environment variables already set take precedence over .env values.
func Load() (*Config, error) {
	_ = godotenv.Load() // Try current directory

	// Walk up to find a .env next to go.mod (project root)
	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ {
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	cfg := &Config{
		LLMBaseURL:         getEnv("LLM_BASE_URL", "https://openrouter.ai/api/v1"),
		LLMModelName:       getEnv("LLM_MODEL", "openai/gpt-4o-mini"),
		LLMAPIKey:          getEnv("OPENROUTER_API_KEY", ""),
		EmbeddingBaseURL:   getEnv("EMBEDDING_BASE_URL", "http://localhost:8081"),
		EmbeddingModelName: getEnv("EMBEDDING_MODEL_NAME", "all-MiniLM-L6-v2"),
		EmbeddingAPIKey:    getEnv("EMBEDDING_API_KEY", "dummy-key"),
		QdrantURL:          getEnv("QDRANT_URL", "http://localhost:6333"),
		SerperAPIKey:       getEnv("SERPER_API_KEY", ""),
		ParserBaseURL:      getEnv("PARSER_BASE_URL", ""),
		ParserAPIKey:       getEnv("PARSER_API_KEY", ""),
		DBPath:             getEnv("DB_PATH", "./data/techdesk-ai.db"),
		UploadsDir:         getEnv("UPLOADS_DIR", "./data/uploads"),
		APIPort:            getEnv("API_PORT", "9000"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
	}

	// Generation parameters are fixed configuration, not per-request knobs.
	temperature, err := parseFloat32(getEnv("LLM_TEMPERATURE", "0.2"))
	if err != nil {
		return nil, fmt.Errorf("LLM_TEMPERATURE must be a valid float: %w", err)
	}
	cfg.LLMTemperature = temperature

	maxTokens, err := strconv.Atoi(getEnv("LLM_MAX_TOKENS", "500"))
	if err != nil {
		return nil, fmt.Errorf("LLM_MAX_TOKENS must be a valid integer: %w", err)
	}
	cfg.LLMMaxTokens = maxTokens

	// Note: QDRANT_VECTOR_SIZE must match the output vector size of the
	// embeddings model. If it changes, agent collections must be recreated.
	vectorSizeStr := getEnv("QDRANT_VECTOR_SIZE", "")
	if vectorSizeStr == "" {
		return nil, fmt.Errorf("QDRANT_VECTOR_SIZE is required")
	}
	vectorSize, err := strconv.Atoi(vectorSizeStr)
	if err != nil {
		return nil, fmt.Errorf("QDRANT_VECTOR_SIZE must be a valid integer: %w", err)
	}
	if vectorSize <= 0 {
		return nil, fmt.Errorf("QDRANT_VECTOR_SIZE must be greater than 0")
	}
	cfg.QdrantVectorSize = vectorSize

	cacheCapacity, err := strconv.Atoi(getEnv("QUERY_CACHE_CAPACITY", "100"))
	if err != nil {
		return nil, fmt.Errorf("QUERY_CACHE_CAPACITY must be a valid integer: %w", err)
	}
	if cacheCapacity <= 0 {
		return nil, fmt.Errorf("QUERY_CACHE_CAPACITY must be greater than 0")
	}
	cfg.CacheCapacity = cacheCapacity

	topK, err := strconv.Atoi(getEnv("DEFAULT_TOP_K", "5"))
	if err != nil {
		return nil, fmt.Errorf("DEFAULT_TOP_K must be a valid integer: %w", err)
	}
	if topK <= 0 {
		return nil, fmt.Errorf("DEFAULT_TOP_K must be greater than 0")
	}
	cfg.DefaultTopK = topK

	level, err := parseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("LOG_FORMAT must be \"text\" or \"json\", got %q", cfg.LogFormat)
	}

	// Create data directories up front so sqlite and uploads can write.
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := os.MkdirAll(cfg.UploadsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseFloat32(s string) (float32, error) {
	f, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, err
	}
	return float32(f), nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error; got %q", s)
	}
}
