package http

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"techdesk-ai/internal/chat"
	"techdesk-ai/internal/handlers"
	"techdesk-ai/internal/indexer"
	"techdesk-ai/internal/knowledge"
	"techdesk-ai/internal/llm"
	"techdesk-ai/internal/storage"
)

type noopRetriever struct{}

func (noopRetriever) Retrieve(context.Context, string, string, int) ([]knowledge.Chunk, error) {
	return []knowledge.Chunk{}, nil
}

type noopIngester struct{}

func (noopIngester) IngestPDF(context.Context, string, string, string) (int, error) { return 0, nil }
func (noopIngester) RemoveFile(context.Context, string, string) (int, error)        { return 0, nil }

type noopKnowledgeAdmin struct{}

func (noopKnowledgeAdmin) EnsureCollection(context.Context, string) error { return nil }
func (noopKnowledgeAdmin) DropCollection(context.Context, string) error   { return nil }
func (noopKnowledgeAdmin) Stats(context.Context, string) (*knowledge.Stats, error) {
	return &knowledge.Stats{}, nil
}

func testRouter(t *testing.T) http.Handler {
	t.Helper()

	db, err := storage.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := storage.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	agents := storage.NewAgentRepo(db)
	conversations := storage.NewConversationRepo(db)

	chatService := chat.NewService(chat.NewQueryCache(10), noopRetriever{}, nil, nil, llm.ChatParams{}, 5)

	return NewRouter(&Deps{
		Logger:        slog.Default(),
		Chat:          handlers.NewChatHandler(chatService, conversations),
		Agents:        handlers.NewAgentsHandler(agents, noopKnowledgeAdmin{}),
		Uploads:       handlers.NewUploadHandler(agents, noopIngester{}, indexer.NewJobTracker(), t.TempDir()),
		Conversations: handlers.NewConversationsHandler(conversations),
		Health:        handlers.NewHealthHandler(chatService, false),
	})
}

func TestRouter_Routes(t *testing.T) {
	router := testRouter(t)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{"health", http.MethodGet, "/api/health", "", http.StatusOK},
		{"status", http.MethodGet, "/api/status", "", http.StatusOK},
		{"chat", http.MethodPost, "/api/chat", `{"message":"anything known?"}`, http.StatusOK},
		{"chat empty message", http.MethodPost, "/api/chat", `{"message":""}`, http.StatusBadRequest},
		{"list agents", http.MethodGet, "/api/agents", "", http.StatusOK},
		{"unknown agent", http.MethodGet, "/api/agents/ghost", "", http.StatusNotFound},
		{"list conversations", http.MethodGet, "/api/conversations", "", http.StatusOK},
		{"unknown job", http.MethodGet, "/api/upload-status/nope", "", http.StatusNotFound},
		{"unknown route", http.MethodGet, "/api/nothing", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.path, bytes.NewReader([]byte(tt.body)))
				req.Header.Set("Content-Type", "application/json")
			} else {
				req = httptest.NewRequest(tt.method, tt.path, nil)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("%s %s = %d, want %d; body: %s", tt.method, tt.path, rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("Allow-Origin = %q", got)
	}
}
