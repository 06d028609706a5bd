package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"techdesk-ai/internal/handlers"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Logger        *slog.Logger
	Chat          *handlers.ChatHandler
	Agents        *handlers.AgentsHandler
	Uploads       *handlers.UploadHandler
	Conversations *handlers.ConversationsHandler
	Health        *handlers.HealthHandler
}

// NewRouter creates the HTTP router with all API routes registered.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORS)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", deps.Health.Health)
		r.Get("/status", deps.Health.Status)

		r.Method(http.MethodPost, "/chat", deps.Chat)

		r.Route("/agents", func(r chi.Router) {
			r.Post("/", deps.Agents.Create)
			r.Get("/", deps.Agents.List)
			r.Route("/{name}", func(r chi.Router) {
				r.Get("/", deps.Agents.Get)
				r.Delete("/", deps.Agents.Delete)
				r.Get("/stats", deps.Agents.Stats)
				r.Post("/upload", deps.Uploads.Upload)
				r.Delete("/files/{filename}", deps.Uploads.DeleteFile)
			})
		})

		r.Get("/upload-status/{jobID}", deps.Uploads.JobStatus)

		r.Route("/conversations", func(r chi.Router) {
			r.Get("/", deps.Conversations.List)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/messages", deps.Conversations.Messages)
				r.Delete("/", deps.Conversations.Delete)
			})
		})
	})

	return r
}
