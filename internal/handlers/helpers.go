package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"techdesk-ai/internal/contextutil"
)

// ErrorResponse represents an error response payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, ctx context.Context, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, ctx context.Context, statusCode int, message string) {
	writeJSON(w, ctx, statusCode, ErrorResponse{Error: message})
}
