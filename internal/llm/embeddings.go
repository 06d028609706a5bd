package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// EmbeddingsClient calls an OpenAI-compatible embeddings endpoint. Every
// vector it returns is checked against the configured size so a mismatched
// model is caught here instead of surfacing as opaque vector-store errors.
type EmbeddingsClient struct {
	BaseURL    string
	APIKey     string
	Model      string
	VectorSize int
	client     *http.Client
}

// NewEmbeddingsClient creates a new embeddings client. vectorSize must match
// the collection configuration (QDRANT_VECTOR_SIZE).
func NewEmbeddingsClient(baseURL, apiKey, model string, vectorSize int) *EmbeddingsClient {
	return &EmbeddingsClient{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		Model:      model,
		VectorSize: vectorSize,
		client:     http.DefaultClient,
	}
}

type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingsResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// EmbedTexts generates one vector per input text, in input order.
func (c *EmbeddingsClient) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("no texts to embed")
	}

	body, err := json.Marshal(embeddingsRequest{Model: c.Model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw))
	}

	var parsed embeddingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(parsed.Data) != len(texts) {
		return nil, fmt.Errorf("embedded %d of %d texts", len(parsed.Data), len(texts))
	}

	vectors := make([][]float32, len(parsed.Data))
	for i, d := range parsed.Data {
		if len(d.Embedding) != c.VectorSize {
			return nil, fmt.Errorf("embedding %d has size %d, want %d", i, len(d.Embedding), c.VectorSize)
		}
		vectors[i] = d.Embedding
	}
	return vectors, nil
}

// Validate embeds a throwaway text to confirm the endpoint is reachable and
// the model produces vectors of the configured size. Intended to run once at
// startup so misconfiguration fails the process immediately.
func (c *EmbeddingsClient) Validate(ctx context.Context) error {
	if _, err := c.EmbedTexts(ctx, []string{"ping"}); err != nil {
		return fmt.Errorf("embeddings endpoint validation failed: %w", err)
	}
	return nil
}
