package indexer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// ParserClient calls the external PDF parsing service, which converts an
// uploaded PDF into structure-preserving markdown. Parsing large manuals is
// slow, hence the generous default timeout.
type ParserClient struct {
	BaseURL string
	APIKey  string

	client *http.Client
}

// NewParserClient creates a parsing service client.
func NewParserClient(baseURL, apiKey string) *ParserClient {
	return &ParserClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		client: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

// Configured reports whether the client has credentials to call the service.
func (p *ParserClient) Configured() bool {
	return p.APIKey != ""
}

type parseResponse struct {
	Markdown string `json:"markdown"`
	Pages    int    `json:"pages"`
}

// Parse uploads the PDF at path and returns the extracted markdown.
func (p *ParserClient) Parse(ctx context.Context, path, filename string) ([]byte, error) {
	if !p.Configured() {
		return nil, fmt.Errorf("pdf parser not configured")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file for parsing: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to read file for parsing: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize upload form: %w", err)
	}

	url := fmt.Sprintf("%s/parse", p.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create parse request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+p.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("parse request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("parser service returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed parseResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode parser response: %w", err)
	}
	if parsed.Markdown == "" {
		return nil, fmt.Errorf("parser service extracted no content from %s", filename)
	}

	return []byte(parsed.Markdown), nil
}
