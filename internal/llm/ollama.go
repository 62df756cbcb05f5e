package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Ollama generates text with a local Ollama server.
type Ollama struct {
	httpClient *http.Client
	baseURL    string
}

type ollamaGenerateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type ollamaGenerateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error"`
}

// NewOllama creates a client for the server at host, e.g. "http://127.0.0.1:11434".
func NewOllama(host string) (*Ollama, error) {
	if host == "" {
		return nil, fmt.Errorf("ollama host is empty")
	}
	return &Ollama{
		httpClient: &http.Client{},
		baseURL:    strings.TrimSuffix(host, "/"),
	}, nil
}

// Name returns "ollama".
func (o *Ollama) Name() string {
	return BackendOllama
}

// Generate implements Generator.
func (o *Ollama) Generate(ctx context.Context, prompt string, params Params) (string, error) {
	options := map[string]any{"temperature": params.Temperature}
	if params.MaxTokens > 0 {
		options["num_predict"] = params.MaxTokens
	}

	payload, err := json.Marshal(ollamaGenerateRequest{
		Model:   params.Model,
		Prompt:  prompt,
		Stream:  false,
		Options: options,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request to ollama: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request to ollama: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama api call failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body from ollama: %w", err)
	}

	var out ollamaGenerateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if resp.StatusCode != http.StatusOK || out.Error != "" {
		return "", fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, out.Error)
	}
	if strings.TrimSpace(out.Response) == "" {
		return "", ErrEmptyResponse
	}
	return out.Response, nil
}

// Close implements Generator.
func (o *Ollama) Close() error {
	o.httpClient.CloseIdleConnections()
	return nil
}
