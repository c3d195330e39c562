package similarity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ClientConfig configures the HTTP embedding client
type ClientConfig struct {
	BaseURL   string
	APIKey    string
	Model     string
	Dimension int
	Timeout   time.Duration
}

// Client is an Embedder backed by an OpenAI-compatible embeddings endpoint
type Client struct {
	baseURL   string
	apiKey    string
	model     string
	dimension int
	http      *http.Client
}

// NewClient creates a new embedding client
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:   strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		dimension: cfg.Dimension,
		http:      &http.Client{Timeout: timeout},
	}
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// Dimension returns the configured embedding dimension
func (c *Client) Dimension() int {
	return c.dimension
}

// Embed generates an embedding for a single word
func (c *Client) Embed(ctx context.Context, word string) ([]float32, error) {
	vecs, err := c.EmbedBatch(ctx, []string{word})
	if err != nil {
		return nil, err
	}
	vec, ok := vecs[strings.ToLower(word)]
	if !ok {
		return nil, fmt.Errorf("no embedding returned for %q: %w", word, ErrUnavailable)
	}
	return vec, nil
}

// EmbedBatch generates embeddings for multiple words in a single request
func (c *Client) EmbedBatch(ctx context.Context, words []string) (map[string][]float32, error) {
	normalized := make([]string, len(words))
	for i, w := range words {
		normalized[i] = strings.ToLower(strings.TrimSpace(w))
	}

	body, err := json.Marshal(embeddingRequest{Model: c.model, Input: normalized})
	if err != nil {
		return nil, fmt.Errorf("encode embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding provider returned %d: %w", resp.StatusCode, ErrUnavailable)
	}

	var parsed embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode embedding response: %w", ErrUnavailable)
	}
	if len(parsed.Data) != len(normalized) {
		return nil, fmt.Errorf("embedding provider returned %d vectors for %d words: %w",
			len(parsed.Data), len(normalized), ErrUnavailable)
	}

	out := make(map[string][]float32, len(normalized))
	for _, d := range parsed.Data {
		if d.Index < 0 || d.Index >= len(normalized) {
			return nil, fmt.Errorf("embedding provider returned index %d out of range: %w", d.Index, ErrUnavailable)
		}
		out[normalized[d.Index]] = d.Embedding
	}
	return out, nil
}
