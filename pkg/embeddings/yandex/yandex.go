// Package yandex implements pkg/embeddings' Embedder client for the Yandex
// foundation-models text embedding API.
package yandex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pressroom-tools/redlist/pkg/embeddings"
	"github.com/pressroom-tools/redlist/pkg/namedist"
)

// DefaultURL is the default embedding endpoint.
const DefaultURL = "https://llm.api.cloud.yandex.net/foundationModels/v1/textEmbedding"

// Embedder wraps the Yandex text embedding API.
type Embedder struct {
	url        string
	modelURI   string
	apiKey     string
	httpClient *http.Client
}

// Config holds configuration for the Yandex embedder.
type Config struct {
	// URL is the embedding endpoint. Defaults to DefaultURL if empty.
	URL string

	// ModelURI identifies the embedding model
	// (e.g. "emb://<folder>/text-search-query/latest").
	ModelURI string

	// APIKey authenticates the request via the Api-Key scheme.
	APIKey string
}

// embedRequest is the request body for the embedding API.
type embedRequest struct {
	ModelURI string `json:"modelUri"`
	Text     string `json:"text"`
}

// embedResponse is the response from the embedding API. A populated Error
// with a 200 status still counts as a failure.
type embedResponse struct {
	Embedding []float32 `json:"embedding"`
	Error     string    `json:"error,omitempty"`
}

// NewEmbedder creates a new embedder against the Yandex embedding API.
func NewEmbedder(cfg Config) (*Embedder, error) {
	if cfg.ModelURI == "" {
		return nil, fmt.Errorf("%w: model URI is required", embeddings.ErrEmbedding)
	}

	url := cfg.URL
	if url == "" {
		url = DefaultURL
	}

	return &Embedder{
		url:      url,
		modelURI: cfg.ModelURI,
		apiKey:   cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

// Embed converts text into a vector embedding. The text is reduced to
// Cyrillic letters and periods and lowercased before it is sent, matching
// what the watchlist embeddings were built from.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	reqBody := embedRequest{
		ModelURI: e.modelURI,
		Text:     strings.ToLower(namedist.KeepCyrillicAndDot(text)),
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: marshaling request: %v", embeddings.ErrEmbedding, err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", e.url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %v", embeddings.ErrEmbedding, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Api-Key "+e.apiKey)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: sending request: %v", embeddings.ErrEmbedding, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: provider returned status %d: %s",
			embeddings.ErrEmbedding, resp.StatusCode, string(body))
	}

	var embedResp embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&embedResp); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", embeddings.ErrEmbedding, err)
	}

	if embedResp.Error != "" {
		return nil, fmt.Errorf("%w: %s", embeddings.ErrEmbedding, embedResp.Error)
	}

	if len(embedResp.Embedding) == 0 {
		return nil, fmt.Errorf("%w: no embedding returned", embeddings.ErrEmbedding)
	}

	return embedResp.Embedding, nil
}

// Close releases resources held by the embedder.
func (e *Embedder) Close() error {
	return nil
}

var _ embeddings.Embedder = (*Embedder)(nil)
