package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is an HTTP client for the external NER service.
type Client struct {
	url        string
	httpClient *http.Client
}

// Config holds configuration for the NER client.
type Config struct {
	// URL is the extraction endpoint (e.g. "http://ner:9000/extract").
	URL string
}

type extractRequest struct {
	Text string `json:"text"`
}

type extractResponse struct {
	Entities []Entity `json:"entities"`
}

// NewClient creates an extractor backed by the NER service at cfg.URL.
func NewClient(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("%w: NER URL is required", ErrExtract)
	}

	return &Client{
		url: cfg.URL,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}, nil
}

// Extract posts the text to the NER service and returns the entities found.
// The call is idempotent; the screener owns the retry policy.
func (c *Client) Extract(ctx context.Context, text string) ([]Entity, error) {
	jsonBody, err := json.Marshal(extractRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("%w: marshaling request: %v", ErrExtract, err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %v", ErrExtract, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: sending request: %v", ErrExtract, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: NER returned status %d: %s", ErrExtract, resp.StatusCode, string(body))
	}

	var extractResp extractResponse
	if err := json.NewDecoder(resp.Body).Decode(&extractResp); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrExtract, err)
	}

	return extractResp.Entities, nil
}

// Close releases resources held by the client.
func (c *Client) Close() error {
	return nil
}

var _ Extractor = (*Client)(nil)
