// Package fetch provides the document text-fetch client: given a document
// id it returns the plain text of the document with markup stripped.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"
)

// ErrFetch is returned when fetching a document's text fails.
var ErrFetch = errors.New("text fetch failed")

var tagRe = regexp.MustCompile(`<[^>]*>`)

// Fetcher turns a document id into plain text.
type Fetcher interface {
	// FetchText retrieves the document's plain text. A failure is terminal
	// for this call; retries belong to the HTTP layer above the screener.
	FetchText(ctx context.Context, documentID string) (string, error)

	// Close releases any resources held by the fetcher.
	Close() error
}

// Client fetches documents over HTTP with basic auth.
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
}

// Config holds configuration for the document fetch client.
type Config struct {
	// BaseURL is the document endpoint prefix; the document id is appended
	// as the final path segment.
	BaseURL string

	// Username and Password are the basic auth credentials.
	Username string
	Password string
}

type textResponse struct {
	Text string `json:"text"`
}

// NewClient creates a document fetch client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: base URL is required", ErrFetch)
	}

	return &Client{
		baseURL:  cfg.BaseURL,
		username: cfg.Username,
		password: cfg.Password,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

// FetchText retrieves the document and strips HTML tags from its text.
func (c *Client) FetchText(ctx context.Context, documentID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/"+documentID, nil)
	if err != nil {
		return "", fmt.Errorf("%w: creating request: %v", ErrFetch, err)
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: sending request: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: document service returned status %d: %s",
			ErrFetch, resp.StatusCode, string(body))
	}

	var textResp textResponse
	if err := json.NewDecoder(resp.Body).Decode(&textResp); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", ErrFetch, err)
	}

	return StripHTML(textResp.Text), nil
}

// Close releases resources held by the client.
func (c *Client) Close() error {
	return nil
}

// StripHTML removes markup tags from text.
func StripHTML(text string) string {
	return tagRe.ReplaceAllString(text, "")
}

var _ Fetcher = (*Client)(nil)
