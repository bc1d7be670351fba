package indexer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"reclaim/internal/config"
)

// HTTPDoer describes the HTTP client used by the indexer service client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Notifier asks the indexing service to re-extract metadata.
type Notifier interface {
	// RefreshAsset targets a single asset for metadata re-extraction.
	RefreshAsset(ctx context.Context, assetID string) error
	// RefreshAll starts a forced, library-wide metadata extraction job.
	RefreshAll(ctx context.Context) error
}

// Client talks to the indexing service HTTP API.
type Client struct {
	baseURL string
	apiKey  string
	client  HTTPDoer
}

// NewClient constructs an indexer client.
func NewClient(baseURL, apiKey string, client HTTPDoer) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:  strings.TrimSpace(apiKey),
		client:  client,
	}
}

// NewConfiguredClient returns a client using the configured URL, key, and
// request timeout.
func NewConfiguredClient(cfg *config.Config) *Client {
	timeout := time.Duration(cfg.Indexer.RequestTimeout) * time.Second
	return NewClient(cfg.Indexer.URL, cfg.Indexer.APIKey, &http.Client{Timeout: timeout})
}

// RefreshAsset queues a refresh-metadata job for one asset.
func (c *Client) RefreshAsset(ctx context.Context, assetID string) error {
	payload := map[string]any{
		"name":     "refresh-metadata",
		"assetIds": []string{assetID},
	}
	return c.send(ctx, http.MethodPost, "/api/assets/jobs", payload)
}

// RefreshAll starts a forced metadata extraction job over the whole library.
func (c *Client) RefreshAll(ctx context.Context) error {
	payload := map[string]any{
		"command": "start",
		"force":   true,
	}
	return c.send(ctx, http.MethodPut, "/api/jobs/metadataExtraction", payload)
}

func (c *Client) send(ctx context.Context, method, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode indexer payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build indexer request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("%s %s returned %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

var _ Notifier = (*Client)(nil)
