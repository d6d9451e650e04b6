// Package sources fetches raw resource catalogs from the upstream origins the hub aggregates.
// Upstream failures never cross the package boundary as errors: they are logged and reported as
// "no data" so callers can move on to the next fallback.
package sources

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// maxDocumentBytes caps the size of a single upstream JSON document
const maxDocumentBytes = 32 << 20

// Client performs JSON GET requests against upstream origins
type Client struct {
	http   *http.Client
	logger *zap.Logger
}

// NewClient creates a new upstream client
func NewClient(httpClient *http.Client, logger *zap.Logger) *Client {
	return &Client{
		http:   httpClient,
		logger: logger,
	}
}

// FetchJSON downloads url and returns its body if it is valid JSON.
// It returns false on network errors, non-2xx responses, and bodies that do not parse.
func (c *Client) FetchJSON(ctx context.Context, url string) (json.RawMessage, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.logger.Warn("failed to build upstream request", zap.String("url", url), zap.Error(err))
		return nil, false
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("upstream request failed", zap.String("url", url), zap.Error(err))
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug("upstream returned non-success status",
			zap.String("url", url),
			zap.Int("status", resp.StatusCode),
		)
		return nil, false
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		c.logger.Warn("failed to read upstream response", zap.String("url", url), zap.Error(err))
		return nil, false
	}
	if !json.Valid(body) {
		c.logger.Warn("upstream returned invalid JSON", zap.String("url", url), zap.Int("size", len(body)))
		return nil, false
	}
	return json.RawMessage(body), true
}
