package cache

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

// BinaryNamespace prefixes every URL kept in the blob cache
const BinaryNamespace = "rd-binary-cache-v1:"

// BinaryEntry is a fetched blob together with the moment it was cached
type BinaryEntry struct {
	Body        []byte
	ContentType string
	CachedAt    time.Time
}

// Size returns the body length in bytes
func (e *BinaryEntry) Size() int64 {
	return int64(len(e.Body))
}

// BinaryCache keeps downloaded images, audio and other assets in memory, keyed by URL.
// Every entry carries its own cache date and is dropped on read once older than the TTL.
type BinaryCache struct {
	cache   *ristretto.Cache[string, *BinaryEntry]
	client  *http.Client
	ttl     time.Duration
	maxCost int64
	now     func() time.Time
	logger  *zap.Logger
}

// NewBinaryCache creates a blob cache holding at most maxBytes of bodies
func NewBinaryCache(client *http.Client, maxBytes int64, ttl time.Duration, logger *zap.Logger) (*BinaryCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config[string, *BinaryEntry]{
		NumCounters: 100_000,
		MaxCost:     maxBytes,
		BufferItems: 64,
		OnReject: func(item *ristretto.Item[*BinaryEntry]) {
			logger.Debug("binary cache rejected item", zap.Int64("cost", item.Cost))
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create binary cache: %w", err)
	}
	return &BinaryCache{
		cache:   c,
		client:  client,
		ttl:     ttl,
		maxCost: maxBytes,
		now:     time.Now,
		logger:  logger,
	}, nil
}

// Get returns the cached blob for url if it is still fresh
func (c *BinaryCache) Get(url string) (*BinaryEntry, bool) {
	entry, ok := c.cache.Get(BinaryNamespace + url)
	if !ok || entry == nil {
		return nil, false
	}
	if c.now().Sub(entry.CachedAt) > c.ttl {
		c.cache.Del(BinaryNamespace + url)
		return nil, false
	}
	return entry, true
}

// Put stores a blob for url, stamping it with the current time.
// It returns false when the cache declined the entry.
func (c *BinaryCache) Put(url string, body []byte, contentType string) bool {
	if int64(len(body)) > c.maxCost {
		return false
	}
	entry := &BinaryEntry{
		Body:        body,
		ContentType: contentType,
		CachedAt:    c.now(),
	}
	if !c.cache.SetWithTTL(BinaryNamespace+url, entry, entry.Size(), c.ttl) {
		return false
	}
	c.cache.Wait()
	return true
}

// Fetch returns the blob behind url from the cache, downloading and caching it on a miss
func (c *BinaryCache) Fetch(ctx context.Context, url string) (*BinaryEntry, error) {
	if entry, ok := c.Get(url); ok {
		return entry, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch %s: %s", url, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", url, err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mimetype.Detect(body).String()
	}

	if !c.Put(url, body, contentType) {
		c.logger.Debug("binary cache skipped entry", zap.String("url", url), zap.Int("size", len(body)))
	}
	return &BinaryEntry{Body: body, ContentType: contentType, CachedAt: c.now()}, nil
}

// Clear drops every cached blob
func (c *BinaryCache) Clear() {
	c.cache.Clear()
}

// Close stops the cache's background goroutines
func (c *BinaryCache) Close() {
	c.cache.Close()
}
