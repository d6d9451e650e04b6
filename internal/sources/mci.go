package sources

import (
	"bytes"
	"context"
	"encoding/json"
)

// MCISource reads the icon listing of the MCI proxy
type MCISource struct {
	client *Client
	url    string
}

// NewMCISource creates a new MCI proxy source. An empty url disables it.
func NewMCISource(client *Client, url string) *MCISource {
	return &MCISource{
		client: client,
		url:    url,
	}
}

// Icons fetches the flat icon list
func (s *MCISource) Icons(ctx context.Context) (json.RawMessage, bool) {
	if s.url == "" {
		return nil, false
	}
	raw, ok := s.client.FetchJSON(ctx, s.url)
	if !ok || !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		return nil, false
	}
	return raw, true
}
