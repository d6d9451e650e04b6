package sources

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/renderdragon/backend/internal/models"
)

// Paths of the static catalog published with the site
const (
	IndexPath   = "/resources.index.json"
	AllPath     = "/resources.all.json"
	LegacyPath  = "/resources.json"
	CategoryDir = "/resources"
)

// StaticSource reads the JSON catalog files served from the site origin
type StaticSource struct {
	client  *Client
	baseURL string
}

// NewStaticSource creates a new static catalog source rooted at baseURL
func NewStaticSource(client *Client, baseURL string) *StaticSource {
	return &StaticSource{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Index fetches the category manifest. A manifest without categories counts as missing.
func (s *StaticSource) Index(ctx context.Context) (*models.IndexFile, bool) {
	raw, ok := s.client.FetchJSON(ctx, s.baseURL+IndexPath)
	if !ok {
		return nil, false
	}
	var index models.IndexFile
	if err := json.Unmarshal(raw, &index); err != nil || index.Categories == nil {
		return nil, false
	}
	return &index, true
}

// CategoryFile fetches the file of one category. file is the manifest path when known;
// otherwise the conventional /resources/<category>.json location is used.
func (s *StaticSource) CategoryFile(ctx context.Context, category, file string) (json.RawMessage, bool) {
	return s.client.FetchJSON(ctx, s.categoryURL(category, file))
}

// All fetches the combined catalog
func (s *StaticSource) All(ctx context.Context) (json.RawMessage, bool) {
	return s.client.FetchJSON(ctx, s.baseURL+AllPath)
}

// Legacy fetches the pre-manifest single-file catalog
func (s *StaticSource) Legacy(ctx context.Context) (json.RawMessage, bool) {
	return s.client.FetchJSON(ctx, s.baseURL+LegacyPath)
}

func (s *StaticSource) categoryURL(category, file string) string {
	if file != "" {
		return s.baseURL + "/" + strings.TrimLeft(file, "/")
	}
	return s.baseURL + CategoryDir + "/" + url.PathEscape(category) + ".json"
}
