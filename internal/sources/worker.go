package sources

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/renderdragon/backend/internal/models"
	"github.com/renderdragon/backend/internal/normalizer"
)

// WorkerSource reads the catalog from the worker API.
// A source without a base URL is disabled and never returns data.
type WorkerSource struct {
	client  *Client
	baseURL string
}

// NewWorkerSource creates a new worker API source
func NewWorkerSource(client *Client, baseURL string) *WorkerSource {
	return &WorkerSource{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Enabled reports whether a worker API is configured
func (s *WorkerSource) Enabled() bool {
	return s.baseURL != ""
}

// All fetches {"categories": {...}} with every category of the worker
func (s *WorkerSource) All(ctx context.Context) (json.RawMessage, bool) {
	if !s.Enabled() {
		return nil, false
	}
	raw, ok := s.client.FetchJSON(ctx, s.baseURL+"/all")
	if !ok {
		return nil, false
	}
	var probe struct {
		Categories map[string]json.RawMessage `json:"categories"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil || probe.Categories == nil {
		return nil, false
	}
	return raw, true
}

// Category fetches {"category": ..., "files": [...]} for one category
func (s *WorkerSource) Category(ctx context.Context, category models.Category) (json.RawMessage, bool) {
	if !s.Enabled() {
		return nil, false
	}
	raw, ok := s.client.FetchJSON(ctx, s.baseURL+"/category/"+url.PathEscape(normalizer.APICategory(category)))
	if !ok {
		return nil, false
	}
	var probe struct {
		Files json.RawMessage `json:"files"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil || len(probe.Files) == 0 || string(probe.Files) == "null" {
		return nil, false
	}
	return raw, true
}

// Categories fetches the list of worker categories
func (s *WorkerSource) Categories(ctx context.Context) (*models.WorkerCategories, bool) {
	if !s.Enabled() {
		return nil, false
	}
	raw, ok := s.client.FetchJSON(ctx, s.baseURL+"/categories")
	if !ok {
		return nil, false
	}
	var categories models.WorkerCategories
	if err := json.Unmarshal(raw, &categories); err != nil {
		return nil, false
	}
	return &categories, true
}
