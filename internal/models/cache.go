package models

// Cache namespaces exposed by the maintenance endpoints
const (
	CacheNamespaceResources = "resources"
	CacheNamespaceAPI       = "api"
)

// CacheAgeResponse describes the age of one cache entry
type CacheAgeResponse struct {
	Namespace  string `json:"namespace"`
	Key        string `json:"key"`
	AgeSeconds int64  `json:"age_seconds"`
	Stale      bool   `json:"stale"`
}

// CacheClearResponse reports how many entries each cache dropped
type CacheClearResponse struct {
	ResourceEntries int  `json:"resource_entries"`
	APIEntries      int  `json:"api_entries"`
	BinaryCleared   bool `json:"binary_cleared"`
}

// RefreshSummary reports the catalog sizes after a forced refresh
type RefreshSummary struct {
	Total      int            `json:"total"`
	Categories map[string]int `json:"categories"`
}
