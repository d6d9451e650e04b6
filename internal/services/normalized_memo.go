package services

import (
	"encoding/json"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/renderdragon/backend/internal/models"
)

// normalizedMemo keeps the normalized form of cached catalog documents so cache hits skip parsing.
// An entry is reused only while the raw payload hashes the same; the zero value is ready to use.
type normalizedMemo struct {
	mu      sync.Mutex
	entries map[string]memoEntry
}

type memoEntry struct {
	sum   uint64
	items []models.Resource
}

// get returns the memoized resources for raw under key, normalizing and storing them on a miss.
// Returned slices are shared and must not be modified.
func (m *normalizedMemo) get(key string, raw json.RawMessage, normalize func(json.RawMessage) []models.Resource) []models.Resource {
	sum := xxhash.Sum64(raw)

	m.mu.Lock()
	entry, ok := m.entries[key]
	m.mu.Unlock()
	if ok && entry.sum == sum {
		return entry.items
	}

	items := normalize(raw)

	m.mu.Lock()
	if m.entries == nil {
		m.entries = make(map[string]memoEntry)
	}
	m.entries[key] = memoEntry{sum: sum, items: items}
	m.mu.Unlock()
	return items
}
