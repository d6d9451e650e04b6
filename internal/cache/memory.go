package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

type memoryItem struct {
	value     []byte
	expiresAt time.Time
}

// memoryBackend keeps entries in process memory
type memoryBackend struct {
	mu    sync.RWMutex
	items map[string]memoryItem
	now   func() time.Time
}

// NewMemoryBackend creates a Backend that lives as long as the process
func NewMemoryBackend() *memoryBackend {
	return &memoryBackend{
		items: make(map[string]memoryItem),
		now:   time.Now,
	}
}

func (b *memoryBackend) Get(ctx context.Context, key string) ([]byte, error) {
	b.mu.RLock()
	item, ok := b.items[key]
	b.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if b.expired(item) {
		b.mu.Lock()
		// the key may have been rewritten since the read lock was released
		if current, ok := b.items[key]; ok && b.expired(current) {
			delete(b.items, key)
		}
		b.mu.Unlock()
		return nil, ErrNotFound
	}
	out := make([]byte, len(item.value))
	copy(out, item.value)
	return out, nil
}

func (b *memoryBackend) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	item := memoryItem{value: append([]byte(nil), value...)}
	if expiration > 0 {
		item.expiresAt = b.now().Add(expiration)
	}
	b.mu.Lock()
	b.sweep()
	b.items[key] = item
	b.mu.Unlock()
	return nil
}

func (b *memoryBackend) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	delete(b.items, key)
	b.mu.Unlock()
	return nil
}

func (b *memoryBackend) Keys(ctx context.Context, prefix string) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	keys := make([]string, 0)
	for key, item := range b.items {
		if strings.HasPrefix(key, prefix) && !b.expired(item) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// sweep drops every expired entry so keys that are never read again do not pile up.
// The caller must hold the write lock.
func (b *memoryBackend) sweep() {
	for key, item := range b.items {
		if b.expired(item) {
			delete(b.items, key)
		}
	}
}

func (b *memoryBackend) expired(item memoryItem) bool {
	return !item.expiresAt.IsZero() && b.now().After(item.expiresAt)
}
