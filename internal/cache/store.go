package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Key prefixes used by the aggregator
const (
	ResourcePrefix = "resources-cache:"
	APIPrefix      = "rd-cache:"
)

// backendExpiryFactor lets the backend evict abandoned entries some time after they went stale
const backendExpiryFactor = 2

// envelope is the stored form of every entry
type envelope struct {
	SavedAt int64           `json:"savedAt"`
	Data    json.RawMessage `json:"data"`
}

// Store is a namespaced JSON cache whose entries go stale after a fixed TTL.
// Reads never fail loudly: every problem is reported as a miss, and writes are best effort.
type Store struct {
	backend Backend
	prefix  string
	ttl     time.Duration
	now     func() time.Time
	logger  *zap.Logger
}

// NewStore creates a Store that keeps its keys under prefix
func NewStore(backend Backend, prefix string, ttl time.Duration, logger *zap.Logger) *Store {
	return &Store{
		backend: backend,
		prefix:  prefix,
		ttl:     ttl,
		now:     time.Now,
		logger:  logger,
	}
}

// TTL returns the freshness window of the store
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Read decodes the entry stored under key into dst.
// It returns false when the key is missing, the payload is malformed, or the entry is older than the TTL.
// Expired entries are deleted.
func (s *Store) Read(ctx context.Context, key string, dst any) bool {
	env, ok := s.load(ctx, key)
	if !ok {
		return false
	}
	if s.now().Sub(time.UnixMilli(env.SavedAt)) > s.ttl {
		s.Clear(ctx, key)
		return false
	}
	if dst == nil {
		return true
	}
	if err := json.Unmarshal(env.Data, dst); err != nil {
		s.logger.Debug("cache entry does not match requested type", zap.String("key", s.prefix+key), zap.Error(err))
		return false
	}
	return true
}

// ReadAs is the typed form of Store.Read
func ReadAs[T any](ctx context.Context, s *Store, key string) (T, bool) {
	var value T
	if !s.Read(ctx, key, &value) {
		var zero T
		return zero, false
	}
	return value, true
}

// Write stores data under key with the current time. Failures are logged and otherwise ignored.
func (s *Store) Write(ctx context.Context, key string, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		s.logger.Debug("failed to encode cache entry", zap.String("key", s.prefix+key), zap.Error(err))
		return
	}
	raw, err := json.Marshal(envelope{SavedAt: s.now().UnixMilli(), Data: payload})
	if err != nil {
		s.logger.Debug("failed to encode cache envelope", zap.String("key", s.prefix+key), zap.Error(err))
		return
	}
	if err := s.backend.Set(ctx, s.prefix+key, raw, s.ttl*backendExpiryFactor); err != nil {
		s.logger.Debug("failed to write cache entry", zap.String("key", s.prefix+key), zap.Error(err))
	}
}

// Clear removes the entry stored under key
func (s *Store) Clear(ctx context.Context, key string) {
	if err := s.backend.Delete(ctx, s.prefix+key); err != nil {
		s.logger.Debug("failed to clear cache entry", zap.String("key", s.prefix+key), zap.Error(err))
	}
}

// ClearAll removes every entry of the store's namespace and returns how many keys were removed
func (s *Store) ClearAll(ctx context.Context) int {
	keys, err := s.backend.Keys(ctx, s.prefix)
	if err != nil {
		s.logger.Warn("failed to list cache keys", zap.String("prefix", s.prefix), zap.Error(err))
		return 0
	}
	removed := 0
	for _, key := range keys {
		if err := s.backend.Delete(ctx, key); err != nil {
			s.logger.Debug("failed to clear cache entry", zap.String("key", key), zap.Error(err))
			continue
		}
		removed++
	}
	return removed
}

// Age returns how long ago the entry under key was saved, regardless of the TTL
func (s *Store) Age(ctx context.Context, key string) (time.Duration, bool) {
	env, ok := s.load(ctx, key)
	if !ok {
		return 0, false
	}
	return s.now().Sub(time.UnixMilli(env.SavedAt)), true
}

// load fetches and validates the envelope under key
func (s *Store) load(ctx context.Context, key string) (envelope, bool) {
	raw, err := s.backend.Get(ctx, s.prefix+key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Debug("failed to read cache entry", zap.String("key", s.prefix+key), zap.Error(err))
		}
		return envelope{}, false
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return envelope{}, false
	}
	if env.SavedAt <= 0 || len(env.Data) == 0 {
		return envelope{}, false
	}
	return env, true
}
