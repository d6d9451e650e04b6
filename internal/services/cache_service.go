package services

import (
	"context"
	"fmt"

	"github.com/renderdragon/backend/internal/cache"
	"github.com/renderdragon/backend/internal/models"
	"go.uber.org/zap"
)

// BlobCache is the interface that wraps clearing of the binary cache
type BlobCache interface {
	// Method Clear drops every cached blob.
	Clear()
}

type cacheService struct {
	resourceCache *cache.Store
	apiCache      *cache.Store
	blobs         BlobCache
	logger        *zap.Logger
}

// NewCacheService creates a new cache maintenance service
func NewCacheService(resourceCache, apiCache *cache.Store, blobs BlobCache, logger *zap.Logger) *cacheService {
	return &cacheService{
		resourceCache: resourceCache,
		apiCache:      apiCache,
		blobs:         blobs,
		logger:        logger,
	}
}

// Age reports how old the entry under key is in the given namespace
func (s *cacheService) Age(ctx context.Context, namespace, key string) (*models.CacheAgeResponse, error) {
	if key == "" {
		return nil, fmt.Errorf("key is required")
	}

	if namespace == "" {
		namespace = models.CacheNamespaceResources
	}
	store, err := s.store(namespace)
	if err != nil {
		return nil, err
	}

	age, ok := store.Age(ctx, key)
	if !ok {
		return nil, fmt.Errorf("cache entry not found")
	}

	return &models.CacheAgeResponse{
		Namespace:  namespace,
		Key:        key,
		AgeSeconds: int64(age.Seconds()),
		Stale:      age > store.TTL(),
	}, nil
}

// ClearAll empties every cache
func (s *cacheService) ClearAll(ctx context.Context) *models.CacheClearResponse {
	result := &models.CacheClearResponse{
		ResourceEntries: s.resourceCache.ClearAll(ctx),
		APIEntries:      s.apiCache.ClearAll(ctx),
	}
	if s.blobs != nil {
		s.blobs.Clear()
		result.BinaryCleared = true
	}

	s.logger.Info("caches cleared",
		zap.Int("resource_entries", result.ResourceEntries),
		zap.Int("api_entries", result.APIEntries),
	)
	return result
}

func (s *cacheService) store(namespace string) (*cache.Store, error) {
	switch namespace {
	case models.CacheNamespaceResources:
		return s.resourceCache, nil
	case models.CacheNamespaceAPI:
		return s.apiCache, nil
	default:
		return nil, fmt.Errorf("invalid namespace: %s", namespace)
	}
}
