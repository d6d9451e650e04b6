package services

import (
	"context"
	"testing"

	"github.com/renderdragon/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockBlobCache is a mock implementation of BlobCache
type mockBlobCache struct {
	cleared int
}

func (m *mockBlobCache) Clear() {
	m.cleared++
}

func TestCacheService_Age(t *testing.T) {
	resourceCache, apiCache := newTestStores()
	ctx := context.Background()
	resourceCache.Write(ctx, "all-v1", []int{1})
	apiCache.Write(ctx, "api:categories", []string{"music"})
	svc := NewCacheService(resourceCache, apiCache, nil, zap.NewNop())

	tests := []struct {
		name          string
		namespace     string
		key           string
		expectedError string
	}{
		{name: "default namespace", namespace: "", key: "all-v1"},
		{name: "api namespace", namespace: models.CacheNamespaceAPI, key: "api:categories"},
		{name: "missing key", namespace: models.CacheNamespaceResources, key: "", expectedError: "key is required"},
		{name: "missing entry", namespace: models.CacheNamespaceAPI, key: "all-v1", expectedError: "cache entry not found"},
		{name: "unknown namespace", namespace: "blobs", key: "all-v1", expectedError: "invalid namespace"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Age(ctx, tt.namespace, tt.key)

			if tt.expectedError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.key, resp.Key)
			assert.NotEmpty(t, resp.Namespace)
			assert.GreaterOrEqual(t, resp.AgeSeconds, int64(0))
			assert.False(t, resp.Stale)
		})
	}
}

func TestCacheService_ClearAll(t *testing.T) {
	resourceCache, apiCache := newTestStores()
	ctx := context.Background()
	resourceCache.Write(ctx, "all-v1", []int{1})
	resourceCache.Write(ctx, "index-v1", map[string]int{})
	apiCache.Write(ctx, "api:mci-icons", []int{})
	blobs := &mockBlobCache{}
	svc := NewCacheService(resourceCache, apiCache, blobs, zap.NewNop())

	resp := svc.ClearAll(ctx)

	assert.Equal(t, &models.CacheClearResponse{ResourceEntries: 2, APIEntries: 1, BinaryCleared: true}, resp)
	assert.Equal(t, 1, blobs.cleared)
	_, ok := resourceCache.Age(ctx, "all-v1")
	assert.False(t, ok)
}
