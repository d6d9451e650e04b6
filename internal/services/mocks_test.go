package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/renderdragon/backend/internal/cache"
	"github.com/renderdragon/backend/internal/models"
	"go.uber.org/zap"
)

// mockStatic is a mock implementation of StaticCatalog
type mockStatic struct {
	mu            sync.Mutex
	index         *models.IndexFile
	categoryFiles map[string]string
	all           string
	legacy        string
	calls         map[string]int
	requested     []string
}

func (m *mockStatic) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[name]++
}

func (m *mockStatic) count(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

func (m *mockStatic) Index(ctx context.Context) (*models.IndexFile, bool) {
	m.record("index")
	if m.index == nil {
		return nil, false
	}
	return m.index, true
}

func (m *mockStatic) CategoryFile(ctx context.Context, category, file string) (json.RawMessage, bool) {
	m.record("category")
	key := file
	if key == "" {
		key = category
	}
	m.mu.Lock()
	m.requested = append(m.requested, key)
	m.mu.Unlock()
	body, ok := m.categoryFiles[key]
	if !ok {
		return nil, false
	}
	return json.RawMessage(body), true
}

func (m *mockStatic) All(ctx context.Context) (json.RawMessage, bool) {
	m.record("all")
	return optionalDoc(m.all)
}

func (m *mockStatic) Legacy(ctx context.Context) (json.RawMessage, bool) {
	m.record("legacy")
	return optionalDoc(m.legacy)
}

// mockWorker is a mock implementation of WorkerCatalog
type mockWorker struct {
	all        string
	categories map[models.Category]string
	names      *models.WorkerCategories
	allCalls   int
}

func (m *mockWorker) All(ctx context.Context) (json.RawMessage, bool) {
	m.allCalls++
	return optionalDoc(m.all)
}

func (m *mockWorker) Category(ctx context.Context, category models.Category) (json.RawMessage, bool) {
	return optionalDoc(m.categories[category])
}

func (m *mockWorker) Categories(ctx context.Context) (*models.WorkerCategories, bool) {
	if m.names == nil {
		return nil, false
	}
	return m.names, true
}

// mockIcons is a mock implementation of IconCatalog
type mockIcons struct {
	body string
}

func (m *mockIcons) Icons(ctx context.Context) (json.RawMessage, bool) {
	return optionalDoc(m.body)
}

// mockResourceRepository is a mock implementation of ResourceRepository and CatalogRepository
type mockResourceRepository struct {
	resources []models.Resource
	err       error
	upsertErr error
	batches   [][]models.Resource
	deleted   int64
	deleteErr error
	deletes   int
}

func (m *mockResourceRepository) GetAll(ctx context.Context) ([]models.Resource, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.resources, nil
}

func (m *mockResourceRepository) GetByCategory(ctx context.Context, category models.Category) ([]models.Resource, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]models.Resource, 0)
	for _, r := range m.resources {
		if r.Category == category {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockResourceRepository) UpsertBatch(ctx context.Context, resources []models.Resource) error {
	m.batches = append(m.batches, resources)
	return m.upsertErr
}

func (m *mockResourceRepository) DeleteAll(ctx context.Context) (int64, error) {
	m.deletes++
	if m.deleteErr != nil {
		return 0, m.deleteErr
	}
	return m.deleted, nil
}

// mockCounts is a mock implementation of CountSnapshotter
type mockCounts struct {
	counts models.DownloadCounts
}

func (m *mockCounts) Snapshot() models.DownloadCounts {
	return m.counts
}

// mockDownloadRepository is a mock implementation of DownloadRepository
type mockDownloadRepository struct {
	mu          sync.Mutex
	rows        []models.DownloadCount
	err         error
	incErr      error
	incremented []int64
}

func (m *mockDownloadRepository) GetAll(ctx context.Context) ([]models.DownloadCount, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.rows, nil
}

func (m *mockDownloadRepository) IncrementCount(ctx context.Context, resourceID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.incremented = append(m.incremented, resourceID)
	return m.incErr
}

// mockFavoriteRepository is a mock implementation of FavoriteRepository
type mockFavoriteRepository struct {
	favorites map[string][]string
	err       error
	addErr    error
	removeErr error
}

func (m *mockFavoriteRepository) GetByUser(ctx context.Context, userID string) ([]models.Favorite, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]models.Favorite, 0)
	for _, id := range m.favorites[userID] {
		out = append(out, models.Favorite{UserID: userID, ResourceID: id})
	}
	return out, nil
}

func (m *mockFavoriteRepository) Exists(ctx context.Context, userID, resourceID string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	for _, id := range m.favorites[userID] {
		if id == resourceID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockFavoriteRepository) Add(ctx context.Context, userID, resourceID string) error {
	if m.addErr != nil {
		return m.addErr
	}
	if m.favorites == nil {
		m.favorites = make(map[string][]string)
	}
	m.favorites[userID] = append(m.favorites[userID], resourceID)
	return nil
}

func (m *mockFavoriteRepository) Remove(ctx context.Context, userID, resourceID string) error {
	if m.removeErr != nil {
		return m.removeErr
	}
	kept := make([]string, 0)
	for _, id := range m.favorites[userID] {
		if id != resourceID {
			kept = append(kept, id)
		}
	}
	m.favorites[userID] = kept
	return nil
}

func (m *mockFavoriteRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	n := int64(len(m.favorites[userID]))
	delete(m.favorites, userID)
	return n, nil
}

func optionalDoc(body string) (json.RawMessage, bool) {
	if body == "" {
		return nil, false
	}
	return json.RawMessage(body), true
}

// newTestStores returns the two JSON caches over a shared memory backend
func newTestStores() (*cache.Store, *cache.Store) {
	backend := cache.NewMemoryBackend()
	return cache.NewStore(backend, cache.ResourcePrefix, 6*time.Hour, zap.NewNop()),
		cache.NewStore(backend, cache.APIPrefix, time.Hour, zap.NewNop())
}
