package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/renderdragon/backend/internal/models"
	"github.com/renderdragon/backend/internal/services"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "b8a3c2267dc85f855dea9b46b452bf20"
	testAPIKey = "maintenance-key"
	testUserID = "8f14e45f-ceea-4e7a-9a3b-2f1c6b7d9e01"
)

// mockResourceService is a mock implementation of ResourceService
type mockResourceService struct {
	page       *models.ResourcePage
	listErr    error
	lastQuery  services.ResourceQuery
	categories []models.CategorySummary
	detail     *models.ResourceDetail
	findErr    error
}

func (m *mockResourceService) List(ctx context.Context, query services.ResourceQuery) (*models.ResourcePage, error) {
	m.lastQuery = query
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.page, nil
}

func (m *mockResourceService) Categories(ctx context.Context) []models.CategorySummary {
	return m.categories
}

func (m *mockResourceService) Find(ctx context.Context, category, id string) (*models.ResourceDetail, error) {
	return m.detail, m.findErr
}

// mockDownloadService is a mock implementation of DownloadService
type mockDownloadService struct {
	payload  *models.DownloadPayload
	err      error
	recorded []string
}

func (m *mockDownloadService) Download(ctx context.Context, category, id string) (*models.DownloadPayload, error) {
	return m.payload, m.err
}

func (m *mockDownloadService) Record(ctx context.Context, id string) (*models.DownloadIncrementResponse, error) {
	if id == "" {
		return nil, errors.New("resource id is required")
	}
	if id == "unlisted" {
		return nil, errors.New("resource not found")
	}
	m.recorded = append(m.recorded, id)
	return &models.DownloadIncrementResponse{ResourceID: id, Count: int64(len(m.recorded))}, nil
}

// mockCounts is a mock implementation of CountSnapshotter
type mockCounts struct {
	counts models.DownloadCounts
}

func (m *mockCounts) Snapshot() models.DownloadCounts {
	return m.counts
}

// mockFavoriteService is a mock implementation of FavoriteService and FavoriteLister
type mockFavoriteService struct {
	ids       []string
	err       error
	toggleErr error
}

func (m *mockFavoriteService) List(ctx context.Context, userID string) ([]string, error) {
	return m.ids, m.err
}

func (m *mockFavoriteService) Toggle(ctx context.Context, userID, resourceID string) (*models.FavoriteToggleResponse, error) {
	if m.toggleErr != nil {
		return nil, m.toggleErr
	}
	return &models.FavoriteToggleResponse{ResourceID: resourceID, Action: models.FavoriteActionAdded}, nil
}

// mockAccountService is a mock implementation of AccountService
type mockAccountService struct {
	err     error
	deleted []string
}

func (m *mockAccountService) DeleteAccount(ctx context.Context, userID string) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, userID)
	return nil
}

// mockCacheService is a mock implementation of CacheService and CatalogRefresher
type mockCacheService struct {
	age        *models.CacheAgeResponse
	ageErr     error
	cleared    int
	summary    *models.RefreshSummary
	refreshErr error
}

func (m *mockCacheService) Age(ctx context.Context, namespace, key string) (*models.CacheAgeResponse, error) {
	return m.age, m.ageErr
}

func (m *mockCacheService) ClearAll(ctx context.Context) *models.CacheClearResponse {
	m.cleared++
	return &models.CacheClearResponse{ResourceEntries: 3, APIEntries: 1, BinaryCleared: true}
}

func (m *mockCacheService) Refresh(ctx context.Context) (*models.RefreshSummary, error) {
	return m.summary, m.refreshErr
}

// mockPinger is a mock implementation of Pinger
type mockPinger struct {
	err error
}

func (m *mockPinger) PingContext(ctx context.Context) error {
	return m.err
}

func signedToken(t *testing.T) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": testUserID,
		"aud": "authenticated",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}
