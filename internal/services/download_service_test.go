package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/renderdragon/backend/internal/cache"
	"github.com/renderdragon/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockFinder is a mock implementation of ResourceFinder
type mockFinder struct {
	detail *models.ResourceDetail
	err    error
	listed map[string]bool
}

func (m *mockFinder) Find(ctx context.Context, category, id string) (*models.ResourceDetail, error) {
	return m.detail, m.err
}

func (m *mockFinder) Lists(ctx context.Context, id string) bool {
	return m.listed[id]
}

// mockBlobs is a mock implementation of BlobFetcher
type mockBlobs struct {
	entry *cache.BinaryEntry
	err   error
	urls  []string
}

func (m *mockBlobs) Fetch(ctx context.Context, url string) (*cache.BinaryEntry, error) {
	m.urls = append(m.urls, url)
	return m.entry, m.err
}

// mockRecorder is a mock implementation of DownloadRecorder
type mockRecorder struct {
	mu      sync.Mutex
	ids     []string
	ctxErrs []error
	release chan struct{}
}

func (m *mockRecorder) Increment(ctx context.Context, id string) int64 {
	if m.release != nil {
		<-m.release
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids = append(m.ids, id)
	m.ctxErrs = append(m.ctxErrs, ctx.Err())
	return int64(len(m.ids))
}

func (m *mockRecorder) recorded() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.ids...)
}

func TestDownloadService_Download(t *testing.T) {
	attachment := &models.ResourceDetail{
		Resource:      models.Resource{ID: "3", Title: "Glow", Category: models.CategoryPresets},
		ResolvedURL:   "https://x/glow.zip",
		Filename:      "Glow.zip",
		ForceDownload: true,
	}
	link := &models.ResourceDetail{
		Resource:    models.Resource{ID: "8", Title: "Guide", Category: models.Category("guides")},
		ResolvedURL: "https://x/guide.pdf",
		Filename:    "Guide.pdf",
	}

	tests := []struct {
		name            string
		finder          *mockFinder
		blobs           *mockBlobs
		expectedPayload *models.DownloadPayload
		expectedCounted []string
		expectedError   string
	}{
		{
			name:   "attachment",
			finder: &mockFinder{detail: attachment},
			blobs:  &mockBlobs{entry: &cache.BinaryEntry{Body: []byte("zip"), ContentType: "application/zip"}},
			expectedPayload: &models.DownloadPayload{
				Body:        []byte("zip"),
				ContentType: "application/zip",
				Filename:    "Glow.zip",
			},
			expectedCounted: []string{"3"},
		},
		{
			name:            "redirect",
			finder:          &mockFinder{detail: link},
			blobs:           &mockBlobs{},
			expectedPayload: &models.DownloadPayload{RedirectURL: "https://x/guide.pdf", Filename: "Guide.pdf"},
			expectedCounted: []string{"8"},
		},
		{
			name:          "resource not found",
			finder:        &mockFinder{err: errors.New("resource not found")},
			blobs:         &mockBlobs{},
			expectedError: "resource not found",
		},
		{
			name:          "fetch failure is not counted",
			finder:        &mockFinder{detail: attachment},
			blobs:         &mockBlobs{err: errors.New("unexpected status 404")},
			expectedError: "failed to fetch resource file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := &mockRecorder{}
			svc := NewDownloadService(tt.finder, tt.blobs, recorder, zap.NewNop())

			payload, err := svc.Download(context.Background(), "presets", "3")
			svc.Wait()

			if tt.expectedError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				assert.Nil(t, payload)
				assert.Empty(t, recorder.recorded())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedPayload, payload)
			assert.Equal(t, tt.expectedCounted, recorder.recorded())
		})
	}
}

func TestDownloadService_CountingDoesNotBlockResponse(t *testing.T) {
	detail := &models.ResourceDetail{
		Resource:    models.Resource{ID: "8", Title: "Guide", Category: models.Category("guides")},
		ResolvedURL: "https://x/guide.pdf",
	}
	recorder := &mockRecorder{release: make(chan struct{})}
	svc := NewDownloadService(&mockFinder{detail: detail}, &mockBlobs{}, recorder, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := svc.Download(ctx, "guides", "8")
		assert.NoError(t, err)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("download waited for the count to be written")
	}

	// the request is over before the count is written
	cancel()
	close(recorder.release)
	svc.Wait()

	assert.Equal(t, []string{"8"}, recorder.recorded())
	assert.Equal(t, []error{nil}, recorder.ctxErrs)
}

func TestDownloadService_Record(t *testing.T) {
	tests := []struct {
		name          string
		id            string
		expectedResp  *models.DownloadIncrementResponse
		expectedError string
	}{
		{
			name:         "listed resource",
			id:           "main-42",
			expectedResp: &models.DownloadIncrementResponse{ResourceID: "main-42", Count: 1},
		},
		{
			name:          "unknown resource is not counted",
			id:            "made-up-id",
			expectedError: "resource not found",
		},
		{
			name:          "empty id",
			id:            "",
			expectedError: "resource id is required",
		},
		{
			name:          "id too long",
			id:            strings.Repeat("x", maxResourceIDLength+1),
			expectedError: "resource id is too long",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := &mockRecorder{}
			finder := &mockFinder{listed: map[string]bool{"main-42": true}}
			svc := NewDownloadService(finder, &mockBlobs{}, recorder, zap.NewNop())

			resp, err := svc.Record(context.Background(), tt.id)

			if tt.expectedError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				assert.Empty(t, recorder.recorded())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedResp, resp)
			assert.Equal(t, []string{tt.id}, recorder.recorded())
		})
	}
}
