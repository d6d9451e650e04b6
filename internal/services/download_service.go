package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/renderdragon/backend/internal/cache"
	"github.com/renderdragon/backend/internal/models"
	"go.uber.org/zap"
)

// ResourceFinder is the interface that wraps single resource lookup
type ResourceFinder interface {
	// Method Find returns the resource "id" of "category" together with its resolved download location.
	//
	// The error "resource not found" is returned when no source lists the resource.
	Find(ctx context.Context, category, id string) (*models.ResourceDetail, error)
	// Method Lists reports whether any source lists a resource with "id" in any category.
	Lists(ctx context.Context, id string) bool
}

// countTimeout bounds a download count write once it runs detached from its request
const countTimeout = 10 * time.Second

// BlobFetcher is the interface that wraps cached asset downloads
type BlobFetcher interface {
	// Method Fetch returns the body behind "url" from the binary cache, downloading it on a miss.
	Fetch(ctx context.Context, url string) (*cache.BinaryEntry, error)
}

// DownloadRecorder is the interface that wraps download counting
type DownloadRecorder interface {
	// Method Increment adds one download to "id" and returns the new count. Failures are logged, never returned.
	Increment(ctx context.Context, id string) int64
}

type downloadService struct {
	resources ResourceFinder
	blobs     BlobFetcher
	counter   DownloadRecorder
	pending   sync.WaitGroup
	logger    *zap.Logger
}

// NewDownloadService creates a new download service
func NewDownloadService(resources ResourceFinder, blobs BlobFetcher, counter DownloadRecorder, logger *zap.Logger) *downloadService {
	return &downloadService{
		resources: resources,
		blobs:     blobs,
		counter:   counter,
		logger:    logger,
	}
}

// Download performs the download action for a resource.
//
// Categories served as attachments are fetched through the binary cache; every other resource
// is answered with a redirect to its resolved URL. A successful action counts one download.
func (s *downloadService) Download(ctx context.Context, category, id string) (*models.DownloadPayload, error) {
	detail, err := s.resources.Find(ctx, category, id)
	if err != nil {
		return nil, err
	}

	payload := &models.DownloadPayload{Filename: detail.Filename}

	if detail.ForceDownload {
		entry, err := s.blobs.Fetch(ctx, detail.ResolvedURL)
		if err != nil {
			s.logger.Warn("download failed",
				zap.String("resource_id", id),
				zap.String("url", detail.ResolvedURL),
				zap.Error(err),
			)
			return nil, fmt.Errorf("failed to fetch resource file: %w", err)
		}
		payload.Body = entry.Body
		payload.ContentType = entry.ContentType
	} else {
		payload.RedirectURL = detail.ResolvedURL
	}

	s.countLater(ctx, detail.ID.String())
	return payload, nil
}

// countLater records a download without holding up the response
func (s *downloadService) countLater(ctx context.Context, id string) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		countCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), countTimeout)
		defer cancel()
		s.counter.Increment(countCtx, id)
	}()
}

// Wait blocks until every download counted by Download has been recorded
func (s *downloadService) Wait() {
	s.pending.Wait()
}

// Record counts a download performed by the client itself. Only resources listed by a source
// are counted, and the new total is returned.
func (s *downloadService) Record(ctx context.Context, id string) (*models.DownloadIncrementResponse, error) {
	if id == "" {
		return nil, fmt.Errorf("resource id is required")
	}
	if len(id) > maxResourceIDLength {
		return nil, fmt.Errorf("resource id is too long")
	}
	if !s.resources.Lists(ctx, id) {
		return nil, fmt.Errorf("resource not found")
	}
	return &models.DownloadIncrementResponse{
		ResourceID: id,
		Count:      s.counter.Increment(ctx, id),
	}, nil
}
