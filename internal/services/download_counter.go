package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/renderdragon/backend/internal/models"
	"go.uber.org/zap"
)

// DownloadRepository is the interface that wraps methods for downloads table data access
type DownloadRepository interface {
	// Method GetAll retrieve every persisted download counter.
	//
	// If some error will occur during data retrieve, the error will be returned together with "nil" value.
	GetAll(ctx context.Context) ([]models.DownloadCount, error)
	// Method IncrementCount atomically add one download to the counter of "resourceID", creating it when missing.
	IncrementCount(ctx context.Context, resourceID int64) error
}

// mainIDPrefix marks ids minted by the main catalog
const mainIDPrefix = "main-"

// DownloadCounter keeps download counts in memory and mirrors increments to the database
type DownloadCounter struct {
	repo   DownloadRepository
	mu     sync.RWMutex
	counts models.DownloadCounts
	logger *zap.Logger
}

// NewDownloadCounter creates a new download counter with an empty count map
func NewDownloadCounter(repo DownloadRepository, logger *zap.Logger) *DownloadCounter {
	return &DownloadCounter{
		repo:   repo,
		counts: make(models.DownloadCounts),
		logger: logger,
	}
}

// Load replaces the in-memory counts with the persisted ones.
// On failure the current counts are kept.
func (c *DownloadCounter) Load(ctx context.Context) error {
	rows, err := c.repo.GetAll(ctx)
	if err != nil {
		c.logger.Error("failed to load download counts", zap.Error(err))
		return fmt.Errorf("failed to load download counts: %w", err)
	}

	counts := make(models.DownloadCounts, len(rows))
	for _, row := range rows {
		counts[strconv.FormatInt(row.ResourceID, 10)] = row.Count
	}

	c.mu.Lock()
	c.counts = counts
	c.mu.Unlock()

	c.logger.Info("download counts loaded", zap.Int("resources", len(counts)))
	return nil
}

// Increment adds one download to id and returns the new in-memory count.
//
// The count is bumped before the database write and is not rolled back when the write fails.
// Ids without a numeric form (see NumericID) are only counted in memory.
func (c *DownloadCounter) Increment(ctx context.Context, id string) int64 {
	c.mu.Lock()
	current, ok := c.counts[id]
	if !ok {
		current = countFor(c.counts, id)
	}
	next := current + 1
	c.counts[id] = next
	c.mu.Unlock()

	numeric, ok := NumericID(id)
	if !ok {
		c.logger.Debug("download counted in memory only", zap.String("resource_id", id))
		return next
	}

	if err := c.repo.IncrementCount(ctx, numeric); err != nil {
		c.logger.Error("failed to persist download count",
			zap.String("resource_id", id),
			zap.Int64("numeric_id", numeric),
			zap.Error(err),
		)
	}
	return next
}

// Snapshot returns a copy of the in-memory counts
func (c *DownloadCounter) Snapshot() models.DownloadCounts {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(models.DownloadCounts, len(c.counts))
	for k, v := range c.counts {
		out[k] = v
	}
	return out
}

// Count returns the download count of id, reading prefixed ids through their numeric form
// until they have been counted themselves
func (c *DownloadCounter) Count(id string) int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return countFor(c.counts, id)
}

// NumericID extracts the database key of a resource id: a plain non-negative integer or main-<n>
func NumericID(id string) (int64, bool) {
	id = strings.TrimPrefix(strings.TrimSpace(id), mainIDPrefix)
	if id == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
