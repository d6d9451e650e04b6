// Package scheduler keeps the resource caches warm by refreshing the catalog on a cron schedule
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/renderdragon/backend/internal/models"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultSchedule refreshes the catalog every hour, matching the API cache lifetime
const DefaultSchedule = "@every 1h"

// refreshTimeout bounds a single refresh run
const refreshTimeout = 5 * time.Minute

// CatalogRefresher reloads the catalog bypassing the caches
type CatalogRefresher interface {
	// Refresh reloads every source and writes the results back to the caches
	Refresh(ctx context.Context) (*models.RefreshSummary, error)
}

// Scheduler runs catalog refreshes on a cron schedule
type Scheduler struct {
	cron      *cron.Cron
	refresher CatalogRefresher
	logger    *zap.Logger
	running   sync.Mutex
	warmup    sync.WaitGroup
}

// NewScheduler creates a new scheduler. An empty schedule selects DefaultSchedule.
func NewScheduler(refresher CatalogRefresher, schedule string, logger *zap.Logger) (*Scheduler, error) {
	if schedule == "" {
		schedule = DefaultSchedule
	}

	s := &Scheduler{
		cron:      cron.New(),
		refresher: refresher,
		logger:    logger,
	}
	if _, err := s.cron.AddFunc(schedule, s.RunOnce); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start starts the scheduler and triggers an immediate warm-up in the background
func (s *Scheduler) Start() {
	s.logger.Info("Scheduler started")
	s.cron.Start()

	s.warmup.Add(1)
	go func() {
		defer s.warmup.Done()
		s.RunOnce()
	}()
}

// Stop stops the scheduler and waits for a running refresh to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.warmup.Wait()
	s.logger.Info("Scheduler stopped")
}

// RunOnce refreshes the catalog unless a refresh is already running
func (s *Scheduler) RunOnce() {
	if !s.running.TryLock() {
		s.logger.Debug("Catalog refresh already running, skipping")
		return
	}
	defer s.running.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	start := time.Now()
	summary, err := s.refresher.Refresh(ctx)
	if err != nil {
		s.logger.Error("Failed to refresh catalog", zap.Error(err))
		return
	}

	s.logger.Info("Catalog refreshed",
		zap.Int("total", summary.Total),
		zap.Int("categories", len(summary.Categories)),
		zap.Duration("took", time.Since(start)),
	)
}
