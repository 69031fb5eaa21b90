package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/leaguehq/draftsim/internal/adp"
	"github.com/leaguehq/draftsim/internal/models"
	"github.com/leaguehq/draftsim/internal/providers"
)

// ADPRefresher keeps a reconciled player pool current by fetching both
// ranking sources on a schedule. The latest pool is held in memory and
// mirrored to the cache so a source outage degrades to stale data.
type ADPRefresher struct {
	primary    providers.ADPSource
	secondary  providers.ADPSource
	reconciler *adp.Reconciler
	cache      *CacheService
	cacheTTL   time.Duration
	logger     *logrus.Logger

	cron      *cron.Cron
	mu        sync.RWMutex
	pool      []models.PlayerPoolEntry
	updatedAt time.Time
	isRunning bool
}

// NewADPRefresher creates a refresher; cache may be nil for CLI use.
func NewADPRefresher(primary, secondary providers.ADPSource, reconciler *adp.Reconciler, cache *CacheService, cacheTTL time.Duration, logger *logrus.Logger) *ADPRefresher {
	return &ADPRefresher{
		primary:    primary,
		secondary:  secondary,
		reconciler: reconciler,
		cache:      cache,
		cacheTTL:   cacheTTL,
		logger:     logger,
		cron:       cron.New(),
	}
}

// Start begins scheduled refreshes and runs one immediately.
func (r *ADPRefresher) Start(interval time.Duration) error {
	r.mu.Lock()
	if r.isRunning {
		r.mu.Unlock()
		return fmt.Errorf("ADP refresher is already running")
	}
	r.isRunning = true
	r.mu.Unlock()

	schedule := fmt.Sprintf("@every %s", interval.String())
	if _, err := r.cron.AddFunc(schedule, func() {
		if err := r.Refresh(context.Background()); err != nil {
			r.logger.Errorf("Scheduled ADP refresh failed: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule ADP refresh: %w", err)
	}
	r.cron.Start()

	go func() {
		if err := r.Refresh(context.Background()); err != nil {
			r.logger.Errorf("Initial ADP refresh failed: %v", err)
		}
	}()

	r.logger.Info("ADP refresher started")
	return nil
}

// Stop halts scheduled refreshes.
func (r *ADPRefresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.isRunning {
		return
	}
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.isRunning = false
	r.logger.Info("ADP refresher stopped")
}

// Refresh fetches both sources and reconciles them into a fresh pool.
func (r *ADPRefresher) Refresh(ctx context.Context) error {
	sourceA, err := r.primary.FetchADP(ctx)
	if err != nil {
		return fmt.Errorf("primary ADP source %s failed: %w", r.primary.Name(), err)
	}
	sourceB, err := r.secondary.FetchADP(ctx)
	if err != nil {
		return fmt.Errorf("secondary ADP source %s failed: %w", r.secondary.Name(), err)
	}

	pool := r.reconciler.Reconcile(sourceA, sourceB)

	r.mu.Lock()
	r.pool = pool
	r.updatedAt = time.Now().UTC()
	r.mu.Unlock()

	if r.cache != nil {
		key := PoolCacheKey(r.primary.Name(), r.secondary.Name())
		if err := r.cache.Set(ctx, key, pool, r.cacheTTL); err != nil {
			r.logger.Warnf("Failed to cache reconciled pool: %v", err)
		}
	}

	r.logger.WithFields(logrus.Fields{
		"players": len(pool),
	}).Info("Reconciled ADP pool refreshed")
	return nil
}

// Pool returns a copy of the latest reconciled pool and when it was
// built. Falls back to the cache when no refresh has succeeded yet.
func (r *ADPRefresher) Pool(ctx context.Context) ([]models.PlayerPoolEntry, time.Time, error) {
	r.mu.RLock()
	if len(r.pool) > 0 {
		pool := append([]models.PlayerPoolEntry(nil), r.pool...)
		at := r.updatedAt
		r.mu.RUnlock()
		return pool, at, nil
	}
	r.mu.RUnlock()

	if r.cache != nil {
		var cached []models.PlayerPoolEntry
		key := PoolCacheKey(r.primary.Name(), r.secondary.Name())
		if err := r.cache.Get(ctx, key, &cached); err == nil && len(cached) > 0 {
			return cached, time.Time{}, nil
		}
	}
	return nil, time.Time{}, fmt.Errorf("no reconciled ADP pool available")
}
