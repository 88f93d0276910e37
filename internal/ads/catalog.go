package ads

import (
	"context"
	"sync"
	"time"

	"github.com/pulsefeed/backend/internal/logger"
	"github.com/pulsefeed/backend/internal/metrics"
	"github.com/pulsefeed/backend/internal/models"
	"github.com/pulsefeed/backend/internal/repository"
	"go.uber.org/zap"
)

// Catalog caches the campaign-active ad list so ad selection never pays the
// full-table campaign-window scan per request. Activation changes may take
// up to the TTL to show up; writers call Invalidate to shortcut that.
//
// The lock is released while the store is queried, so two requests hitting
// an expired cache may both rebuild it. Last writer wins; both lists were
// fresh enough to serve.
type Catalog struct {
	repo repository.AdRepository
	ttl  time.Duration
	now  func() time.Time

	mu          sync.Mutex
	ads         []models.Advertisement
	refreshedAt time.Time
}

// NewCatalog creates an ad catalog cache with the given TTL
func NewCatalog(repo repository.AdRepository, ttl time.Duration) *Catalog {
	return &Catalog{
		repo: repo,
		ttl:  ttl,
		now:  time.Now,
	}
}

// ActiveAds returns the campaign-active ads, rebuilding the cache when it is
// empty or older than the TTL.
func (c *Catalog) ActiveAds(ctx context.Context) ([]models.Advertisement, error) {
	c.mu.Lock()
	if c.ads != nil && c.now().Sub(c.refreshedAt) <= c.ttl {
		ads := c.ads
		c.mu.Unlock()
		metrics.Get().AdCacheHitsTotal.Inc()
		return ads, nil
	}
	c.mu.Unlock()

	active, err := c.repo.GetActiveAds(ctx)
	if err != nil {
		return nil, err
	}

	now := c.now()
	fresh := make([]models.Advertisement, 0, len(active))
	for i := range active {
		if active[i].IsCampaignActive(now) {
			fresh = append(fresh, active[i])
		}
	}

	c.mu.Lock()
	c.ads = fresh
	c.refreshedAt = now
	c.mu.Unlock()

	metrics.Get().AdCacheRefreshes.Inc()
	logger.Log.Debug("Ad catalog refreshed",
		zap.Int("active_ads", len(active)),
		zap.Int("campaign_active", len(fresh)))

	return fresh, nil
}

// Invalidate forces the next ActiveAds call to rebuild. Call after creating
// or editing an ad.
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	c.ads = nil
	c.refreshedAt = time.Time{}
	c.mu.Unlock()
}
