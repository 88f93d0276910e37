package ads

import (
	"context"
	"math/rand"
	"sync"

	"github.com/pulsefeed/backend/internal/logger"
	"github.com/pulsefeed/backend/internal/metrics"
	"github.com/pulsefeed/backend/internal/models"
	"go.uber.org/zap"
)

// Selection outcomes for metrics
const (
	outcomeTargeted = "targeted"
	outcomeFallback = "fallback"
	outcomeNone     = "none"
)

// Targeter picks one ad for a user given their top interests. Selection is a
// frequency-weighted random choice, not a ranked top-1: an ad matching three
// of the user's interests enters the pool three times, so impressions spread
// across every relevant campaign instead of piling onto the single best
// match.
type Targeter struct {
	catalog *Catalog

	mu  sync.Mutex
	rng *rand.Rand
}

// NewTargeter creates a targeter. rng is injectable so tests can pin the
// selection; pass nil for a time-seeded source.
func NewTargeter(catalog *Catalog, rng *rand.Rand) *Targeter {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Targeter{catalog: catalog, rng: rng}
}

// SelectAd returns one ad for the given interest profile, or nil when no ad
// is available. Selection failures are swallowed: an empty or unreachable
// catalog means "no ad this slot", never a failed feed.
func (t *Targeter) SelectAd(ctx context.Context, interests []models.UserInterest) *models.Advertisement {
	active, err := t.catalog.ActiveAds(ctx)
	if err != nil {
		logger.Warn("Ad catalog unavailable, skipping ad slot", zap.Error(err))
		metrics.Get().AdsSelectedTotal.WithLabelValues(outcomeNone).Inc()
		return nil
	}
	if len(active) == 0 {
		metrics.Get().AdsSelectedTotal.WithLabelValues(outcomeNone).Inc()
		return nil
	}

	if len(interests) > 0 {
		tags := make(map[string]bool, len(interests))
		for _, in := range interests {
			tags[in.Interest] = true
		}

		// Weighted pool: each ad appears once per matching interest tag
		var pool []*models.Advertisement
		for i := range active {
			matches := 0
			for _, target := range active[i].TargetAudience {
				if tags[target] {
					matches++
				}
			}
			for n := 0; n < matches; n++ {
				pool = append(pool, &active[i])
			}
		}

		if len(pool) > 0 {
			selected := pool[t.intn(len(pool))]
			metrics.Get().AdsSelectedTotal.WithLabelValues(outcomeTargeted).Inc()
			return selected
		}
	}

	// No targeting signal or nothing matched: uniform over the catalog
	selected := &active[t.intn(len(active))]
	metrics.Get().AdsSelectedTotal.WithLabelValues(outcomeFallback).Inc()
	return selected
}

// intn serializes access to the rand source, which is not goroutine safe
func (t *Targeter) intn(n int) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rng.Intn(n)
}
