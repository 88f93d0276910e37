package feed

import (
	"context"
	"strconv"
	"time"

	"github.com/pulsefeed/backend/internal/ads"
	"github.com/pulsefeed/backend/internal/interest"
	"github.com/pulsefeed/backend/internal/logger"
	"github.com/pulsefeed/backend/internal/metrics"
	"github.com/pulsefeed/backend/internal/models"
	"github.com/pulsefeed/backend/internal/repository"
	"go.uber.org/zap"
)

// Mixer interleaves ads into an ordered page of posts. Posts keep their
// relative order; ads are inserted after every Nth post and never replace a
// post. Given the same posts and the same rand seed the output is
// deterministic.
type Mixer struct {
	targeter  *ads.Targeter
	interests *interest.Service
	adRepo    repository.AdRepository
}

// NewMixer creates a feed mixer
func NewMixer(targeter *ads.Targeter, interests *interest.Service, adRepo repository.AdRepository) *Mixer {
	return &Mixer{
		targeter:  targeter,
		interests: interests,
		adRepo:    adRepo,
	}
}

// Mix appends each post to the output and, after the post at 1-based
// position i where i mod cadence == 0, tries to fill an ad slot. An empty
// slot is skipped silently; a filled one fires an impression count.
func (m *Mixer) Mix(ctx context.Context, posts []models.Post, userID string, cadence int) []Item {
	start := time.Now()
	if cadence <= 0 {
		cadence = 1
	}

	// One interest lookup for the whole page. Targeting is best effort: if
	// the profile can't be loaded the ad slots just fall back to uniform.
	var interests []models.UserInterest
	if userID != "" {
		var err error
		interests, err = m.interests.TopInterests(ctx, userID)
		if err != nil {
			logger.Warn("Interest lookup failed, ads will not be targeted",
				zap.String("user_id", userID),
				zap.Error(err))
			interests = nil
		}
	}

	items := make([]Item, 0, len(posts)+len(posts)/cadence)
	adsInserted := 0

	for i := range posts {
		items = append(items, PostItem(&posts[i]))

		if (i+1)%cadence != 0 {
			continue
		}

		ad := m.targeter.SelectAd(ctx, interests)
		if ad == nil {
			continue
		}

		items = append(items, AdItem(ad))
		adsInserted++
		m.countImpression(ctx, ad.ID)
	}

	met := metrics.Get()
	met.FeedBuildDuration.WithLabelValues("cadence_" + strconv.Itoa(cadence)).Observe(time.Since(start).Seconds())
	met.FeedItemsEmitted.WithLabelValues(string(KindPost)).Add(float64(len(posts)))
	met.FeedItemsEmitted.WithLabelValues(string(KindAd)).Add(float64(adsInserted))

	logger.Log.Debug("Feed mixed",
		zap.Int("posts", len(posts)),
		zap.Int("ads_inserted", adsInserted),
		zap.Int("cadence", cadence))

	return items
}

// countImpression bumps the ad's impression counter. Fire-and-forget: a
// failed increment is analytics loss, not a failed feed.
func (m *Mixer) countImpression(ctx context.Context, adID string) {
	if err := m.adRepo.IncrementCounter(ctx, adID, repository.AdImpressions, 1); err != nil {
		metrics.Get().CounterIncrementErrs.WithLabelValues("impressions").Inc()
		logger.Warn("Impression count failed",
			zap.String("ad_id", adID),
			zap.Error(err))
	}
}
