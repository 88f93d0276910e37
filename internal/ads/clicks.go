package ads

import (
	"context"
	"errors"

	apierrors "github.com/pulsefeed/backend/internal/errors"
	"github.com/pulsefeed/backend/internal/logger"
	"github.com/pulsefeed/backend/internal/repository"
	"go.uber.org/zap"
)

// ClickTracker records ad clicks against the delivery counters
type ClickTracker struct {
	repo repository.AdRepository
}

// NewClickTracker creates a click tracker
func NewClickTracker(repo repository.AdRepository) *ClickTracker {
	return &ClickTracker{repo: repo}
}

// TrackClick atomically increments the ad's click counter. An unknown ad ID
// surfaces as NotFound; unlike impression counting this is a user-initiated
// action, so the caller gets the error.
func (t *ClickTracker) TrackClick(ctx context.Context, adID string) error {
	if adID == "" {
		return apierrors.ValidationError("ad_id", "ad_id is required")
	}

	err := t.repo.IncrementCounter(ctx, adID, repository.AdClicks, 1)
	if errors.Is(err, repository.ErrAdNotFound) {
		logger.Warn("Click tracked for unknown ad", zap.String("ad_id", adID))
		return apierrors.NotFound("advertisement")
	}
	if err != nil {
		return apierrors.TransientStore("click tracking", err)
	}

	logger.Log.Debug("Tracked ad click", zap.String("ad_id", adID))
	return nil
}
