package impressions

import (
	"context"
	"errors"
	"time"

	apierrors "github.com/pulsefeed/backend/internal/errors"
	"github.com/pulsefeed/backend/internal/logger"
	"github.com/pulsefeed/backend/internal/metrics"
	"github.com/pulsefeed/backend/internal/models"
	"github.com/pulsefeed/backend/internal/repository"
	"go.uber.org/zap"
)

// Tracker records ad view events. An impression row is opened when the ad
// enters view and closed later with the measured duration; validity is
// decided at close time against the viewability threshold.
//
// DedupeWindow > 0 suppresses a second impression of the same ad by the same
// viewer inside the window. It defaults to zero (off): the per-minute
// suppression that once existed was disabled in production and the product
// has not re-confirmed it, so it stays available but inert.
type Tracker struct {
	repo         repository.ImpressionRepository
	dedupeWindow time.Duration
	now          func() time.Time
}

// NewTracker creates an impression tracker. dedupeWindow of zero disables
// duplicate suppression.
func NewTracker(repo repository.ImpressionRepository, dedupeWindow time.Duration) *Tracker {
	return &Tracker{
		repo:         repo,
		dedupeWindow: dedupeWindow,
		now:          time.Now,
	}
}

// Open creates a provisional impression row: zero duration, not yet valid.
// userID and sessionKey are both optional but at least one should identify
// the viewer. Returns the impression ID for the later Close call, or ""
// when the view was suppressed by the dedupe window.
func (t *Tracker) Open(ctx context.Context, adID string, userID, sessionKey *string) (string, error) {
	if adID == "" {
		return "", apierrors.ValidationError("ad_id", "ad_id is required")
	}

	impression := &models.AdImpression{
		AdvertisementID: adID,
		UserID:          userID,
		SessionKey:      sessionKey,
		ViewedAt:        t.now(),
	}

	if t.dedupeWindow > 0 {
		if viewer := impression.Viewer(); viewer != "" {
			last, err := t.repo.LastViewedAt(ctx, adID, viewer)
			if err != nil {
				// Dedupe is an optimization; tracking still proceeds
				logger.Warn("Impression dedupe lookup failed", zap.String("ad_id", adID), zap.Error(err))
			} else if last != nil && t.now().Sub(*last) < t.dedupeWindow {
				logger.Log.Debug("Duplicate impression suppressed",
					zap.String("ad_id", adID),
					zap.String("viewer", viewer))
				return "", nil
			}
		}
	}

	if err := t.repo.Create(ctx, impression); err != nil {
		return "", apierrors.TransientStore("impression open", err)
	}

	metrics.Get().ImpressionsTracked.WithLabelValues("open").Inc()
	return impression.ID, nil
}

// Close finalizes an impression with its measured view. Validity is derived
// here: views shorter than the threshold never count.
func (t *Tracker) Close(ctx context.Context, impressionID string, durationSeconds, viewportPct float64) error {
	if impressionID == "" {
		return apierrors.ValidationError("impression_id", "impression_id is required")
	}

	impression, err := t.repo.Get(ctx, impressionID)
	if errors.Is(err, repository.ErrImpressionNotFound) {
		return apierrors.NotFound("impression")
	}
	if err != nil {
		return apierrors.TransientStore("impression close", err)
	}

	closedAt := t.now()
	impression.ViewDuration = durationSeconds
	impression.ViewportPercentage = viewportPct
	impression.IsValid = durationSeconds >= models.MinValidViewSeconds
	impression.ClosedAt = &closedAt

	if err := t.repo.Update(ctx, impression); err != nil {
		return apierrors.TransientStore("impression close", err)
	}

	metrics.Get().ImpressionsTracked.WithLabelValues("close").Inc()
	return nil
}

// Stats aggregates impression analytics, optionally filtered by ad and date
// range.
func (t *Tracker) Stats(ctx context.Context, filter repository.ImpressionFilter) (*repository.ImpressionStats, error) {
	return t.repo.Aggregate(ctx, filter)
}
