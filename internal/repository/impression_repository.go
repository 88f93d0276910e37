package repository

import (
	"context"
	"errors"
	"time"

	"github.com/pulsefeed/backend/internal/models"
	"gorm.io/gorm"
)

// ImpressionStats is an aggregate over ad impression rows
type ImpressionStats struct {
	Impressions      int64   `json:"impressions"`
	ValidImpressions int64   `json:"valid_impressions"`
	AvgDuration      float64 `json:"avg_duration"`
	UniqueUsers      int64   `json:"unique_users"`
}

// ImpressionFilter narrows analytics queries. Zero values mean "no filter".
type ImpressionFilter struct {
	AdvertisementID string
	Since           time.Time
	Until           time.Time
}

// ImpressionRepository handles all database operations for ad impressions
type ImpressionRepository interface {
	Create(ctx context.Context, impression *models.AdImpression) error
	Get(ctx context.Context, impressionID string) (*models.AdImpression, error)
	Update(ctx context.Context, impression *models.AdImpression) error

	// LastViewedAt returns the open time of the viewer's most recent
	// impression of the ad; used by the optional dedupe window
	LastViewedAt(ctx context.Context, adID, viewer string) (*time.Time, error)

	Aggregate(ctx context.Context, filter ImpressionFilter) (*ImpressionStats, error)
}

type impressionRepository struct {
	db *gorm.DB
}

// NewImpressionRepository creates a new impression repository
func NewImpressionRepository(db *gorm.DB) ImpressionRepository {
	return &impressionRepository{db: db}
}

func (r *impressionRepository) Create(ctx context.Context, impression *models.AdImpression) error {
	if impression == nil || impression.AdvertisementID == "" {
		return ErrInvalidInput
	}
	return r.db.WithContext(ctx).Create(impression).Error
}

func (r *impressionRepository) Get(ctx context.Context, impressionID string) (*models.AdImpression, error) {
	var impression models.AdImpression
	err := r.db.WithContext(ctx).Where("id = ?", impressionID).First(&impression).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrImpressionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &impression, nil
}

func (r *impressionRepository) Update(ctx context.Context, impression *models.AdImpression) error {
	if impression == nil || impression.ID == "" {
		return ErrInvalidInput
	}
	return r.db.WithContext(ctx).Save(impression).Error
}

func (r *impressionRepository) LastViewedAt(ctx context.Context, adID, viewer string) (*time.Time, error) {
	if viewer == "" {
		return nil, nil
	}
	var impression models.AdImpression
	err := r.db.WithContext(ctx).
		Where("advertisement_id = ? AND (user_id = ? OR session_key = ?)", adID, viewer, viewer).
		Order("viewed_at DESC").
		First(&impression).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t := impression.ViewedAt
	return &t, nil
}

func (r *impressionRepository) Aggregate(ctx context.Context, filter ImpressionFilter) (*ImpressionStats, error) {
	base := r.db.WithContext(ctx).Model(&models.AdImpression{})
	if filter.AdvertisementID != "" {
		base = base.Where("advertisement_id = ?", filter.AdvertisementID)
	}
	if !filter.Since.IsZero() {
		base = base.Where("viewed_at >= ?", filter.Since)
	}
	if !filter.Until.IsZero() {
		base = base.Where("viewed_at <= ?", filter.Until)
	}

	stats := &ImpressionStats{}

	if err := base.Session(&gorm.Session{}).Count(&stats.Impressions).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Where("is_valid = ?", true).Count(&stats.ValidImpressions).Error; err != nil {
		return nil, err
	}

	var avg *float64
	if err := base.Session(&gorm.Session{}).Select("AVG(view_duration)").Scan(&avg).Error; err != nil {
		return nil, err
	}
	if avg != nil {
		stats.AvgDuration = *avg
	}

	if err := base.Session(&gorm.Session{}).
		Where("user_id IS NOT NULL").
		Distinct("user_id").
		Count(&stats.UniqueUsers).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
