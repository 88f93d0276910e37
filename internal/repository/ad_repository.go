package repository

import (
	"context"
	"errors"

	"github.com/pulsefeed/backend/internal/models"
	"gorm.io/gorm"
)

// AdCounterField names a counter column on advertisements that may be
// incremented atomically.
type AdCounterField string

const (
	AdImpressions AdCounterField = "impressions"
	AdClicks      AdCounterField = "clicks"
)

// AdRepository handles all database operations for advertisements
type AdRepository interface {
	CreateAd(ctx context.Context, ad *models.Advertisement) error
	GetAd(ctx context.Context, adID string) (*models.Advertisement, error)

	// GetActiveAds returns ads with the operator flag on; campaign-window
	// filtering happens in the catalog cache
	GetActiveAds(ctx context.Context) ([]models.Advertisement, error)

	// IncrementCounter applies an atomic column += delta, never
	// read-modify-write, so concurrent views cannot lose increments
	IncrementCounter(ctx context.Context, adID string, field AdCounterField, delta int) error
}

type adRepository struct {
	db *gorm.DB
}

// NewAdRepository creates a new advertisement repository
func NewAdRepository(db *gorm.DB) AdRepository {
	return &adRepository{db: db}
}

func (r *adRepository) CreateAd(ctx context.Context, ad *models.Advertisement) error {
	if ad == nil || ad.ID == "" {
		return ErrInvalidInput
	}
	return r.db.WithContext(ctx).Create(ad).Error
}

func (r *adRepository) GetAd(ctx context.Context, adID string) (*models.Advertisement, error) {
	var ad models.Advertisement
	err := r.db.WithContext(ctx).Where("id = ?", adID).First(&ad).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAdNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ad, nil
}

func (r *adRepository) GetActiveAds(ctx context.Context) ([]models.Advertisement, error) {
	var ads []models.Advertisement
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Find(&ads).Error
	return ads, err
}

func (r *adRepository) IncrementCounter(ctx context.Context, adID string, field AdCounterField, delta int) error {
	if field != AdImpressions && field != AdClicks {
		return ErrInvalidInput
	}
	res := r.db.WithContext(ctx).
		Model(&models.Advertisement{}).
		Where("id = ?", adID).
		UpdateColumn(string(field), gorm.Expr(string(field)+" + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAdNotFound
	}
	return nil
}
