package repository

import (
	"context"
	"errors"

	"github.com/pulsefeed/backend/internal/models"
	"gorm.io/gorm"
)

// InterestRepository handles all database operations for user interest scores
type InterestRepository interface {
	// GetOrCreate returns the (user, interest) row, creating it with a zero
	// score when none exists yet
	GetOrCreate(ctx context.Context, userID, interest string) (*models.UserInterest, error)
	Save(ctx context.Context, interest *models.UserInterest) error

	// GetScores returns the user's interests at or above minScore, highest
	// score first, at most limit rows
	GetScores(ctx context.Context, userID string, minScore float64, limit int) ([]models.UserInterest, error)
}

type interestRepository struct {
	db *gorm.DB
}

// NewInterestRepository creates a new interest repository
func NewInterestRepository(db *gorm.DB) InterestRepository {
	return &interestRepository{db: db}
}

func (r *interestRepository) GetOrCreate(ctx context.Context, userID, interest string) (*models.UserInterest, error) {
	if userID == "" || interest == "" {
		return nil, ErrInvalidInput
	}

	var row models.UserInterest
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND interest = ?", userID, interest).
		First(&row).Error
	if err == nil {
		return &row, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	row = models.UserInterest{
		UserID:   userID,
		Interest: interest,
		Score:    0,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *interestRepository) Save(ctx context.Context, interest *models.UserInterest) error {
	if interest == nil {
		return ErrInvalidInput
	}
	return r.db.WithContext(ctx).Save(interest).Error
}

func (r *interestRepository) GetScores(ctx context.Context, userID string, minScore float64, limit int) ([]models.UserInterest, error) {
	var interests []models.UserInterest
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND score >= ?", userID, minScore).
		Order("score DESC").
		Limit(limit).
		Find(&interests).Error
	return interests, err
}
