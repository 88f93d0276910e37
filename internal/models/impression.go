package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MinValidViewSeconds is the viewability threshold: an impression shorter
// than this never counts as valid.
const MinValidViewSeconds = 1.0

// AdImpression is one view event of an advertisement by a user or anonymous
// session. Rows are opened when the ad enters the viewport and closed later
// with the final duration; validity is derived from duration at close time.
type AdImpression struct {
	ID              string  `gorm:"primaryKey;type:uuid" json:"id"`
	AdvertisementID string  `gorm:"not null;index:idx_ad_viewed" json:"advertisement_id"`
	UserID          *string `gorm:"index" json:"user_id,omitempty"`
	SessionKey      *string `gorm:"index" json:"session_key,omitempty"`

	// View measurements, filled in on close
	ViewDuration       float64 `gorm:"default:0" json:"view_duration"`
	ViewportPercentage float64 `gorm:"default:0" json:"viewport_percentage"`
	IsValid            bool    `gorm:"default:false;index" json:"is_valid"`

	ViewedAt time.Time  `gorm:"index:idx_ad_viewed" json:"viewed_at"`
	ClosedAt *time.Time `json:"closed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (AdImpression) TableName() string {
	return "ad_impressions"
}

// BeforeCreate assigns the UUID primary key
func (i *AdImpression) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// Viewer returns the best available identity for the impression: the user ID
// when known, otherwise the session key.
func (i *AdImpression) Viewer() string {
	if i.UserID != nil && *i.UserID != "" {
		return *i.UserID
	}
	if i.SessionKey != nil {
		return *i.SessionKey
	}
	return ""
}
