package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserInterest is the affinity score between a user and a single interest
// tag. Scores live in [0, 10]; rows are created on first interaction and
// never deleted. Scores do not decay over time.
type UserInterest struct {
	ID       string  `gorm:"primaryKey;type:uuid" json:"id"`
	UserID   string  `gorm:"not null;uniqueIndex:idx_user_interest" json:"user_id"`
	Interest string  `gorm:"not null;uniqueIndex:idx_user_interest;size:100" json:"interest"`
	Score    float64 `gorm:"not null;default:0" json:"score"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (UserInterest) TableName() string {
	return "user_interests"
}

// BeforeCreate assigns the UUID primary key
func (i *UserInterest) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
