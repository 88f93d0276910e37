package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Advertisement is a sponsored feed item. IDs are stable strings controlled
// by the ad-ops seeding process rather than generated UUIDs, so campaigns
// keep their identity across re-seeds.
type Advertisement struct {
	ID   string `gorm:"primaryKey;size:64" json:"id"`
	Type string `gorm:"default:advertisement" json:"type"`

	// Creative
	Brand    string `gorm:"not null" json:"brand"`
	Title    string `gorm:"not null;size:200" json:"title"`
	Text     string `gorm:"type:text" json:"text"`
	Image    string `gorm:"size:500" json:"image,omitempty"`
	CTAText  string `json:"cta_text"`
	CTALink  string `gorm:"size:500" json:"cta_link"`
	Category string `gorm:"index" json:"category"`
	Promoted bool   `json:"promoted"`

	// Targeting: interest tags this campaign wants to reach
	TargetAudience StringArray `gorm:"type:text[]" json:"target_audience"`

	// Delivery counters. Monotonically non-decreasing; mutated only via
	// atomic SQL increments through the ad repository.
	Impressions int             `gorm:"default:0" json:"impressions"`
	Clicks      int             `gorm:"default:0" json:"clicks"`
	BudgetSpent decimal.Decimal `gorm:"type:numeric(12,2);default:0" json:"budget_spent"`

	// Campaign window. A nil bound means unbounded on that side. No column
	// default on the operator flag: gorm drops zero values from the INSERT
	// when a default is declared, which would turn a disabled campaign into
	// a live one.
	IsActive  bool       `gorm:"index" json:"is_active"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`

	// GORM fields
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name
func (Advertisement) TableName() string {
	return "advertisements"
}

// IsCampaignActive reports whether the ad is operator-enabled and inside its
// optional date window at the given instant.
func (a *Advertisement) IsCampaignActive(now time.Time) bool {
	if !a.IsActive {
		return false
	}
	if a.StartDate != nil && now.Before(*a.StartDate) {
		return false
	}
	if a.EndDate != nil && now.After(*a.EndDate) {
		return false
	}
	return true
}

// ClickThroughRate returns clicks/impressions as a percentage
func (a *Advertisement) ClickThroughRate() float64 {
	if a.Impressions == 0 {
		return 0
	}
	return float64(a.Clicks) / float64(a.Impressions) * 100
}

// CostPerClick returns budget spent divided by clicks
func (a *Advertisement) CostPerClick() decimal.Decimal {
	if a.Clicks == 0 {
		return decimal.Zero
	}
	return a.BudgetSpent.Div(decimal.NewFromInt(int64(a.Clicks)))
}
