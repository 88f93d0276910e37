package ads

import (
	"context"
	"errors"

	apierrors "github.com/pulsefeed/backend/internal/errors"
	"github.com/pulsefeed/backend/internal/models"
	"github.com/pulsefeed/backend/internal/repository"
	"github.com/shopspring/decimal"
)

// Performance is the derived delivery report for one advertisement
type Performance struct {
	ID               string          `json:"id"`
	Brand            string          `json:"brand"`
	Title            string          `json:"title"`
	Impressions      int             `json:"impressions"`
	Clicks           int             `json:"clicks"`
	BudgetSpent      decimal.Decimal `json:"budget_spent"`
	ClickThroughRate float64         `json:"ctr"`
	CostPerClick     decimal.Decimal `json:"cpc"`
}

// Reporter answers ad-ops performance queries
type Reporter struct {
	repo repository.AdRepository
}

// NewReporter creates a performance reporter
func NewReporter(repo repository.AdRepository) *Reporter {
	return &Reporter{repo: repo}
}

// GetPerformance returns the delivery report for a single ad
func (r *Reporter) GetPerformance(ctx context.Context, adID string) (*Performance, error) {
	ad, err := r.repo.GetAd(ctx, adID)
	if errors.Is(err, repository.ErrAdNotFound) {
		return nil, apierrors.NotFound("advertisement")
	}
	if err != nil {
		return nil, err
	}
	return performanceFrom(ad), nil
}

// ListActivePerformance returns delivery reports for every operator-enabled ad
func (r *Reporter) ListActivePerformance(ctx context.Context) ([]Performance, error) {
	active, err := r.repo.GetActiveAds(ctx)
	if err != nil {
		return nil, err
	}

	reports := make([]Performance, 0, len(active))
	for i := range active {
		reports = append(reports, *performanceFrom(&active[i]))
	}
	return reports, nil
}

func performanceFrom(ad *models.Advertisement) *Performance {
	return &Performance{
		ID:               ad.ID,
		Brand:            ad.Brand,
		Title:            ad.Title,
		Impressions:      ad.Impressions,
		Clicks:           ad.Clicks,
		BudgetSpent:      ad.BudgetSpent,
		ClickThroughRate: ad.ClickThroughRate(),
		CostPerClick:     ad.CostPerClick(),
	}
}
