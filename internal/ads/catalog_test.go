package ads

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/pulsefeed/backend/internal/logger"
	"github.com/pulsefeed/backend/internal/models"
	"github.com/pulsefeed/backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.InitializeForTests()
	os.Exit(m.Run())
}

// fakeAdRepo is an in-memory AdRepository that counts store queries
type fakeAdRepo struct {
	ads        []models.Advertisement
	queries    int
	increments map[string]int
	err        error
}

func newFakeAdRepo(ads ...models.Advertisement) *fakeAdRepo {
	return &fakeAdRepo{ads: ads, increments: map[string]int{}}
}

func (f *fakeAdRepo) CreateAd(ctx context.Context, ad *models.Advertisement) error {
	f.ads = append(f.ads, *ad)
	return nil
}

func (f *fakeAdRepo) GetAd(ctx context.Context, adID string) (*models.Advertisement, error) {
	for i := range f.ads {
		if f.ads[i].ID == adID {
			return &f.ads[i], nil
		}
	}
	return nil, repository.ErrAdNotFound
}

func (f *fakeAdRepo) GetActiveAds(ctx context.Context) ([]models.Advertisement, error) {
	f.queries++
	if f.err != nil {
		return nil, f.err
	}
	var active []models.Advertisement
	for _, ad := range f.ads {
		if ad.IsActive {
			active = append(active, ad)
		}
	}
	return active, nil
}

func (f *fakeAdRepo) IncrementCounter(ctx context.Context, adID string, field repository.AdCounterField, delta int) error {
	if f.err != nil {
		return f.err
	}
	if _, err := f.GetAd(ctx, adID); err != nil {
		return err
	}
	f.increments[adID+":"+string(field)] += delta
	return nil
}

func activeAd(id string, targets ...string) models.Advertisement {
	return models.Advertisement{
		ID:             id,
		Brand:          "Brand " + id,
		IsActive:       true,
		TargetAudience: models.StringArray(targets),
	}
}

func TestActiveAdsCachesWithinTTL(t *testing.T) {
	repo := newFakeAdRepo(activeAd("ad-1"), activeAd("ad-2"))
	catalog := NewCatalog(repo, 300*time.Second)

	now := time.Now()
	catalog.now = func() time.Time { return now }

	first, err := catalog.ActiveAds(context.Background())
	require.NoError(t, err)
	assert.Len(t, first, 2)
	assert.Equal(t, 1, repo.queries)

	// Second call inside the TTL serves the cached list, no store query
	now = now.Add(100 * time.Second)
	second, err := catalog.ActiveAds(context.Background())
	require.NoError(t, err)
	assert.Len(t, second, 2)
	assert.Equal(t, 1, repo.queries, "cache hit must not re-query the store")
}

func TestActiveAdsRebuildsAfterTTL(t *testing.T) {
	repo := newFakeAdRepo(activeAd("ad-1"))
	catalog := NewCatalog(repo, 300*time.Second)

	now := time.Now()
	catalog.now = func() time.Time { return now }

	_, err := catalog.ActiveAds(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, repo.queries)

	// A newly activated ad becomes visible after expiry
	repo.ads = append(repo.ads, activeAd("ad-2"))
	now = now.Add(301 * time.Second)

	ads, err := catalog.ActiveAds(context.Background())
	require.NoError(t, err)
	assert.Len(t, ads, 2)
	assert.Equal(t, 2, repo.queries, "exactly one rebuild after expiry")
}

func TestInvalidateForcesRefresh(t *testing.T) {
	repo := newFakeAdRepo(activeAd("ad-1"))
	catalog := NewCatalog(repo, 300*time.Second)

	_, err := catalog.ActiveAds(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, repo.queries)

	catalog.Invalidate()

	_, err = catalog.ActiveAds(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.queries)
}

func TestActiveAdsFiltersCampaignWindow(t *testing.T) {
	past := time.Now().Add(-48 * time.Hour)
	yesterday := time.Now().Add(-24 * time.Hour)
	tomorrow := time.Now().Add(24 * time.Hour)

	expired := activeAd("expired")
	expired.StartDate = &past
	expired.EndDate = &yesterday

	running := activeAd("running")
	running.StartDate = &past
	running.EndDate = &tomorrow

	notStarted := activeAd("future")
	notStarted.StartDate = &tomorrow

	disabled := activeAd("disabled")
	disabled.IsActive = false

	windowless := activeAd("windowless")

	repo := newFakeAdRepo(expired, running, notStarted, disabled, windowless)
	catalog := NewCatalog(repo, 300*time.Second)

	ads, err := catalog.ActiveAds(context.Background())
	require.NoError(t, err)

	ids := make([]string, 0, len(ads))
	for _, ad := range ads {
		ids = append(ids, ad.ID)
	}
	assert.ElementsMatch(t, []string{"running", "windowless"}, ids)
}

func TestActiveAdsPropagatesStoreError(t *testing.T) {
	repo := newFakeAdRepo(activeAd("ad-1"))
	repo.err = errors.New("connection refused")
	catalog := NewCatalog(repo, 300*time.Second)

	_, err := catalog.ActiveAds(context.Background())
	assert.Error(t, err)
}
