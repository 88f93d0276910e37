package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/pulsefeed/backend/internal/interest"
	"github.com/pulsefeed/backend/internal/logger"
	"github.com/pulsefeed/backend/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// interestTags is the tag vocabulary shared by posts, ads and interests so
// seeded targeting actually connects.
var interestTags = []string{
	"hiking", "coffee", "technology", "music", "travel", "food",
	"fitness", "photography", "gaming", "art", "fashion", "books",
}

// Seeder populates the database with development data
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	_ = gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{db: db}
}

// SeedDev seeds the development database with realistic data
func (s *Seeder) SeedDev() error {
	logger.Log.Info("Creating users...")
	users, err := s.seedUsers(50)
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	logger.Log.Info("Creating posts...")
	posts, err := s.seedPosts(users, 400)
	if err != nil {
		return fmt.Errorf("failed to seed posts: %w", err)
	}

	logger.Log.Info("Creating advertisements...")
	if err := s.seedAdvertisements(30); err != nil {
		return fmt.Errorf("failed to seed advertisements: %w", err)
	}

	logger.Log.Info("Simulating interactions...")
	if err := s.seedInterests(users, posts); err != nil {
		return fmt.Errorf("failed to seed interests: %w", err)
	}

	logger.Log.Info("Creating sample impressions...")
	if err := s.seedImpressions(users, 200); err != nil {
		return fmt.Errorf("failed to seed impressions: %w", err)
	}

	logger.Log.Info("Seeding complete")
	return nil
}

// Clean removes all seeded data. Use with caution.
func (s *Seeder) Clean() error {
	tables := []string{
		"ad_impressions", "user_interests", "post_likes",
		"advertisements", "feed_posts", "users",
	}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clean %s: %w", table, err)
		}
	}
	return nil
}

func (s *Seeder) seedUsers(count int) ([]models.User, error) {
	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		user := models.User{
			Email:       gofakeit.Email(),
			Username:    fmt.Sprintf("%s%d", gofakeit.Username(), i),
			DisplayName: gofakeit.Name(),
			Bio:         gofakeit.Sentence(10),
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *Seeder) seedPosts(users []models.User, count int) ([]models.Post, error) {
	posts := make([]models.Post, 0, count)
	for i := 0; i < count; i++ {
		author := users[rand.Intn(len(users))]

		// 1-3 tags per post drawn from the shared vocabulary
		tagCount := 1 + rand.Intn(3)
		tags := make(models.StringArray, 0, tagCount)
		for _, idx := range rand.Perm(len(interestTags))[:tagCount] {
			tags = append(tags, interestTags[idx])
		}

		post := models.Post{
			AuthorID:  author.ID,
			Title:     gofakeit.Sentence(5),
			Text:      gofakeit.Paragraph(1, 3, 12, " "),
			Image:     gofakeit.URL(),
			Location:  gofakeit.City(),
			Tags:      tags,
			CreatedAt: gofakeit.DateRange(time.Now().AddDate(0, -3, 0), time.Now()),
		}
		if err := s.db.Create(&post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (s *Seeder) seedAdvertisements(count int) error {
	now := time.Now()
	for i := 0; i < count; i++ {
		// Target 1-3 interest tags
		targetCount := 1 + rand.Intn(3)
		audience := make(models.StringArray, 0, targetCount)
		for _, idx := range rand.Perm(len(interestTags))[:targetCount] {
			audience = append(audience, interestTags[idx])
		}

		ad := models.Advertisement{
			ID:             fmt.Sprintf("ad-%03d", i+1),
			Brand:          gofakeit.Company(),
			Title:          gofakeit.Sentence(4),
			Text:           gofakeit.Sentence(12),
			Image:          gofakeit.URL(),
			CTAText:        "Learn More",
			CTALink:        gofakeit.URL(),
			Category:       audience[0],
			Promoted:       true,
			TargetAudience: audience,
			BudgetSpent:    decimal.NewFromFloat(gofakeit.Float64Range(0, 5000)).Round(2),
			IsActive:       rand.Float64() < 0.85,
		}

		// Roughly half the campaigns get an explicit window
		if rand.Float64() < 0.5 {
			start := now.AddDate(0, 0, -rand.Intn(30))
			end := now.AddDate(0, 0, 7+rand.Intn(60))
			ad.StartDate = &start
			ad.EndDate = &end
		}

		if err := s.db.Create(&ad).Error; err != nil {
			return err
		}
	}
	return nil
}

// seedInterests walks simulated view/like/comment/share/save behavior over a
// sample of posts per user, building interest scores through the same
// update policy production uses.
func (s *Seeder) seedInterests(users []models.User, posts []models.Post) error {
	actions := []struct {
		name string
		prob float64
	}{
		{interest.ActionView30s, 0.8},
		{interest.ActionLike, 0.3},
		{interest.ActionComment, 0.1},
		{interest.ActionShare, 0.05},
		{interest.ActionSave, 0.15},
	}

	for _, user := range users {
		sample := rand.Perm(len(posts))[:min(len(posts), 5+rand.Intn(11))]

		scores := map[string]float64{}
		for _, idx := range sample {
			for _, tag := range posts[idx].Tags {
				for _, a := range actions {
					if rand.Float64() < a.prob {
						scores[tag] += interest.ActionWeight(a.name)
					}
				}
			}
		}

		for tag, score := range scores {
			if score <= 0 {
				continue
			}
			if score > interest.MaxScore {
				score = interest.MaxScore
			}
			row := models.UserInterest{
				UserID:   user.ID,
				Interest: tag,
				Score:    score,
			}
			if err := s.db.Create(&row).Error; err != nil {
				return err
			}
		}
		logger.Log.Debug("Seeded interests",
			zap.String("user", user.Username),
			zap.Int("tags", len(scores)))
	}
	return nil
}

func (s *Seeder) seedImpressions(users []models.User, count int) error {
	var ads []models.Advertisement
	if err := s.db.Find(&ads).Error; err != nil {
		return err
	}
	if len(ads) == 0 {
		return nil
	}

	for i := 0; i < count; i++ {
		ad := ads[rand.Intn(len(ads))]
		viewedAt := gofakeit.DateRange(time.Now().AddDate(0, -1, 0), time.Now())
		duration := gofakeit.Float64Range(0.2, 12)
		closedAt := viewedAt.Add(time.Duration(duration * float64(time.Second)))

		impression := models.AdImpression{
			AdvertisementID:    ad.ID,
			ViewedAt:           viewedAt,
			ViewDuration:       duration,
			ViewportPercentage: gofakeit.Float64Range(30, 100),
			IsValid:            duration >= models.MinValidViewSeconds,
			ClosedAt:           &closedAt,
		}

		// Mix of logged-in and anonymous viewers
		if rand.Float64() < 0.7 {
			userID := users[rand.Intn(len(users))].ID
			impression.UserID = &userID
		} else {
			sessionKey := uuid.NewString()
			impression.SessionKey = &sessionKey
		}

		if err := s.db.Create(&impression).Error; err != nil {
			return err
		}
	}
	return nil
}
