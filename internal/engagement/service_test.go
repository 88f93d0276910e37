package engagement

import (
	"context"
	"os"
	"testing"

	apierrors "github.com/pulsefeed/backend/internal/errors"
	"github.com/pulsefeed/backend/internal/interest"
	"github.com/pulsefeed/backend/internal/logger"
	"github.com/pulsefeed/backend/internal/models"
	"github.com/pulsefeed/backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	logger.InitializeForTests()
	os.Exit(m.Run())
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Post{}, &models.PostLike{}, &models.UserInterest{},
	))
	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	db := setupTestDB(t)
	interests := interest.NewService(repository.NewInterestRepository(db), nil)
	return NewService(db, interests), db
}

func createPost(t *testing.T, db *gorm.DB, tags ...string) *models.Post {
	user := models.User{Email: "author@example.com", Username: "author", DisplayName: "Author"}
	require.NoError(t, db.Create(&user).Error)

	post := models.Post{
		AuthorID: user.ID,
		Title:    "Trail review",
		Text:     "Long climb, great views.",
		Tags:     models.StringArray(tags),
	}
	require.NoError(t, db.Create(&post).Error)
	return &post
}

func TestToggleLikeCreatesAndRemoves(t *testing.T) {
	svc, db := newTestService(t)
	post := createPost(t, db, "hiking")
	ctx := context.Background()

	// Unliked -> Liked
	result, err := svc.ToggleLike(ctx, "user-1", post.ID)
	require.NoError(t, err)
	assert.Equal(t, ActionLiked, result.Action)
	assert.Equal(t, 1, result.NewCount)
	assert.True(t, result.UserHasLiked)

	var likeCount int64
	db.Model(&models.PostLike{}).Where("user_id = ? AND post_id = ?", "user-1", post.ID).Count(&likeCount)
	assert.EqualValues(t, 1, likeCount)

	// Liked -> Unliked
	result, err = svc.ToggleLike(ctx, "user-1", post.ID)
	require.NoError(t, err)
	assert.Equal(t, ActionUnliked, result.Action)
	assert.Equal(t, 0, result.NewCount)
	assert.False(t, result.UserHasLiked)

	db.Model(&models.PostLike{}).Where("user_id = ? AND post_id = ?", "user-1", post.ID).Count(&likeCount)
	assert.EqualValues(t, 0, likeCount)
}

func TestToggleLikePairingInvariant(t *testing.T) {
	svc, db := newTestService(t)
	post := createPost(t, db, "coffee")
	ctx := context.Background()

	// After any sequence of toggles, like-row existence must track the last
	// action and the counter must equal net likes
	for i := 0; i < 7; i++ {
		result, err := svc.ToggleLike(ctx, "user-1", post.ID)
		require.NoError(t, err)

		var rowExists int64
		db.Model(&models.PostLike{}).Where("user_id = ? AND post_id = ?", "user-1", post.ID).Count(&rowExists)

		var fresh models.Post
		require.NoError(t, db.First(&fresh, "id = ?", post.ID).Error)

		if i%2 == 0 {
			assert.Equal(t, ActionLiked, result.Action)
			assert.EqualValues(t, 1, rowExists)
			assert.Equal(t, 1, fresh.Likes)
		} else {
			assert.Equal(t, ActionUnliked, result.Action)
			assert.EqualValues(t, 0, rowExists)
			assert.Equal(t, 0, fresh.Likes)
		}
	}
}

func TestToggleLikeCounterFloorsAtZero(t *testing.T) {
	svc, db := newTestService(t)
	post := createPost(t, db, "music")

	// Simulate drift: a like row exists but the counter was never bumped
	like := models.PostLike{UserID: "user-1", PostID: post.ID}
	require.NoError(t, db.Create(&like).Error)

	result, err := svc.ToggleLike(context.Background(), "user-1", post.ID)
	require.NoError(t, err)
	assert.Equal(t, ActionUnliked, result.Action)
	assert.Equal(t, 0, result.NewCount, "counter must floor at zero, not go negative")
}

func TestToggleLikeMissingPost(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ToggleLike(context.Background(), "user-1", "00000000-0000-0000-0000-000000000000")
	require.Error(t, err)
	assert.True(t, apierrors.IsNotFound(err))
}

func TestToggleLikeValidation(t *testing.T) {
	svc, db := newTestService(t)
	post := createPost(t, db, "art")

	_, err := svc.ToggleLike(context.Background(), "", post.ID)
	require.Error(t, err)

	_, err = svc.ToggleLike(context.Background(), "user-1", "")
	require.Error(t, err)
}

func TestToggleLikeFeedsInterestScores(t *testing.T) {
	svc, db := newTestService(t)
	post := createPost(t, db, "hiking", "photography")
	ctx := context.Background()

	_, err := svc.ToggleLike(ctx, "user-1", post.ID)
	require.NoError(t, err)

	var interests []models.UserInterest
	require.NoError(t, db.Where("user_id = ?", "user-1").Find(&interests).Error)
	require.Len(t, interests, 2, "every tag on the post gets an interest row")
	for _, in := range interests {
		assert.Equal(t, 1.0, in.Score)
	}

	// The unlike pulls the scores back down
	_, err = svc.ToggleLike(ctx, "user-1", post.ID)
	require.NoError(t, err)

	require.NoError(t, db.Where("user_id = ?", "user-1").Find(&interests).Error)
	for _, in := range interests {
		assert.Equal(t, 0.0, in.Score)
	}
}

func TestRecordInteraction(t *testing.T) {
	svc, db := newTestService(t)
	post := createPost(t, db, "gaming")
	ctx := context.Background()

	require.NoError(t, svc.RecordInteraction(ctx, "user-2", post.ID, interest.ActionComment))

	var row models.UserInterest
	require.NoError(t, db.Where("user_id = ? AND interest = ?", "user-2", "gaming").First(&row).Error)
	assert.Equal(t, 2.0, row.Score)

	err := svc.RecordInteraction(ctx, "user-2", "missing-post", interest.ActionComment)
	assert.True(t, apierrors.IsNotFound(err))
}

func TestGetUserStats(t *testing.T) {
	svc, db := newTestService(t)

	author := models.User{Email: "stats@example.com", Username: "stats", DisplayName: "Stats"}
	require.NoError(t, db.Create(&author).Error)

	posts := []models.Post{
		{AuthorID: author.ID, Title: "a", Likes: 10, Comments: 4, Shares: 2},
		{AuthorID: author.ID, Title: "b", Likes: 2, Comments: 0, Shares: 0},
	}
	for i := range posts {
		require.NoError(t, db.Create(&posts[i]).Error)
	}

	stats, err := svc.GetUserStats(context.Background(), author.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalPosts)
	assert.EqualValues(t, 12, stats.TotalLikes)
	assert.EqualValues(t, 4, stats.TotalComments)
	assert.EqualValues(t, 2, stats.TotalShares)
	assert.EqualValues(t, 18, stats.TotalEngagement)
	assert.Equal(t, 6.0, stats.AvgLikes)
	assert.Equal(t, 9.0, stats.EngagementRate)
}

func TestGetUserStatsNoPosts(t *testing.T) {
	svc, _ := newTestService(t)

	stats, err := svc.GetUserStats(context.Background(), "nobody")
	require.NoError(t, err)
	assert.EqualValues(t, 0, stats.TotalPosts)
	assert.Equal(t, 0.0, stats.EngagementRate)
}
