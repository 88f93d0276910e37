package feed

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/pulsefeed/backend/internal/interest"
	"github.com/pulsefeed/backend/internal/models"
	"github.com/pulsefeed/backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePostRepo serves a fixed newest-first post list and records paging args
type fakePostRepo struct {
	posts      []models.Post
	err        error
	lastLimit  int
	lastOffset int
}

func (f *fakePostRepo) CreatePost(ctx context.Context, post *models.Post) error {
	f.posts = append(f.posts, *post)
	return nil
}

func (f *fakePostRepo) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	for i := range f.posts {
		if f.posts[i].ID == postID {
			return &f.posts[i], nil
		}
	}
	return nil, repository.ErrPostNotFound
}

func (f *fakePostRepo) GetPosts(ctx context.Context, limit, offset int) ([]models.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastLimit, f.lastOffset = limit, offset
	return page(f.posts, limit, offset), nil
}

func (f *fakePostRepo) GetPostsByAuthor(ctx context.Context, authorID string, limit, offset int) ([]models.Post, error) {
	var out []models.Post
	for _, p := range f.posts {
		if p.AuthorID == authorID {
			out = append(out, p)
		}
	}
	return page(out, limit, offset), nil
}

func (f *fakePostRepo) CountPosts(ctx context.Context) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return int64(len(f.posts)), nil
}

func (f *fakePostRepo) GetLike(ctx context.Context, userID, postID string) (*models.PostLike, error) {
	return nil, repository.ErrLikeNotFound
}

func (f *fakePostRepo) HasLiked(ctx context.Context, userID, postID string) (bool, error) {
	return false, nil
}

func taggedPost(id string, tags ...string) models.Post {
	return models.Post{
		ID:       id,
		AuthorID: "author-1",
		Title:    "title " + id,
		Tags:     models.StringArray(tags),
	}
}

func newTestRanker(repo *fakePostRepo, interests *interest.Service, seed int64) *Ranker {
	return NewRanker(repo, interests, rand.New(rand.NewSource(seed)))
}

func tagsOf(posts []models.Post) map[string]bool {
	seen := map[string]bool{}
	for _, p := range posts {
		for _, tag := range p.Tags {
			seen[tag] = true
		}
	}
	return seen
}

func TestSmartPostsAnonymousGetsRecentFeed(t *testing.T) {
	repo := &fakePostRepo{posts: []models.Post{
		taggedPost("p1", "hiking"),
		taggedPost("p2"),
		taggedPost("p3", "coffee"),
	}}
	ranker := newTestRanker(repo, interestService("user-1", nil), 1)

	posts, err := ranker.SmartPosts(context.Background(), "", 2, 1)
	require.NoError(t, err)

	// Straight passthrough, limit and offset handed to the store
	require.Len(t, posts, 2)
	assert.Equal(t, "p2", posts[0].ID)
	assert.Equal(t, 2, repo.lastLimit)
	assert.Equal(t, 1, repo.lastOffset)
}

func TestSmartPostsNoInterestsGetsRecentFeed(t *testing.T) {
	repo := &fakePostRepo{posts: []models.Post{taggedPost("p1", "hiking"), taggedPost("p2")}}
	ranker := newTestRanker(repo, interestService("user-1", nil), 1)

	posts, err := ranker.SmartPosts(context.Background(), "user-1", 10, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "p1", posts[0].ID)
}

func TestSmartPostsRanksStrongerInterestFirst(t *testing.T) {
	var candidates []models.Post
	for i := 0; i < 10; i++ {
		candidates = append(candidates, taggedPost("plain-"+string(rune('a'+i))))
	}
	candidates = append(candidates,
		taggedPost("coffee-1", "coffee"),
		taggedPost("hiking-1", "hiking"),
		taggedPost("coffee-2", "coffee"),
		taggedPost("hiking-2", "hiking", "coffee"),
	)
	repo := &fakePostRepo{posts: candidates}
	svc := interestService("user-1", map[string]float64{"hiking": 5, "coffee": 2})
	ranker := newTestRanker(repo, svc, 11)

	posts, err := ranker.SmartPosts(context.Background(), "user-1", 50, 0)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(posts), 4)

	// Hiking posts (stronger interest) outrank coffee posts; a post tagged
	// with both counts at its strongest match
	first := tagsOf(posts[:2])
	assert.True(t, first["hiking"], "top group must be the hiking posts, got %v", posts[:2])
	second := posts[2:4]
	for _, p := range second {
		assert.True(t, p.Tags.Contains("coffee"), "second group must be coffee posts, got %s %v", p.ID, p.Tags)
		assert.False(t, p.Tags.Contains("hiking"))
	}
}

func TestSmartPostsBlendsFallbackPosts(t *testing.T) {
	var candidates []models.Post
	for i := 0; i < 10; i++ {
		candidates = append(candidates, taggedPost("hiking-"+string(rune('a'+i)), "hiking"))
	}
	for i := 0; i < 10; i++ {
		candidates = append(candidates, taggedPost("plain-"+string(rune('a'+i))))
	}
	repo := &fakePostRepo{posts: candidates}
	ranker := newTestRanker(repo, interestService("user-1", map[string]float64{"hiking": 5}), 3)

	posts, err := ranker.SmartPosts(context.Background(), "user-1", 100, 0)
	require.NoError(t, err)

	// 10 targeted plus a 30% fallback slice of the rest
	require.Len(t, posts, 13)
	for _, p := range posts[:10] {
		assert.True(t, p.Tags.Contains("hiking"))
	}
	for _, p := range posts[10:] {
		assert.Empty(t, []string(p.Tags), "fallback tail must be non-matching posts")
	}
}

func TestSmartPostsFallbackAtLeastOne(t *testing.T) {
	repo := &fakePostRepo{posts: []models.Post{
		taggedPost("hiking-1", "hiking"),
		taggedPost("plain-1"),
		taggedPost("plain-2"),
	}}
	ranker := newTestRanker(repo, interestService("user-1", map[string]float64{"hiking": 5}), 3)

	posts, err := ranker.SmartPosts(context.Background(), "user-1", 10, 0)
	require.NoError(t, err)

	// floor(1 * 0.3) rounds to zero but the blend still admits one
	require.Len(t, posts, 2)
	assert.Equal(t, "hiking-1", posts[0].ID)
	assert.False(t, posts[1].Tags.Contains("hiking"))
}

func TestSmartPostsNoMatchesServesRecent(t *testing.T) {
	repo := &fakePostRepo{posts: []models.Post{
		taggedPost("p1", "cooking"),
		taggedPost("p2"),
	}}
	ranker := newTestRanker(repo, interestService("user-1", map[string]float64{"hiking": 5}), 1)

	posts, err := ranker.SmartPosts(context.Background(), "user-1", 10, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "p1", posts[0].ID)
	assert.Equal(t, "p2", posts[1].ID)
}

func TestSmartPostsStoreErrorPropagates(t *testing.T) {
	repo := &fakePostRepo{err: errors.New("store down")}
	ranker := newTestRanker(repo, interestService("user-1", map[string]float64{"hiking": 5}), 1)

	_, err := ranker.SmartPosts(context.Background(), "user-1", 10, 0)
	assert.Error(t, err)
}

func TestSmartPostsInterestErrorPropagates(t *testing.T) {
	repo := &fakePostRepo{posts: []models.Post{taggedPost("p1")}}
	svc := interest.NewService(&fakeInterestRepo{err: errors.New("store down")}, nil)
	ranker := newTestRanker(repo, svc, 1)

	_, err := ranker.SmartPosts(context.Background(), "user-1", 10, 0)
	assert.Error(t, err)
}

func TestPageBounds(t *testing.T) {
	posts := []models.Post{taggedPost("p1"), taggedPost("p2"), taggedPost("p3")}

	assert.Len(t, page(posts, 2, 0), 2)
	assert.Len(t, page(posts, 10, 0), 3)
	assert.Len(t, page(posts, 2, 2), 1)
	assert.Nil(t, page(posts, 2, 3))
	assert.Nil(t, page(nil, 2, 0))
}

func TestTargetingStats(t *testing.T) {
	repo := &fakePostRepo{posts: []models.Post{
		taggedPost("p1", "hiking"),
		taggedPost("p2", "hiking"),
		taggedPost("p3", "coffee"),
		taggedPost("p4"),
	}}
	ranker := newTestRanker(repo, interestService("user-1", map[string]float64{"hiking": 5}), 1)

	stats, err := ranker.TargetingStats(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.TotalPosts)
	assert.Equal(t, int64(2), stats.TargetedPosts)
	assert.Equal(t, int64(2), stats.FallbackPosts)
	assert.InDelta(t, 50.0, stats.TargetingRatio, 0.01)
	assert.Equal(t, []string{"hiking"}, stats.UserInterests)
}

func TestTargetingStatsAnonymous(t *testing.T) {
	repo := &fakePostRepo{posts: []models.Post{taggedPost("p1", "hiking")}}
	ranker := newTestRanker(repo, interestService("user-1", nil), 1)

	stats, err := ranker.TargetingStats(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalPosts)
	assert.Zero(t, stats.TargetedPosts)
	assert.Equal(t, int64(1), stats.FallbackPosts)
}
