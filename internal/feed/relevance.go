package feed

import (
	"context"
	"math/rand"
	"sort"
	"sync"

	"github.com/pulsefeed/backend/internal/config"
	"github.com/pulsefeed/backend/internal/interest"
	"github.com/pulsefeed/backend/internal/logger"
	"github.com/pulsefeed/backend/internal/models"
	"github.com/pulsefeed/backend/internal/repository"
	"go.uber.org/zap"
)

// Ranker orders the candidate post pool by how well each post's tags match
// the user's interests. Posts matching a stronger interest outrank posts
// matching a weaker one; posts with equal relevance are shuffled so the feed
// does not fossilize; a fallback fraction of non-matching posts keeps some
// serendipity in the page.
type Ranker struct {
	posts            repository.PostRepository
	interests        *interest.Service
	fallbackFraction float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRanker creates a relevance ranker. rng is injectable for deterministic
// tests; nil gets a time-seeded source.
func NewRanker(posts repository.PostRepository, interests *interest.Service, rng *rand.Rand) *Ranker {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Ranker{
		posts:            posts,
		interests:        interests,
		fallbackFraction: config.DefaultFallbackFraction,
		rng:              rng,
	}
}

// scoredPost pairs a post with its relevance weight
type scoredPost struct {
	post  models.Post
	score int
}

// SmartPosts returns one page of posts for the user, interest-matched first.
// A user with no interests (or no user at all) gets the plain recent feed.
func (r *Ranker) SmartPosts(ctx context.Context, userID string, limit, offset int) ([]models.Post, error) {
	if userID == "" {
		return r.posts.GetPosts(ctx, limit, offset)
	}

	userInterests, err := r.interests.TopInterests(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(userInterests) == 0 {
		return r.posts.GetPosts(ctx, limit, offset)
	}

	// Candidate window: a few pages beyond what's requested, so ranking has
	// something to choose from
	fetch := (offset + limit) * 3
	if fetch < 30 {
		fetch = 30
	}
	candidates, err := r.posts.GetPosts(ctx, fetch, 0)
	if err != nil {
		return nil, err
	}

	targeted, rest := r.partition(candidates, userInterests)
	if len(targeted) == 0 {
		logger.Log.Debug("No posts matched user interests, serving recent feed",
			zap.String("user_id", userID))
		return page(candidates, limit, offset), nil
	}

	ranked := r.orderByRelevance(targeted)

	// Blend in a fraction of non-matching posts after the targeted ones
	fallbackCount := int(float64(len(targeted)) * r.fallbackFraction)
	if fallbackCount < 1 {
		fallbackCount = 1
	}
	r.shuffle(rest)
	if fallbackCount > len(rest) {
		fallbackCount = len(rest)
	}
	ranked = append(ranked, rest[:fallbackCount]...)

	return page(ranked, limit, offset), nil
}

// partition splits candidates into interest-matched posts (scored by the
// rank of the strongest matching interest) and the remainder.
func (r *Ranker) partition(candidates []models.Post, userInterests []models.UserInterest) ([]scoredPost, []models.Post) {
	var targeted []scoredPost
	var rest []models.Post

	for _, post := range candidates {
		score := 0
		for rank, in := range userInterests {
			if post.Tags.Contains(in.Interest) {
				// Stronger (earlier) interests weigh more
				score = len(userInterests) - rank
				break
			}
		}
		if score > 0 {
			targeted = append(targeted, scoredPost{post: post, score: score})
		} else {
			rest = append(rest, post)
		}
	}
	return targeted, rest
}

// orderByRelevance sorts scored posts into descending score groups and
// shuffles within each group.
func (r *Ranker) orderByRelevance(targeted []scoredPost) []models.Post {
	groups := make(map[int][]models.Post)
	var scores []int
	for _, sp := range targeted {
		if _, ok := groups[sp.score]; !ok {
			scores = append(scores, sp.score)
		}
		groups[sp.score] = append(groups[sp.score], sp.post)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(scores)))

	out := make([]models.Post, 0, len(targeted))
	for _, score := range scores {
		group := groups[score]
		r.shuffle(group)
		out = append(out, group...)
	}
	return out
}

func (r *Ranker) shuffle(posts []models.Post) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rng.Shuffle(len(posts), func(i, j int) {
		posts[i], posts[j] = posts[j], posts[i]
	})
}

func page(posts []models.Post, limit, offset int) []models.Post {
	if offset >= len(posts) {
		return nil
	}
	end := offset + limit
	if end > len(posts) {
		end = len(posts)
	}
	return posts[offset:end]
}
