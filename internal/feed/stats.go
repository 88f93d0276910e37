package feed

import (
	"context"
	"math"
)

// TargetingStats describes how much of the post corpus a user's interest
// profile actually reaches. Mostly a debugging/reporting aid.
type TargetingStats struct {
	UserInterests  []string `json:"user_interests"`
	TotalPosts     int64    `json:"total_posts"`
	TargetedPosts  int64    `json:"targeted_posts"`
	FallbackPosts  int64    `json:"fallback_posts"`
	TargetingRatio float64  `json:"targeting_ratio"` // percent of posts targeted
}

// TargetingStats reports interest coverage over the recent post pool
func (r *Ranker) TargetingStats(ctx context.Context, userID string) (*TargetingStats, error) {
	total, err := r.posts.CountPosts(ctx)
	if err != nil {
		return nil, err
	}

	stats := &TargetingStats{TotalPosts: total}
	if userID == "" {
		stats.FallbackPosts = total
		return stats, nil
	}

	userInterests, err := r.interests.TopInterests(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, in := range userInterests {
		stats.UserInterests = append(stats.UserInterests, in.Interest)
	}
	if len(userInterests) == 0 {
		stats.FallbackPosts = total
		return stats, nil
	}

	// Sampled over the same candidate window the ranker uses
	candidates, err := r.posts.GetPosts(ctx, int(total), 0)
	if err != nil {
		return nil, err
	}
	targeted, _ := r.partition(candidates, userInterests)

	stats.TargetedPosts = int64(len(targeted))
	stats.FallbackPosts = total - stats.TargetedPosts
	if total > 0 {
		stats.TargetingRatio = math.Round(float64(stats.TargetedPosts)/float64(total)*1000) / 10
	}
	return stats, nil
}
