package engagement

import (
	"context"
	"math"

	"github.com/pulsefeed/backend/internal/models"
)

// UserStats summarizes engagement across one author's posts
type UserStats struct {
	TotalPosts      int64   `json:"total_posts"`
	TotalLikes      int64   `json:"total_likes"`
	TotalComments   int64   `json:"total_comments"`
	TotalShares     int64   `json:"total_shares"`
	AvgLikes        float64 `json:"avg_likes"`
	AvgComments     float64 `json:"avg_comments"`
	TotalEngagement int64   `json:"total_engagement"`
	EngagementRate  float64 `json:"engagement_rate"` // engagement per post
}

// GetUserStats aggregates engagement counters over a user's posts
func (s *Service) GetUserStats(ctx context.Context, userID string) (*UserStats, error) {
	type row struct {
		TotalPosts    int64
		TotalLikes    int64
		TotalComments int64
		TotalShares   int64
	}

	var agg row
	err := s.db.WithContext(ctx).
		Model(&models.Post{}).
		Select("COUNT(id) AS total_posts, COALESCE(SUM(likes),0) AS total_likes, COALESCE(SUM(comments),0) AS total_comments, COALESCE(SUM(shares),0) AS total_shares").
		Where("author_id = ?", userID).
		Scan(&agg).Error
	if err != nil {
		return nil, err
	}

	stats := &UserStats{
		TotalPosts:    agg.TotalPosts,
		TotalLikes:    agg.TotalLikes,
		TotalComments: agg.TotalComments,
		TotalShares:   agg.TotalShares,
	}
	stats.TotalEngagement = stats.TotalLikes + stats.TotalComments + stats.TotalShares

	posts := stats.TotalPosts
	if posts == 0 {
		posts = 1 // 0 posts -> 0 engagement -> 0/1 = 0
	}
	stats.AvgLikes = round1(float64(stats.TotalLikes) / float64(posts))
	stats.AvgComments = round1(float64(stats.TotalComments) / float64(posts))
	stats.EngagementRate = round1(float64(stats.TotalEngagement) / float64(posts))

	return stats, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
