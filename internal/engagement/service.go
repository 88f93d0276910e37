package engagement

import (
	"context"
	"errors"
	"fmt"

	apierrors "github.com/pulsefeed/backend/internal/errors"
	"github.com/pulsefeed/backend/internal/interest"
	"github.com/pulsefeed/backend/internal/logger"
	"github.com/pulsefeed/backend/internal/metrics"
	"github.com/pulsefeed/backend/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service turns user actions on posts into persisted engagement state and
// interest-score deltas. The like toggle is the one operation here with a
// hard consistency requirement; everything feeding the interest model is
// approximate and degrades gracefully.
type Service struct {
	db        *gorm.DB
	interests *interest.Service
}

// NewService creates an engagement service
func NewService(db *gorm.DB, interests *interest.Service) *Service {
	return &Service{db: db, interests: interests}
}

// ToggleResult is what callers get back from a like toggle
type ToggleResult struct {
	Action       string `json:"action"` // "liked" or "unliked"
	NewCount     int    `json:"new_count"`
	UserHasLiked bool   `json:"user_has_liked"`
}

const (
	ActionLiked   = "liked"
	ActionUnliked = "unliked"
)

// ToggleLike flips the like state for (user, post). The transition is
// decided from the persisted like row, re-read inside a transaction while
// the post row is locked, so two racing double-clicks serialize instead of
// corrupting the counter. A store failure rolls the whole toggle back.
func (s *Service) ToggleLike(ctx context.Context, userID, postID string) (*ToggleResult, error) {
	if userID == "" {
		return nil, apierrors.ValidationError("user_id", "user_id is required")
	}
	if postID == "" {
		return nil, apierrors.ValidationError("post_id", "post_id is required")
	}

	var (
		result ToggleResult
		post   models.Post
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the post row for the duration of the toggle. sqlite has no
		// FOR UPDATE; its single-writer transactions give the same
		// serialization.
		q := tx
		if tx.Dialector.Name() != "sqlite" {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		err := q.Where("id = ?", postID).First(&post).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierrors.NotFound("post")
		}
		if err != nil {
			return apierrors.TransientStore("like toggle", err)
		}

		// Current state comes from the like row, not from anything the
		// client claims
		var like models.PostLike
		err = tx.Where("user_id = ? AND post_id = ?", userID, postID).First(&like).Error

		switch {
		case err == nil:
			// Liked -> Unliked
			if err := tx.Delete(&like).Error; err != nil {
				return apierrors.TransientStore("like toggle", err)
			}
			newCount := post.Likes - 1
			if newCount < 0 {
				newCount = 0
			}
			if err := tx.Model(&post).UpdateColumn("likes", newCount).Error; err != nil {
				return apierrors.TransientStore("like toggle", err)
			}
			result = ToggleResult{Action: ActionUnliked, NewCount: newCount, UserHasLiked: false}
			return nil

		case errors.Is(err, gorm.ErrRecordNotFound):
			// Unliked -> Liked
			newLike := models.PostLike{UserID: userID, PostID: postID}
			if err := tx.Create(&newLike).Error; err != nil {
				return apierrors.TransientStore("like toggle", err)
			}
			newCount := post.Likes + 1
			if err := tx.Model(&post).UpdateColumn("likes", newCount).Error; err != nil {
				return apierrors.TransientStore("like toggle", err)
			}
			result = ToggleResult{Action: ActionLiked, NewCount: newCount, UserHasLiked: true}
			return nil

		default:
			return apierrors.TransientStore("like toggle", err)
		}
	})
	if err != nil {
		return nil, err
	}

	// Feed the interest model after the toggle committed. Interest scores
	// are approximate; a failure here must not undo the like.
	action := interest.ActionLike
	if result.Action == ActionUnliked {
		action = interest.ActionUnlike
	}
	s.ProcessInteraction(ctx, userID, &post, action)

	return &result, nil
}

// ProcessInteraction applies one action against every tag on the post. There
// is no cross-tag atomicity: a tag that fails is logged and skipped, the
// rest still apply.
func (s *Service) ProcessInteraction(ctx context.Context, userID string, post *models.Post, actionType string) {
	if post == nil || userID == "" {
		return
	}

	metrics.Get().InteractionsTotal.WithLabelValues(actionType).Inc()

	for _, tag := range post.Tags {
		if err := s.interests.ApplyInteraction(ctx, userID, tag, actionType); err != nil {
			logger.Warn("Interest update failed",
				zap.String("user_id", userID),
				zap.String("post_id", post.ID),
				zap.String("tag", tag),
				zap.String("action", actionType),
				zap.Error(err))
		}
	}
}

// RecordInteraction looks up the post and fans its tags out to the interest
// model. Used by callers that only hold a post ID (views, profile clicks).
func (s *Service) RecordInteraction(ctx context.Context, userID, postID, actionType string) error {
	var post models.Post
	err := s.db.WithContext(ctx).Where("id = ?", postID).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierrors.NotFound("post")
	}
	if err != nil {
		return fmt.Errorf("failed to load post %s: %w", postID, err)
	}

	s.ProcessInteraction(ctx, userID, &post, actionType)
	return nil
}
