package interest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pulsefeed/backend/internal/cache"
	"github.com/pulsefeed/backend/internal/config"
	"github.com/pulsefeed/backend/internal/logger"
	"github.com/pulsefeed/backend/internal/models"
	"github.com/pulsefeed/backend/internal/repository"
	"go.uber.org/zap"
)

// Service is the interest store: it owns the (user, tag) → score mapping and
// the update policy applied on every interaction. Store-layer errors
// propagate to the caller; only the Redis cache is best-effort.
type Service struct {
	repo  repository.InterestRepository
	redis *cache.RedisClient // optional; nil disables caching
	ttl   time.Duration
}

// NewService creates an interest service. redisClient may be nil, in which
// case every read goes straight to the store.
func NewService(repo repository.InterestRepository, redisClient *cache.RedisClient) *Service {
	return &Service{
		repo:  repo,
		redis: redisClient,
		ttl:   config.InterestCacheTTL(),
	}
}

// ApplyInteraction records one interaction between a user and an interest
// tag. The row is created on first contact; afterwards the diminishing-
// returns bands damp each additional interaction.
func (s *Service) ApplyInteraction(ctx context.Context, userID, tag, actionType string) error {
	if userID == "" || tag == "" {
		return repository.ErrInvalidInput
	}

	weight := ActionWeight(actionType)

	row, err := s.repo.GetOrCreate(ctx, userID, tag)
	if err != nil {
		return fmt.Errorf("failed to load interest %s/%s: %w", userID, tag, err)
	}

	row.Score = nextScore(row.Score, weight)
	if err := s.repo.Save(ctx, row); err != nil {
		return fmt.Errorf("failed to save interest %s/%s: %w", userID, tag, err)
	}

	s.invalidateCache(ctx, userID)
	return nil
}

// GetScores returns the user's interests at or above minScore, strongest
// first. Results are cached per user; a cache failure falls through to the
// store and never fails the call.
func (s *Service) GetScores(ctx context.Context, userID string, minScore float64, limit int) ([]models.UserInterest, error) {
	if userID == "" {
		return nil, nil
	}

	key := s.cacheKey(userID, minScore, limit)
	if s.redis != nil {
		if raw, err := s.redis.Get(ctx, key); err == nil {
			var cached []models.UserInterest
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return cached, nil
			}
		} else if !cache.IsCacheMiss(err) {
			logger.Warn("Interest cache read failed", zap.String("user_id", userID), zap.Error(err))
		}
	}

	interests, err := s.repo.GetScores(ctx, userID, minScore, limit)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if raw, err := json.Marshal(interests); err == nil {
			if err := s.redis.SetEx(ctx, key, raw, s.ttl); err != nil {
				logger.Warn("Interest cache write failed", zap.String("user_id", userID), zap.Error(err))
			}
		}
	}

	return interests, nil
}

// TopInterests returns the user's targeting signal with the production
// defaults for threshold and list size.
func (s *Service) TopInterests(ctx context.Context, userID string) ([]models.UserInterest, error) {
	return s.GetScores(ctx, userID, config.DefaultMinInterestScore, config.DefaultTopInterestLimit)
}

func (s *Service) cacheKey(userID string, minScore float64, limit int) string {
	return fmt.Sprintf("user_interests:%s:%.1f:%d", userID, minScore, limit)
}

func (s *Service) invalidateCache(ctx context.Context, userID string) {
	if s.redis == nil {
		return
	}
	// Only the default-parameter key is cached hot; dropping it is enough
	key := s.cacheKey(userID, config.DefaultMinInterestScore, config.DefaultTopInterestLimit)
	if err := s.redis.Del(ctx, key); err != nil {
		logger.Warn("Interest cache invalidation failed", zap.String("user_id", userID), zap.Error(err))
	}
}
