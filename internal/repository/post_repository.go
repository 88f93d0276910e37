package repository

import (
	"context"
	"errors"

	"github.com/pulsefeed/backend/internal/models"
	"gorm.io/gorm"
)

// PostRepository handles all database operations for posts and likes
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, postID string) (*models.Post, error)

	// GetPosts returns public posts newest-first
	GetPosts(ctx context.Context, limit, offset int) ([]models.Post, error)
	GetPostsByAuthor(ctx context.Context, authorID string, limit, offset int) ([]models.Post, error)
	CountPosts(ctx context.Context) (int64, error)

	// Like-row existence; toggle transactions live in the engagement
	// service because they span the counter and the row
	GetLike(ctx context.Context, userID, postID string) (*models.PostLike, error)
	HasLiked(ctx context.Context, userID, postID string) (bool, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) CreatePost(ctx context.Context, post *models.Post) error {
	if post == nil {
		return ErrInvalidInput
	}
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Preload("Author").Where("id = ?", postID).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetPosts(ctx context.Context, limit, offset int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) GetPostsByAuthor(ctx context.Context, authorID string, limit, offset int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) CountPosts(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).Count(&count).Error
	return count, err
}

func (r *postRepository) GetLike(ctx context.Context, userID, postID string) (*models.PostLike, error) {
	var like models.PostLike
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		First(&like).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLikeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &like, nil
}

func (r *postRepository) HasLiked(ctx context.Context, userID, postID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PostLike{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	return count > 0, err
}
