package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post is a single feed entry authored by a user. Tags drive both post
// relevance ranking and the interest-score feedback loop.
type Post struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	AuthorID string `gorm:"not null;index" json:"author_id"`
	Author   User   `gorm:"foreignKey:AuthorID" json:"author,omitempty"`

	// Content
	Title    string `gorm:"not null;size:200" json:"title"`
	Text     string `gorm:"type:text" json:"text"`
	Image    string `gorm:"size:500" json:"image,omitempty"`
	Location string `gorm:"size:200" json:"location,omitempty"`

	// Interest tags
	Tags StringArray `gorm:"type:text[]" json:"tags"`

	// Engagement counters. Mutated only through the engagement service,
	// never by direct save.
	Likes    int `gorm:"default:0" json:"likes"`
	Comments int `gorm:"default:0" json:"comments"`
	Shares   int `gorm:"default:0" json:"shares"`

	// GORM fields
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name
func (Post) TableName() string {
	return "feed_posts"
}

// BeforeCreate assigns the UUID primary key
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// EngagementRate returns the total engagement across all counter types
func (p *Post) EngagementRate() int {
	return p.Likes + p.Comments + p.Shares
}

// PostLike records that a user currently likes a post. At most one row may
// exist per (user, post) pair; its existence must stay in sync with
// Post.Likes under concurrent toggles.
type PostLike struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"not null;uniqueIndex:idx_user_post" json:"user_id"`
	PostID string `gorm:"not null;uniqueIndex:idx_user_post" json:"post_id"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name
func (PostLike) TableName() string {
	return "post_likes"
}

// BeforeCreate assigns the UUID primary key
func (l *PostLike) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
