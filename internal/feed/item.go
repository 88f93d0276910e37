package feed

import (
	"github.com/pulsefeed/backend/internal/models"
)

// ItemKind discriminates feed item variants
type ItemKind string

const (
	// KindPost is an organic post
	KindPost ItemKind = "post"
	// KindAd is an inserted advertisement
	KindAd ItemKind = "advertisement"
)

// Item is one entry in an assembled feed: either a post or an ad, stated
// explicitly instead of sniffing attributes off a mixed list.
type Item struct {
	Kind ItemKind              `json:"kind"`
	Post *models.Post          `json:"post,omitempty"`
	Ad   *models.Advertisement `json:"ad,omitempty"`
}

// PostItem wraps a post as a feed item
func PostItem(post *models.Post) Item {
	return Item{Kind: KindPost, Post: post}
}

// AdItem wraps an advertisement as a feed item
func AdItem(ad *models.Advertisement) Item {
	return Item{Kind: KindAd, Ad: ad}
}
