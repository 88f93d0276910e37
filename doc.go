// Package backend provides the PulseFeed content feed engine.
//
// The engine assembles personalized feed pages: posts ranked by interest
// relevance, ads interleaved on a cadence, and an engagement feedback loop
// that keeps the interest scores current. The pieces live in subpackages:
//
//   - internal/models: Data models and database schemas
//   - internal/repository: Database access for posts, ads, interests and impressions
//   - internal/interest: Interest scoring and the interaction feedback policy
//   - internal/engagement: Like toggles, interaction recording, user stats
//   - internal/ads: Ad catalog cache, interest-weighted selection, click tracking
//   - internal/feed: Relevance ranking and post/ad interleaving
//   - internal/impressions: Ad view tracking and viewability analytics
//   - internal/database: Database connection and migrations
//   - internal/cache: Redis access for the interest score cache
//   - internal/seed: Development data generation
//
// See the individual package documentation for detailed reference.
package backend
