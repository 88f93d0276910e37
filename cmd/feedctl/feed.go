package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pulsefeed/backend/internal/ads"
	"github.com/pulsefeed/backend/internal/cache"
	"github.com/pulsefeed/backend/internal/config"
	"github.com/pulsefeed/backend/internal/database"
	"github.com/pulsefeed/backend/internal/feed"
	"github.com/pulsefeed/backend/internal/interest"
	"github.com/pulsefeed/backend/internal/models"
	"github.com/pulsefeed/backend/internal/repository"
	"github.com/spf13/cobra"
)

var (
	feedLimit   int
	feedOffset  int
	feedCadence int
	feedOwn     bool
	feedStats   bool
)

var feedCmd = &cobra.Command{
	Use:   "feed [user-id]",
	Short: "Assemble one feed page (posts ranked by interest, ads interleaved)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID := ""
		if len(args) == 1 {
			userID = args[0]
		}

		if err := database.Initialize(); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()

		redisClient, err := cache.NewRedisClient(
			os.Getenv("REDIS_HOST"),
			os.Getenv("REDIS_PORT"),
			os.Getenv("REDIS_PASSWORD"),
		)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Warning: Redis unavailable, interest caching disabled")
			redisClient = nil
		}
		defer redisClient.Close()

		postRepo := repository.NewPostRepository(database.DB)
		adRepo := repository.NewAdRepository(database.DB)
		interests := interest.NewService(repository.NewInterestRepository(database.DB), redisClient)

		ranker := feed.NewRanker(postRepo, interests, nil)
		targeter := ads.NewTargeter(ads.NewCatalog(adRepo, config.AdCacheTTL()), nil)
		mixer := feed.NewMixer(targeter, interests, adRepo)

		ctx := context.Background()

		if feedStats {
			stats, err := ranker.TargetingStats(ctx, userID)
			if err != nil {
				return err
			}
			fmt.Printf("interests:      %v\n", stats.UserInterests)
			fmt.Printf("total posts:    %d\n", stats.TotalPosts)
			fmt.Printf("targeted posts: %d\n", stats.TargetedPosts)
			fmt.Printf("fallback posts: %d\n", stats.FallbackPosts)
			fmt.Printf("targeting:      %.1f%%\n", stats.TargetingRatio)
			return nil
		}

		cadence := feedCadence
		var posts []models.Post
		if feedOwn {
			if userID == "" {
				return fmt.Errorf("--own requires a user-id")
			}
			if cadence == 0 {
				cadence = config.DefaultOwnPostsAdCadence
			}
			posts, err = postRepo.GetPostsByAuthor(ctx, userID, feedLimit, feedOffset)
		} else {
			if cadence == 0 {
				cadence = config.DefaultBrowseAdCadence
			}
			posts, err = ranker.SmartPosts(ctx, userID, feedLimit, feedOffset)
		}
		if err != nil {
			return err
		}

		for _, item := range mixer.Mix(ctx, posts, userID, cadence) {
			printItem(item)
		}
		return nil
	},
}

func printItem(item feed.Item) {
	switch item.Kind {
	case feed.KindPost:
		fmt.Printf("post %-36s  %-40s tags=%v likes=%d\n",
			item.Post.ID, item.Post.Title, []string(item.Post.Tags), item.Post.Likes)
	case feed.KindAd:
		fmt.Printf("ad   %-36s  %-40s audience=%v\n",
			item.Ad.ID, item.Ad.Brand, []string(item.Ad.TargetAudience))
	}
}

func init() {
	feedCmd.Flags().IntVar(&feedLimit, "limit", 20, "Posts per page")
	feedCmd.Flags().IntVar(&feedOffset, "offset", 0, "Page offset")
	feedCmd.Flags().IntVar(&feedCadence, "cadence", 0, "Posts between ads (0 = default for the page type)")
	feedCmd.Flags().BoolVar(&feedOwn, "own", false, "Show the user's own posts instead of the browse feed")
	feedCmd.Flags().BoolVar(&feedStats, "stats", false, "Print targeting coverage instead of the feed")
}
