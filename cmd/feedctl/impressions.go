package main

import (
	"context"
	"fmt"
	"time"

	"github.com/pulsefeed/backend/internal/config"
	"github.com/pulsefeed/backend/internal/database"
	"github.com/pulsefeed/backend/internal/impressions"
	"github.com/pulsefeed/backend/internal/repository"
	"github.com/spf13/cobra"
)

var (
	impressionsAdID  string
	impressionsSince string
	impressionsUntil string
)

var impressionsCmd = &cobra.Command{
	Use:   "impressions",
	Short: "Aggregate ad impression analytics",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := repository.ImpressionFilter{AdvertisementID: impressionsAdID}

		if impressionsSince != "" {
			since, err := time.Parse("2006-01-02", impressionsSince)
			if err != nil {
				return fmt.Errorf("invalid --since date: %w", err)
			}
			filter.Since = since
		}
		if impressionsUntil != "" {
			until, err := time.Parse("2006-01-02", impressionsUntil)
			if err != nil {
				return fmt.Errorf("invalid --until date: %w", err)
			}
			filter.Until = until
		}

		if err := database.Initialize(); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()

		tracker := impressions.NewTracker(
			repository.NewImpressionRepository(database.DB),
			config.ImpressionDedupeWindow(),
		)

		stats, err := tracker.Stats(context.Background(), filter)
		if err != nil {
			return err
		}

		fmt.Printf("impressions:       %d\n", stats.Impressions)
		fmt.Printf("valid impressions: %d\n", stats.ValidImpressions)
		fmt.Printf("avg duration:      %.2fs\n", stats.AvgDuration)
		fmt.Printf("unique users:      %d\n", stats.UniqueUsers)
		return nil
	},
}

func init() {
	impressionsCmd.Flags().StringVar(&impressionsAdID, "ad", "", "Filter by advertisement ID")
	impressionsCmd.Flags().StringVar(&impressionsSince, "since", "", "Start date (YYYY-MM-DD)")
	impressionsCmd.Flags().StringVar(&impressionsUntil, "until", "", "End date (YYYY-MM-DD)")
}
