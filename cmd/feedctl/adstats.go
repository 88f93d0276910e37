package main

import (
	"context"
	"fmt"

	"github.com/pulsefeed/backend/internal/ads"
	"github.com/pulsefeed/backend/internal/database"
	"github.com/pulsefeed/backend/internal/repository"
	"github.com/spf13/cobra"
)

var adStatsAdID string

var adStatsCmd = &cobra.Command{
	Use:   "adstats",
	Short: "Show ad delivery performance (impressions, clicks, CTR, CPC)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.Initialize(); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()

		reporter := ads.NewReporter(repository.NewAdRepository(database.DB))
		ctx := context.Background()

		if adStatsAdID != "" {
			perf, err := reporter.GetPerformance(ctx, adStatsAdID)
			if err != nil {
				return err
			}
			printPerformance(*perf)
			return nil
		}

		reports, err := reporter.ListActivePerformance(ctx)
		if err != nil {
			return err
		}
		for _, perf := range reports {
			printPerformance(perf)
		}
		return nil
	},
}

func printPerformance(p ads.Performance) {
	fmt.Printf("%-12s %-24s impressions=%-8d clicks=%-6d ctr=%.2f%% cpc=%s spent=%s\n",
		p.ID, p.Brand, p.Impressions, p.Clicks, p.ClickThroughRate,
		p.CostPerClick.StringFixed(2), p.BudgetSpent.StringFixed(2))
}

func init() {
	adStatsCmd.Flags().StringVar(&adStatsAdID, "ad", "", "Report a single advertisement by ID")
}
