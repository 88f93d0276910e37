package main

import (
	"context"
	"fmt"

	"github.com/pulsefeed/backend/internal/ads"
	"github.com/pulsefeed/backend/internal/database"
	"github.com/pulsefeed/backend/internal/engagement"
	"github.com/pulsefeed/backend/internal/interest"
	"github.com/pulsefeed/backend/internal/repository"
	"github.com/spf13/cobra"
)

var likeCmd = &cobra.Command{
	Use:   "like <user-id> <post-id>",
	Short: "Toggle a like and feed the interest model",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.Initialize(); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()

		svc := newEngagementService()
		result, err := svc.ToggleLike(context.Background(), args[0], args[1])
		if err != nil {
			return err
		}

		fmt.Printf("%s: post %s now has %d likes\n", result.Action, args[1], result.NewCount)
		return nil
	},
}

var interactCmd = &cobra.Command{
	Use:   "interact <user-id> <post-id> <action>",
	Short: "Record a non-like interaction (view, comment, share, save, profile click)",
	Args:  cobra.MatchAll(cobra.ExactArgs(3), func(cmd *cobra.Command, args []string) error {
		switch args[2] {
		case interest.ActionView30s, interest.ActionView10s, interest.ActionComment,
			interest.ActionShare, interest.ActionSave, interest.ActionClickProfile:
			return nil
		}
		return fmt.Errorf("unknown action %q", args[2])
	}),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.Initialize(); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()

		svc := newEngagementService()
		if err := svc.RecordInteraction(context.Background(), args[0], args[1], args[2]); err != nil {
			return err
		}

		fmt.Printf("recorded %s by %s on post %s\n", args[2], args[0], args[1])
		return nil
	},
}

var adClickCmd = &cobra.Command{
	Use:   "adclick <ad-id>",
	Short: "Record an ad click",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.Initialize(); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()

		tracker := ads.NewClickTracker(repository.NewAdRepository(database.DB))
		if err := tracker.TrackClick(context.Background(), args[0]); err != nil {
			return err
		}

		fmt.Printf("click recorded for ad %s\n", args[0])
		return nil
	},
}

func newEngagementService() *engagement.Service {
	interests := interest.NewService(repository.NewInterestRepository(database.DB), nil)
	return engagement.NewService(database.DB, interests)
}
