package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/pulsefeed/backend/internal/logger"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "feedctl",
	Short: "feedctl - operate the pulsefeed feed engine",
	Long: `feedctl provides operational access to the feed engine:
database migrations, development seeding, feed page assembly,
engagement recording, and ad delivery reports.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			fmt.Fprintln(os.Stderr, "Warning: .env file not found, using system environment variables")
		}
		return logger.Initialize(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FILE"))
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Close()
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(likeCmd)
	rootCmd.AddCommand(interactCmd)
	rootCmd.AddCommand(adClickCmd)
	rootCmd.AddCommand(adStatsCmd)
	rootCmd.AddCommand(impressionsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
