package main

import (
	"fmt"

	"github.com/pulsefeed/backend/internal/database"
	"github.com/pulsefeed/backend/internal/seed"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:       "seed [dev|clean]",
	Short:     "Seed the development database",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"dev", "clean"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.Initialize(); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()

		if err := database.Migrate(); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		seeder := seed.NewSeeder(database.DB)

		switch args[0] {
		case "dev":
			if err := seeder.SeedDev(); err != nil {
				return err
			}
			fmt.Println("Development data seeded")
		case "clean":
			if err := seeder.Clean(); err != nil {
				return err
			}
			fmt.Println("Seed data removed")
		}
		return nil
	},
}
