package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/college-feedback/feedback-service/internal/config"
	"github.com/college-feedback/feedback-service/internal/database"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the default feedback categories",
	RunE:  runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := database.MigrateUp(cfg.DatabaseURL()); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.DSN())
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := database.SeedCategories(db); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	log.Println("seed: ok")
	return nil
}
