package cmd

import (
	"context"
	"log"

	"github.com/frahmantamala/feedback-collector/internal/database"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "to run the embedded db migrations for the configured driver",
	}
	migrateRollback bool
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
}

func runMigration(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	cfg, err := loadConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Open(cfg.Database, nil)
	if err != nil {
		log.Fatalf("migrate: failed to open DB: %v\n", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("migrate: %v", err)
	}
	defer sqlDB.Close()

	if migrateRollback {
		if err := database.Rollback(ctx, sqlDB, cfg.Database.Driver); err != nil {
			log.Fatalf("goose down: %v", err)
		}
		return nil
	}

	if err := database.Migrate(ctx, sqlDB, cfg.Database.Driver); err != nil {
		log.Fatalf("goose up: %v", err)
	}

	return nil
}
