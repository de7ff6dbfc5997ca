package cmd

import (
	"fmt"

	"github.com/frahmantamala/hr-portal/internal/core/datamodel"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	RunE:  runMigration,
	Use:   "migrate",
	Short: "create or update the service schema",
}

func runMigration(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	lg := setupLogger(cfg)

	db, err := initDB(cfg.Database)
	if err != nil {
		return err
	}
	defer closeDB(db)

	if err := datamodel.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	lg.Info("schema is up to date", "driver", cfg.Database.Driver)
	return nil
}
