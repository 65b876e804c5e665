package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/database"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/database/migration"

	"github.com/spf13/cobra"
)

var MigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run migrations manually.",
	Long:  `Applies pending schema migrations. serve does the same on start unless database.auto_migrate is false.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := bootstrap(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		migrationDir, _ := cmd.Flags().GetString("dir")
		if migrationDir == "" {
			err = database.RunMigrations(rt.db, true, rt.logger)
		} else {
			absPath, absErr := filepath.Abs(migrationDir)
			if absErr != nil {
				return fmt.Errorf("failed to get absolute path: %w", absErr)
			}
			err = migration.Migrate(rt.cfg.Database.URL, "file://"+absPath, true, rt.logger)
		}
		if err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}

		return nil
	},
}
