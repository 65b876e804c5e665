package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/core/container"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/inventory/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var ImportCmd = &cobra.Command{
	Use:   "import <workbook.xlsx>",
	Short: "Reconcile an inventory workbook against the database.",
	Long:  `Reads the workbook rows and reconciles them one transaction per row. The report is printed as JSON.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rt, err := bootstrap(ctx, cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		app, err := container.NewAppContainer(ctx, rt.db, rt.cfg, rt.logger)
		if err != nil {
			return err
		}

		username, _ := cmd.Flags().GetString("as")
		if username == "" {
			username = rt.cfg.Auth.AdminUsername
		}
		actor, err := app.UserService.ActorFor(ctx, username)
		if err != nil {
			return fmt.Errorf("resolve import user: %w", err)
		}

		file, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open workbook: %w", err)
		}
		defer file.Close()

		source := reconcile.NewXLSXSource(file)
		if sheet, _ := cmd.Flags().GetString("sheet"); sheet != "" {
			source.WithSheet(sheet)
		}

		report, err := app.Reconciler.ReconcileSource(ctx, source, actor)
		if report != nil {
			rt.logger.Info("Import finished",
				zap.String("batch_id", report.BatchID),
				zap.Int("rows_processed", report.RowsProcessed),
				zap.Int("row_errors", len(report.RowErrors)),
			)
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			if encodeErr := encoder.Encode(report); encodeErr != nil {
				return encodeErr
			}
		}
		return err
	},
}
