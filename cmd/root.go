package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func Execute(ctx context.Context) {
	rootCmd := &cobra.Command{
		Use:           "inventario",
		Short:         "Molinos equipment inventory service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("config", "", "Path to a config file (defaults to ./config.yaml when present)")

	MigrateCmd.Flags().String("dir", "", "Directory containing migration files; the embedded migrations are used when empty")
	ImportCmd.Flags().String("sheet", "", "Sheet to read; the first sheet is used when empty")
	ImportCmd.Flags().String("as", "", "Username the import is attributed to (defaults to the configured admin)")
	CreateAdminCmd.Flags().String("username", "", "Admin username (defaults to auth.admin_username)")
	CreateAdminCmd.Flags().String("password", "", "Admin password (defaults to auth.admin_password)")

	rootCmd.AddCommand(ServeCmd, MigrateCmd, ImportCmd, CreateAdminCmd)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
