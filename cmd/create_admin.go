package cmd

import (
	"errors"
	"fmt"

	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/repository"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/users"

	"github.com/spf13/cobra"
)

var CreateAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create the admin account unless it already exists.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		rt, err := bootstrap(ctx, cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		username, _ := cmd.Flags().GetString("username")
		if username == "" {
			username = rt.cfg.Auth.AdminUsername
		}
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			password = rt.cfg.Auth.AdminPassword
		}
		if len(password) < 6 {
			return errors.New("admin password must be at least 6 characters")
		}

		service := users.NewService(repository.NewRepository(rt.db), users.NewRepository(), rt.logger)
		created, err := service.EnsureDefaultAdmin(ctx, username, password)
		if err != nil {
			return fmt.Errorf("create admin: %w", err)
		}

		if created {
			fmt.Fprintf(cmd.OutOrStdout(), "admin %q created\n", username)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "user %q already exists\n", username)
		}
		return nil
	},
}
