package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/core/container"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/core/routes"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		rt, err := bootstrap(ctx, cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		if rt.cfg.Database.AutoMigrate {
			if err := database.RunMigrations(rt.db, false, rt.logger); err != nil {
				return fmt.Errorf("migrate database: %w", err)
			}
		}

		app, err := container.NewAppContainer(ctx, rt.db, rt.cfg, rt.logger)
		if err != nil {
			return err
		}

		if rt.cfg.Auth.AdminPassword != "" {
			created, err := app.UserService.EnsureDefaultAdmin(ctx, rt.cfg.Auth.AdminUsername, rt.cfg.Auth.AdminPassword)
			if err != nil {
				return fmt.Errorf("ensure default admin: %w", err)
			}
			if created {
				rt.logger.Info("Default admin created", zap.String("username", rt.cfg.Auth.AdminUsername))
			}
		}

		server := &http.Server{
			Addr:              rt.cfg.Server.Addr(),
			Handler:           routes.NewRouter(app),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			rt.logger.Info("Starting server", zap.String("addr", server.Addr))
			errCh <- server.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server stopped: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		rt.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	},
}
