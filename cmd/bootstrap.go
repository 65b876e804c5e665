package cmd

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/config"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/core/logger"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type deps struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *sql.DB
}

func (r *deps) Close() {
	if r.db != nil {
		r.db.Close()
	}
	_ = r.logger.Sync()
}

// bootstrap loads the configuration, builds the logger and opens the database.
func bootstrap(ctx context.Context, cmd *cobra.Command) (*deps, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	db, err := database.NewPostgresConnection(ctx, cfg.Database.URL, database.PoolConfig{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("connect database: %w", err)
	}
	log.Info("Connected to the database")

	return &deps{cfg: cfg, logger: log, db: db}, nil
}
