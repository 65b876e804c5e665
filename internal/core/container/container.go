package container

import (
	"context"
	"database/sql"

	auditLogRepo "github.com/RoDaGroJi/Molinos-Inventario-Back/internal/auditlog"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/config"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/integrations/googlesheets"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/inventory/assets"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/inventory/assignments"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/inventory/bindings"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/inventory/catalog"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/inventory/employees"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/inventory/reconcile"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/inventory/report"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/metrics"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/middleware"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/rate_limiter"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/repository"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/users"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/auditlog"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/security"

	"go.uber.org/zap"
)

const Version = "1.0.0"

type Container struct {
	Config     *config.Config
	Logger     *zap.Logger
	Repository *repository.Repository
	Metrics    *metrics.Metrics
	AuditLog   *auditlog.Auditlog
	Health     *middleware.HealthChecker
	Issuer     *security.TokenIssuer

	// LoginLimiter throttles POST /auth per client.
	LoginLimiter *rate_limiter.RateLimiter

	UserService *users.UserService
	Reconciler  *reconcile.Reconciler

	LoginHandler      *security.LoginHandler
	UserHandler       *users.UsersHandler
	CatalogHandler    *catalog.CatalogHandler
	EmployeeHandler   *employees.EmployeeHandler
	AssetHandler      *assets.AssetHandler
	AssignmentHandler *assignments.AssignmentHandler
	ReconcileHandler  *reconcile.ReconcileHandler
	ReportHandler     *report.ReportHandler
	// SheetsHandler is nil when no Google credentials are configured.
	SheetsHandler *googlesheets.GoogleSheetsHandler
}

func NewAppContainer(ctx context.Context, db *sql.DB, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	repo := repository.NewRepository(db)
	m := metrics.New()

	auditLog := auditlog.NewAuditLog(auditLogRepo.NewRepository(), logger)
	resolver := catalog.NewResolver(repo, catalog.NewRepository(), logger)
	binder := bindings.NewBinder(repo, bindings.NewRepository(), logger)

	assetRepo := assets.NewRepository()
	assetService := assets.NewAssetService(repo, assetRepo, resolver, logger)
	employeeRepo := employees.NewRepository()
	employeeService := employees.NewService(repo, employeeRepo, resolver, binder, assetRepo, logger)

	assignmentService := assignments.NewService(repo, assignments.NewRepository(), employeeRepo, assetRepo, binder, resolver, auditLog, m, logger)
	reconciler := reconcile.NewReconciler(repo, resolver, employeeRepo, assetRepo, binder, assignmentService, m, logger).
		WithMaxRows(cfg.Import.MaxRows)
	reportService := report.NewService(repo, report.NewRepository(), logger)

	userRepo := users.NewRepository()
	userService := users.NewService(repo, userRepo, logger)
	issuer := security.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	limiter := rate_limiter.NewRateLimiter(cfg.Auth.LoginAttempts, cfg.Auth.LoginWindow)

	c := &Container{
		Config:     cfg,
		Logger:     logger,
		Repository: repo,
		Metrics:    m,
		AuditLog:   auditLog,
		Health:     middleware.NewHealthChecker(db, Version, logger),
		Issuer:     issuer,

		LoginLimiter: limiter,

		UserService: userService,
		Reconciler:  reconciler,

		LoginHandler:      security.NewLoginHandler(repo, userRepo, issuer, limiter, logger),
		UserHandler:       users.NewHandler(userService, logger),
		CatalogHandler:    catalog.NewHandler(resolver, logger),
		EmployeeHandler:   employees.NewHandler(employeeService, logger),
		AssetHandler:      assets.NewAssetHandler(assetService, logger),
		AssignmentHandler: assignments.NewHandler(assignmentService, logger),
		ReconcileHandler:  reconcile.NewHandler(reconciler, logger),
		ReportHandler:     report.NewHandler(reportService, logger),
	}

	creds := googlesheets.Credentials{JSON: cfg.Sheets.CredentialsJSON, File: cfg.Sheets.CredentialsFile}
	if !creds.IsZero() {
		reader, err := googlesheets.NewSheetsReader(ctx, creds, logger)
		if err != nil {
			return nil, err
		}
		c.SheetsHandler = googlesheets.NewGoogleSheetsHandler(reader, reconciler, logger)
	} else {
		logger.Info("Google Sheets import disabled: no credentials configured")
	}

	return c, nil
}
