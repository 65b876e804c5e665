package routes

import (
	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/core/container"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/middleware"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/security"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the engine with the global middleware and every route group.
func NewRouter(c *container.Container) *gin.Engine {
	if c.Config.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		middleware.RequestLogger(c.Logger),
		middleware.RecoveryMiddleware(c.Logger),
		middleware.CORS(c.Config.Server.CORSOrigins),
		c.Metrics.GinMiddleware(),
	)

	RegisterUtilityRoutes(router, c)
	RegisterPublicRoutes(router, c)
	RegisterProtectedRoutes(router, c)
	return router
}

func RegisterPublicRoutes(router *gin.Engine, c *container.Container) {
	c.LoginHandler.RegisterRoutes(router)
}

func RegisterProtectedRoutes(router *gin.Engine, c *container.Container) {
	protectedRoutes := router.Group("")
	protectedRoutes.Use(security.JWTMiddleware(c.Issuer))

	c.UserHandler.RegisterRoutes(protectedRoutes)
	c.CatalogHandler.RegisterRoutes(protectedRoutes)
	c.EmployeeHandler.RegisterRoutes(protectedRoutes)
	c.AssetHandler.RegisterRoutes(protectedRoutes)
	c.AssignmentHandler.RegisterRoutes(protectedRoutes)
	c.ReconcileHandler.RegisterRoutes(protectedRoutes)
	c.ReportHandler.RegisterRoutes(protectedRoutes)
	if c.SheetsHandler != nil {
		c.SheetsHandler.RegisterRoutes(protectedRoutes)
	}
}

func RegisterUtilityRoutes(router *gin.Engine, c *container.Container) {
	router.GET("/health", c.Health.Handler())
	router.GET("/metrics", gin.WrapH(c.Metrics.Handler()))
}
