package catalog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/middleware"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/metadata"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/models"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/roles"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Service interface {
	Create(ctx context.Context, kind metadata.CatalogKind, rawName string, actor models.Actor) (*models.CatalogEntry, error)
	Get(ctx context.Context, kind metadata.CatalogKind, id int) (*models.CatalogEntry, error)
	List(ctx context.Context, kind metadata.CatalogKind, includeInactive bool) ([]models.CatalogEntry, error)
	Rename(ctx context.Context, kind metadata.CatalogKind, id int, rawName string) (*models.CatalogEntry, error)
	SetActive(ctx context.Context, kind metadata.CatalogKind, id int, active bool) error
}

type CatalogHandler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(s Service, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: s,
		logger:  logger,
	}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/catalogs/:kind", security.Authorize(roles.User), h.ListEntries)
	router.GET("/catalogs/:kind/:id", security.Authorize(roles.User), h.GetEntry)
	router.POST("/catalogs/:kind", security.Authorize(roles.Admin), h.CreateEntry)
	router.PATCH("/catalogs/:kind/:id", security.Authorize(roles.Admin), h.RenameEntry)
	router.PATCH("/catalogs/:kind/:id/deactivate", security.Authorize(roles.Admin), h.setActive(false))
	router.PATCH("/catalogs/:kind/:id/activate", security.Authorize(roles.Admin), h.setActive(true))
}

func (h *CatalogHandler) ListEntries(c *gin.Context) {
	kind, ok := bindKind(c)
	if !ok {
		return
	}
	includeInactive, _ := strconv.ParseBool(c.DefaultQuery("include_inactive", "false"))

	entries, err := h.service.List(c.Request.Context(), kind, includeInactive)
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

func (h *CatalogHandler) GetEntry(c *gin.Context) {
	kind, ok := bindKind(c)
	if !ok {
		return
	}
	id, ok := bindID(c)
	if !ok {
		return
	}

	entry, err := h.service.Get(c.Request.Context(), kind, id)
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

func (h *CatalogHandler) CreateEntry(c *gin.Context) {
	kind, ok := bindKind(c)
	if !ok {
		return
	}

	var req models.CatalogEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.service.Create(c.Request.Context(), kind, req.Name, actor)
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

func (h *CatalogHandler) RenameEntry(c *gin.Context) {
	kind, ok := bindKind(c)
	if !ok {
		return
	}
	id, ok := bindID(c)
	if !ok {
		return
	}

	var req models.CatalogEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	entry, err := h.service.Rename(c.Request.Context(), kind, id, req.Name)
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

func (h *CatalogHandler) setActive(active bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		kind, ok := bindKind(c)
		if !ok {
			return
		}
		id, ok := bindID(c)
		if !ok {
			return
		}

		if err := h.service.SetActive(c.Request.Context(), kind, id, active); err != nil {
			middleware.RespondError(c, h.logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"id": id, "is_active": active})
	}
}

func bindKind(c *gin.Context) (metadata.CatalogKind, bool) {
	kind, err := metadata.NewCatalogKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return kind, true
}

func bindID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id parameter, must be an integer"})
		return 0, false
	}
	return id, true
}
