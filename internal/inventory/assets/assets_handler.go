package assets

import (
	"context"
	"net/http"
	"strconv"

	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/middleware"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/models"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/roles"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Service interface {
	Create(ctx context.Context, req models.CreateAssetRequest, actor models.Actor) (*models.Asset, error)
	Get(ctx context.Context, id int) (*models.Asset, error)
	List(ctx context.Context, filter models.AssetFilter) ([]models.Asset, error)
	Update(ctx context.Context, id int, req models.UpdateAssetRequest, actor models.Actor) (*models.Asset, error)
	Deactivate(ctx context.Context, id int) error
}

type AssetHandler struct {
	service Service
	logger  *zap.Logger
}

func NewAssetHandler(s Service, logger *zap.Logger) *AssetHandler {
	return &AssetHandler{
		service: s,
		logger:  logger,
	}
}

func (h *AssetHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/assets", security.Authorize(roles.User), h.GetAssets)
	router.POST("/assets", security.Authorize(roles.User), h.CreateAsset)
	router.GET("/assets/:id", security.Authorize(roles.User), h.GetAsset)
	router.PATCH("/assets/:id", security.Authorize(roles.User), h.UpdateAsset)
	router.DELETE("/assets/:id", security.Authorize(roles.Admin), h.RemoveAsset)
}

func (h *AssetHandler) GetAssets(c *gin.Context) {
	var query struct {
		Serial          string `form:"serial"`
		EquipmentTypeID *int   `form:"equipment_type_id" binding:"omitempty,gt=0"`
		IncludeInactive bool   `form:"include_inactive"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters", "details": err.Error()})
		return
	}

	assets, err := h.service.List(c.Request.Context(), models.AssetFilter{
		Serial:          query.Serial,
		EquipmentTypeID: query.EquipmentTypeID,
		IncludeInactive: query.IncludeInactive,
	})
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, assets)
}

func (h *AssetHandler) CreateAsset(c *gin.Context) {
	var req models.CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	asset, err := h.service.Create(c.Request.Context(), req, actor)
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, asset)
}

func (h *AssetHandler) GetAsset(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id parameter, must be an integer"})
		return
	}

	asset, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, asset)
}

func (h *AssetHandler) UpdateAsset(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id parameter, must be an integer"})
		return
	}

	var req models.UpdateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	asset, err := h.service.Update(c.Request.Context(), id, req, actor)
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, asset)
}

func (h *AssetHandler) RemoveAsset(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to bind asset ID, value must be an integer"})
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), id); err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Asset deactivated successfully"})
}
