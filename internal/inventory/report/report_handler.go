package report

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/middleware"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/models"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/roles"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Service interface {
	Projections(ctx context.Context, filter models.ProjectionFilter) ([]models.AssignmentProjection, error)
	AssignmentsWorkbook(ctx context.Context, filter models.ProjectionFilter) (*bytes.Buffer, error)
}

type ReportHandler struct {
	service Service
	logger  *zap.Logger
	now     func() time.Time
}

func NewHandler(s Service, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		service: s,
		logger:  logger,
		now:     time.Now,
	}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/reports/assignments", security.Authorize(roles.User), h.GetProjections)
	router.GET("/reports/assignments.xlsx", security.Authorize(roles.Admin), h.DownloadWorkbook)
}

func (h *ReportHandler) GetProjections(c *gin.Context) {
	filter, ok := bindFilter(c)
	if !ok {
		return
	}

	rows, err := h.service.Projections(c.Request.Context(), filter)
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}

func (h *ReportHandler) DownloadWorkbook(c *gin.Context) {
	filter, ok := bindFilter(c)
	if !ok {
		return
	}

	buf, err := h.service.AssignmentsWorkbook(c.Request.Context(), filter)
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}

	filename := fmt.Sprintf("Reporte_Inventario_%s.xlsx", h.now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func bindFilter(c *gin.Context) (models.ProjectionFilter, bool) {
	var query struct {
		Active    *bool `form:"active"`
		CompanyID *int  `form:"company_id" binding:"omitempty,gt=0"`
		CityID    *int  `form:"city_id" binding:"omitempty,gt=0"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters", "details": err.Error()})
		return models.ProjectionFilter{}, false
	}

	return models.ProjectionFilter{
		Active:    query.Active,
		CompanyID: query.CompanyID,
		CityID:    query.CityID,
	}, true
}
