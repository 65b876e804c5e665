package reconcile

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/middleware"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/models"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/roles"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxUploadBytes = 10 << 20

type Service interface {
	Reconcile(ctx context.Context, rows []Row, actor models.Actor) (*Report, error)
	ReconcileSource(ctx context.Context, src RowSource, actor models.Actor) (*Report, error)
}

type ReconcileHandler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(s Service, logger *zap.Logger) *ReconcileHandler {
	return &ReconcileHandler{
		service: s,
		logger:  logger,
	}
}

func (h *ReconcileHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/assignments/import", security.Authorize(roles.Admin), h.ImportWorkbook)
	router.POST("/assignments/import/rows", security.Authorize(roles.Admin), h.ImportRows)
}

func (h *ReconcileHandler) ImportWorkbook(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file field", "details": err.Error()})
		return
	}
	if !strings.EqualFold(filepath.Ext(header.Filename), ".xlsx") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only .xlsx workbooks are supported"})
		return
	}
	if header.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Workbook is too large"})
		return
	}

	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to open uploaded file"})
		return
	}
	defer file.Close()

	source := NewXLSXSource(file)
	if sheet := c.PostForm("sheet"); sheet != "" {
		source.WithSheet(sheet)
	}

	report, err := h.service.ReconcileSource(c.Request.Context(), source, actor)
	h.respond(c, report, err)
}

func (h *ReconcileHandler) ImportRows(c *gin.Context) {
	var req struct {
		Rows []Row `json:"rows" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	report, err := h.service.Reconcile(c.Request.Context(), req.Rows, actor)
	h.respond(c, report, err)
}

func (h *ReconcileHandler) respond(c *gin.Context, report *Report, err error) {
	RespondReport(c, h.logger, report, err)
}

// RespondReport writes the reconciliation report. An interrupted batch still
// returns the partial report.
func RespondReport(c *gin.Context, logger *zap.Logger, report *Report, err error) {
	if err != nil && report != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		logger.Warn("Reconciliation interrupted",
			zap.String("batch_id", report.BatchID),
			zap.Int("rows_processed", report.RowsProcessed),
			zap.Error(err),
		)
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "Reconciliation interrupted", "report": report})
		return
	}
	if err != nil {
		middleware.RespondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
