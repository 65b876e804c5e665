package googlesheets

import (
	"context"
	"net/http"

	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/inventory/reconcile"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/models"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/roles"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Reconciler interface {
	ReconcileSource(ctx context.Context, src reconcile.RowSource, actor models.Actor) (*reconcile.Report, error)
}

type GoogleSheetsHandler struct {
	reader     ValuesReader
	reconciler Reconciler
	logger     *zap.Logger
}

func NewGoogleSheetsHandler(reader ValuesReader, reconciler Reconciler, logger *zap.Logger) *GoogleSheetsHandler {
	return &GoogleSheetsHandler{
		reader:     reader,
		reconciler: reconciler,
		logger:     logger,
	}
}

func (h *GoogleSheetsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/assignments/import/sheet", security.Authorize(roles.Admin), h.ImportSheet)
}

func (h *GoogleSheetsHandler) ImportSheet(c *gin.Context) {
	var req struct {
		SpreadsheetID string `json:"spreadsheet_id" binding:"required"`
		Range         string `json:"range"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Required parameters: spreadsheet_id and optional range", "details": err.Error()})
		return
	}

	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	h.logger.Info("Importing assignments from spreadsheet",
		zap.String("spreadsheet_id", req.SpreadsheetID),
		zap.String("range", req.Range),
		zap.Int("actor_id", actor.ID),
	)
	report, err := h.reconciler.ReconcileSource(c.Request.Context(), NewSheetSource(h.reader, req.SpreadsheetID, req.Range), actor)
	reconcile.RespondReport(c, h.logger, report, err)
}
