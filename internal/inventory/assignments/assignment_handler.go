package assignments

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
	Create(ctx context.Context, req models.CreateAssignmentRequest, actor models.Actor) (*models.Assignment, error)
	Get(ctx context.Context, id int) (*models.Assignment, error)
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error)
	Update(ctx context.Context, id int, changes models.AssignmentChanges, actor models.Actor) (*models.Assignment, error)
	Retire(ctx context.Context, id int, req models.RetireAssignmentRequest, actor models.Actor) (*models.Assignment, error)
	Reactivate(ctx context.Context, id int, req models.ReactivateAssignmentRequest, actor models.Actor) (*models.Assignment, error)
	History(ctx context.Context, id int) ([]models.AuditEntry, error)
	AuditTrail(ctx context.Context, filter models.AuditFilter) ([]models.AuditEntry, error)
}

type AssignmentHandler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(s Service, logger *zap.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		service: s,
		logger:  logger,
	}
}

func (h *AssignmentHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/assignments", security.Authorize(roles.User), h.ListAssignments)
	router.POST("/assignments", security.Authorize(roles.User), h.CreateAssignment)
	router.GET("/assignments/:id", security.Authorize(roles.User), h.GetAssignment)
	router.PUT("/assignments/:id", security.Authorize(roles.User), h.UpdateAssignment)
	router.PATCH("/assignments/:id/retire", security.Authorize(roles.User), h.RetireAssignment)
	router.PATCH("/assignments/:id/reactivate", security.Authorize(roles.Admin), h.ReactivateAssignment)
	router.GET("/assignments/:id/history", security.Authorize(roles.User), h.GetHistory)
	router.GET("/audit", security.Authorize(roles.Admin), h.GetAuditTrail)
}

func (h *AssignmentHandler) ListAssignments(c *gin.Context) {
	var query struct {
		EmployeeID *int  `form:"employee_id" binding:"omitempty,gt=0"`
		AssetID    *int  `form:"asset_id" binding:"omitempty,gt=0"`
		Active     *bool `form:"active"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters", "details": err.Error()})
		return
	}

	assignments, err := h.service.List(c.Request.Context(), models.AssignmentFilter{
		EmployeeID: query.EmployeeID,
		AssetID:    query.AssetID,
		Active:     query.Active,
	})
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, assignments)
}

func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	var req models.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	actor, ok := h.actor(c)
	if !ok {
		return
	}

	assignment, err := h.service.Create(c.Request.Context(), req, actor)
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, assignment)
}

func (h *AssignmentHandler) GetAssignment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	assignment, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, assignment)
}

func (h *AssignmentHandler) UpdateAssignment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var changes models.AssignmentChanges
	if err := c.ShouldBindJSON(&changes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}
	if !changes.HasChanges() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	actor, ok := h.actor(c)
	if !ok {
		return
	}

	assignment, err := h.service.Update(c.Request.Context(), id, changes, actor)
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, assignment)
}

func (h *AssignmentHandler) RetireAssignment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req models.RetireAssignmentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
			return
		}
	}

	actor, ok := h.actor(c)
	if !ok {
		return
	}

	assignment, err := h.service.Retire(c.Request.Context(), id, req, actor)
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, assignment)
}

func (h *AssignmentHandler) ReactivateAssignment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req models.ReactivateAssignmentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
			return
		}
	}

	actor, ok := h.actor(c)
	if !ok {
		return
	}

	assignment, err := h.service.Reactivate(c.Request.Context(), id, req, actor)
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, assignment)
}

func (h *AssignmentHandler) GetHistory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	entries, err := h.service.History(c.Request.Context(), id)
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

func (h *AssignmentHandler) GetAuditTrail(c *gin.Context) {
	var query struct {
		AssignmentID *int `form:"assignment_id" binding:"omitempty,gt=0"`
		EmployeeID   *int `form:"employee_id" binding:"omitempty,gt=0"`
		AssetID      *int `form:"asset_id" binding:"omitempty,gt=0"`
		Limit        uint `form:"limit" binding:"omitempty,max=1000"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters", "details": err.Error()})
		return
	}

	entries, err := h.service.AuditTrail(c.Request.Context(), models.AuditFilter{
		AssignmentID: query.AssignmentID,
		EmployeeID:   query.EmployeeID,
		AssetID:      query.AssetID,
		Limit:        query.Limit,
	})
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

func (h *AssignmentHandler) actor(c *gin.Context) (models.Actor, bool) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return models.Actor{}, false
	}
	return actor, true
}

func parseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id parameter, must be an integer"})
		return 0, false
	}
	return id, true
}
