package employees

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
	Create(ctx context.Context, req models.CreateEmployeeRequest, actor models.Actor) (*models.Employee, error)
	Get(ctx context.Context, id int) (*models.Employee, error)
	List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, error)
	Update(ctx context.Context, id int, req models.UpdateEmployeeRequest, actor models.Actor) (*models.Employee, error)
	Deactivate(ctx context.Context, id int) error
	HeldAssets(ctx context.Context, id int) ([]models.Asset, error)
}

type EmployeeHandler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(s Service, logger *zap.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		service: s,
		logger:  logger,
	}
}

func (h *EmployeeHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/employees", security.Authorize(roles.User), h.ListEmployees)
	router.POST("/employees", security.Authorize(roles.User), h.CreateEmployee)
	router.GET("/employees/:id", security.Authorize(roles.User), h.GetEmployee)
	router.PATCH("/employees/:id", security.Authorize(roles.User), h.UpdateEmployee)
	router.DELETE("/employees/:id", security.Authorize(roles.Admin), h.RemoveEmployee)
	router.GET("/employees/:id/assets", security.Authorize(roles.User), h.GetHeldAssets)
}

func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	var query struct {
		Name            string `form:"name"`
		CompanyID       *int   `form:"company_id" binding:"omitempty,gt=0"`
		AreaID          *int   `form:"area_id" binding:"omitempty,gt=0"`
		IncludeInactive bool   `form:"include_inactive"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters", "details": err.Error()})
		return
	}

	employees, err := h.service.List(c.Request.Context(), models.EmployeeFilter{
		Name:            query.Name,
		CompanyID:       query.CompanyID,
		AreaID:          query.AreaID,
		IncludeInactive: query.IncludeInactive,
	})
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, employees)
}

func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var req models.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	employee, err := h.service.Create(c.Request.Context(), req, actor)
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, employee)
}

func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	employee, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, employee)
}

func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req models.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	employee, err := h.service.Update(c.Request.Context(), id, req, actor)
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, employee)
}

func (h *EmployeeHandler) RemoveEmployee(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), id); err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Employee deactivated successfully"})
}

func (h *EmployeeHandler) GetHeldAssets(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	assets, err := h.service.HeldAssets(c.Request.Context(), id)
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, assets)
}

func parseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id parameter, must be an integer"})
		return 0, false
	}
	return id, true
}
