package middleware

import (
	"context"
	"errors"
	"net/http"

	custom_error "github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RespondError maps the error taxonomy onto HTTP statuses and aborts the request.
func RespondError(c *gin.Context, logger *zap.Logger, err error) {
	var (
		validationErr *custom_error.ValidationError
		notFoundErr   *custom_error.NotFoundError
		conflictErr   *custom_error.ConflictError
		fkErr         *custom_error.ForeignKeyViolationError
	)

	switch {
	case errors.As(err, &validationErr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error": validationErr.Error(),
			"field": validationErr.Field,
			"code":  "validation_error",
		})
	case errors.As(err, &notFoundErr):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"error": notFoundErr.Error(),
			"code":  "not_found",
		})
	case errors.As(err, &conflictErr):
		body := gin.H{"error": conflictErr.Error(), "code": "conflict"}
		if conflictErr.ExistingID != 0 {
			body["existing_id"] = conflictErr.ExistingID
		}
		c.AbortWithStatusJSON(http.StatusConflict, body)
	case errors.As(err, &fkErr):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"error": fkErr.Error(),
			"code":  "referenced",
		})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.AbortWithStatusJSON(http.StatusGatewayTimeout, gin.H{
			"error": "request cancelled",
			"code":  "cancelled",
		})
	default:
		if logger != nil {
			logger.Error("Request failed",
				zap.String("path", c.FullPath()),
				zap.Error(err),
			)
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error": "Internal Server Error",
			"code":  "internal_error",
		})
	}
}
