package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pnt-health-station-api-server/internal/core"
)

// currentActor lấy danh tính đã được middleware Authenticate đặt vào context.
func currentActor(c *gin.Context) core.Actor {
	return core.Actor{
		Email: c.GetString("user_email"),
		Role:  c.GetString("user_role"),
	}
}

// writeDomainError ánh xạ từng loại lỗi nghiệp vụ sang HTTP status.
func writeDomainError(c *gin.Context, err error) {
	var (
		validationErr    *core.ValidationError
		authorizationErr *core.AuthorizationError
		stockErr         *core.InsufficientStockError
		notFoundErr      *core.NotFoundError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
	case errors.As(err, &authorizationErr):
		c.JSON(http.StatusForbidden, gin.H{"error": authorizationErr.Message})
	case errors.As(err, &stockErr):
		c.JSON(http.StatusConflict, gin.H{
			"error":        stockErr.Error(),
			"medicationId": stockErr.MedicationID,
			"area":         stockErr.Area,
			"requested":    stockErr.Requested,
			"available":    stockErr.Available,
		})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
