package handlers

import (
	"errors"
	"net/http"

	"sparklewash/internal/models"
	"sparklewash/internal/services"

	"github.com/gin-gonic/gin"
)

// respondError maps domain errors to HTTP status codes.
func respondError(c *gin.Context, err error) {
	var (
		verrs      services.ValidationErrors
		transition *models.InvalidTransitionError
		authErr    *services.AuthorizationError
		notFound   *services.NotFoundError
		conflict   *services.ConflictError
	)

	switch {
	case errors.As(err, &verrs):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": []string(verrs)})
	case errors.As(err, &transition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": []string{transition.Error()}})
	case errors.As(err, &authErr):
		c.JSON(http.StatusForbidden, gin.H{"error": authErr.Error()})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":                    conflict.Error(),
			"conflicting_order_number": conflict.OrderNumber,
		})
	case errors.Is(err, services.ErrOrderNumberExhausted):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
