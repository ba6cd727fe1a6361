package handlers

import (
	"net/http"
	"strconv"

	"sparklewash/internal/models"
	"sparklewash/internal/services"

	"github.com/gin-gonic/gin"
)

const currentUserKey = "current_user"

// RequireUser resolves the acting user from the X-User-ID header and aborts
// with 401 when it is missing or unknown.
func RequireUser(userService services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("X-User-ID")
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "X-User-ID header is required"})
			return
		}

		user, err := userService.GetUserByID(uint(id))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

func currentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(currentUserKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}
