package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joblinkhq/joblink/internal/models"
	"github.com/joblinkhq/joblink/internal/utils"
)

// RequireRole gates an endpoint to one role of the closed set. Matching
// is exhaustive over models.Role values, never raw strings.
func RequireRole(required models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get("role")
		role, _ := v.(models.Role)

		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, apiError{
				Code:    utils.CodeForbidden,
				Message: "forbidden",
			})
			return
		}

		switch role {
		case models.RoleWorker, models.RoleRecruiter:
			if role != required {
				c.AbortWithStatusJSON(http.StatusForbidden, apiError{
					Code:    utils.CodeForbidden,
					Message: "forbidden",
				})
				return
			}
		default:
			c.AbortWithStatusJSON(http.StatusForbidden, apiError{
				Code:    utils.CodeForbidden,
				Message: "forbidden",
			})
			return
		}

		c.Next()
	}
}

func RequireWorker() gin.HandlerFunc    { return RequireRole(models.RoleWorker) }
func RequireRecruiter() gin.HandlerFunc { return RequireRole(models.RoleRecruiter) }
