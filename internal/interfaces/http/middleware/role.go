package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tenancy/backend/internal/infrastructure/auth"
)

// RequireRole creates middleware that restricts a route to callers whose
// token carries one of the given roles.
func RequireRole(roles ...auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := auth.Role(GetJWTRole(c))
		if role == "" {
			// Development fallback when the route group runs without the
			// JWT middleware.
			role = auth.Role(c.GetHeader("X-User-Role"))
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Caller role is not allowed to perform this operation",
			},
		})
	}
}
