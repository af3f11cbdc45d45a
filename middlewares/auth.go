package middlewares

import (
	"strings"

	"marketplace/pkg/resp"
	"marketplace/utils"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware checks the bearer token and, when roles are given, that the
// caller has one of them.
func AuthMiddleware(secret string, requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			resp.Unauthorized(c, "missing or invalid token")
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(strings.TrimPrefix(h, "Bearer "), secret)
		if err != nil {
			resp.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}
		utils.SetCurrentUser(c, claims.UserID, claims.Role)

		if !hasRole(claims.Role, requiredRoles) {
			resp.Forbidden(c, "forbidden")
			c.Abort()
			return
		}
		c.Next()
	}
}

func hasRole(role string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, r := range allowed {
		if role == r {
			return true
		}
	}
	return false
}
