package middlewares

import (
	"net/http"
	"strings"

	"marketplace/utils"

	"github.com/gin-gonic/gin"
)

// WSAuthMiddleware reads the JWT from ?token= (browsers cannot set headers on
// websocket upgrades) or from the Authorization header.
func WSAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := c.Query("token")
		if tokenStr == "" {
			if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
				tokenStr = strings.TrimPrefix(h, "Bearer ")
			}
		}
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "missing token"})
			return
		}

		claims, err := utils.ParseToken(tokenStr, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid token"})
			return
		}

		utils.SetCurrentUser(c, claims.UserID, claims.Role)
		c.Next()
	}
}
