package middlewares

import (
	"marketplace/entity"
	"marketplace/pkg/resp"
	"marketplace/utils"

	"github.com/gin-gonic/gin"
)

type userFinder interface {
	FindByID(id uint) (*entity.User, error)
}

// RequireKYC blocks callers whose identity is not verified.
func RequireKYC(users userFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := users.FindByID(utils.CurrentUserID(c))
		if err != nil {
			resp.Unauthorized(c, "user not found")
			c.Abort()
			return
		}
		if !utils.IsKYCVerified(user) {
			resp.Forbidden(c, "identity verification required")
			c.Abort()
			return
		}
		c.Next()
	}
}
