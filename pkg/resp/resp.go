package resp

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": data})
}
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"ok": true, "data": data})
}
func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"ok": false, "error": msg})
}
func BadRequest(c *gin.Context, msg string) {
	Error(c, http.StatusBadRequest, msg)
}
func Unauthorized(c *gin.Context, msg string) {
	Error(c, http.StatusUnauthorized, msg)
}
func Forbidden(c *gin.Context, msg string) {
	Error(c, http.StatusForbidden, msg)
}
func NotFound(c *gin.Context, msg string) {
	Error(c, http.StatusNotFound, msg)
}
func Conflict(c *gin.Context, msg string) {
	Error(c, http.StatusConflict, msg)
}
func Unavailable(c *gin.Context, msg string) {
	Error(c, http.StatusServiceUnavailable, msg)
}
// ServerError hides err from the client; callers log it.
func ServerError(c *gin.Context, err error) {
	Error(c, http.StatusInternalServerError, "internal server error")
}
