package middlewares

import (
	"time"

	"marketplace/pkg/logger"
	"marketplace/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func RequestLogger(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		zl := l.Zerolog()
		var ev *zerolog.Event
		switch {
		case status >= 500:
			ev = zl.Error()
		case status >= 400:
			ev = zl.Warn()
		default:
			ev = zl.Info()
		}
		if len(c.Errors) > 0 {
			ev = ev.Str("errors", c.Errors.String())
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Uint("userId", utils.CurrentUserID(c)).
			Msg("request")
	}
}
