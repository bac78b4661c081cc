package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"contractflow/pkg/utils"
	"github.com/gin-gonic/gin"
)

// Recovery turns a panic into a logged 500 in the usual response envelope.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				slog.Error("panic recovered",
					"error", err,
					"trace_id", GetTraceID(c),
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"stack", string(debug.Stack()),
				)

				utils.RespondError(c, http.StatusInternalServerError, "Internal server error")
				c.Abort()
			}
		}()

		c.Next()
	}
}
