package handler

import (
	"runtime/debug"

	"genesis-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Recovery logs a handler panic with its stack and terminates the process.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, err any) {
		logger.Fatalf("panic serving %s %s: %v\n%s", c.Request.Method, c.Request.URL.Path, err, debug.Stack())
	})
}
