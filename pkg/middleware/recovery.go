package middleware

import (
	"net/http"

	"fanvault-console/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ErrorBoundary turns a panic in a page handler into a generic retry answer.
func ErrorBoundary(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Error("[PANIC] %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error": "Something went wrong. Please try again.",
			"retry": true,
		})
	})
}
