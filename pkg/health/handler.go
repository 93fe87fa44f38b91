package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

var startedAt = time.Now()

// LivenessHandler answers as long as the process can serve HTTP.
func LivenessHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":         StatusUp,
			"uptime_seconds": int64(time.Since(startedAt).Seconds()),
		})
	}
}

// ReadinessHandler runs every registered check. Only a down dependency takes
// the instance out of rotation; degraded ones are reported with 200.
func ReadinessHandler(registry *Registry, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		response := registry.CheckAll(ctx)

		code := http.StatusOK
		if response.Status == StatusDown {
			code = http.StatusServiceUnavailable
		}

		c.Header("Cache-Control", "no-store")
		c.JSON(code, response)
	}
}
