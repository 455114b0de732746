package observability

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	healthStatusOK          = "ok"
	healthStatusUnavailable = "unavailable"
)

// ReadyCheck reports whether a subsystem is ready. A nil error passes.
type ReadyCheck func(ctx context.Context) error

// HealthHandler answers liveness checks with {"status":"ok"}.
func HealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": healthStatusOK})
	}
}

// ReadyHandler runs checks in order and answers 503 on the first failure.
func ReadyHandler(checks ...ReadyCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, check := range checks {
			if err := check(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": healthStatusUnavailable})

				return
			}
		}

		c.JSON(http.StatusOK, gin.H{"status": healthStatusOK})
	}
}
