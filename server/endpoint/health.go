package endpoint

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/articles/component"
)

// HealthChecker returns health status for installed services.
type HealthChecker func(ctx context.Context) []component.Health

// Health reports the aggregate status: unhealthy (503) if any service is
// unhealthy, degraded if any is degraded, healthy otherwise.
func Health(serviceName string, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := component.StatusHealthy
		var services []component.Health

		if checker != nil {
			services = checker(c.Request.Context())
			for _, h := range services {
				if h.Status == component.StatusUnhealthy {
					status = component.StatusUnhealthy
					break
				}
				if h.Status == component.StatusDegraded {
					status = component.StatusDegraded
				}
			}
		}

		httpStatus := http.StatusOK
		if status == component.StatusUnhealthy {
			httpStatus = http.StatusServiceUnavailable
		}

		c.JSON(httpStatus, gin.H{
			"status":    status,
			"service":   serviceName,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"services":  services,
		})
	}
}
