package middlewares

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/janhq/calorie-api/internal/infrastructure/metrics"
)

const metricsPath = "/metrics"

// MetricsMiddleware records request count and latency per route. Scrapes of /metrics are not counted,
// and unmatched paths share one label so requests for random URLs cannot add series.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		endpoint := c.FullPath()
		switch endpoint {
		case metricsPath:
			return
		case "":
			endpoint = "unmatched"
		}
		metrics.RecordRequest(c.Request.Method, endpoint, strconv.Itoa(c.Writer.Status()), time.Since(start).Seconds())
	}
}
