package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware records per-route request counts and latencies.
// The service exposes a handful of routes and a handful of status
// codes (200, 400, 405, 500), so the exact code is used as the status
// label. Requests that match no route collapse into one "unmatched"
// label to keep cardinality flat under path scanning.
func MetricsMiddleware(service string, hm *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		hm.InflightRequests.WithLabelValues(service).Inc()
		defer hm.InflightRequests.WithLabelValues(service).Dec()

		start := time.Now()
		c.Next()
		elapsed := time.Since(start).Seconds()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		hm.RequestsTotal.WithLabelValues(service, route, c.Request.Method, status).Inc()
		hm.RequestDuration.WithLabelValues(service, route, c.Request.Method, status).Observe(elapsed)
	}
}
